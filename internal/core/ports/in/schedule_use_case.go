package in

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

type ScheduleUseCase interface {
	// Дневная сетка слотов: сгенерированные кандидаты, слитые с
	// персистентными статусами по приоритету booked > blocked > available
	GetDaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, error)

	// Проверка кандидата на бронирование без записи
	CheckSlotConflicts(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, breaks []domain.BreakPeriod) (*domain.ConflictResult, error)

	// Проверка конфликтов + атомарное бронирование в хранилище
	BookAppointment(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, appointmentID uuid.UUID) (*domain.ConflictResult, error)
	CancelAppointment(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error

	// Ручной перевод статуса слота (блокировка/разблокировка)
	UpdateSlotStatus(ctx context.Context, doctorID uuid.UUID, update domain.SlotStatusUpdate) error

	// Применение шаблона доступности на диапазон дат
	ApplyTemplate(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]domain.Slot, *domain.ConflictResult, error)
	GetTemplatePresets(ctx context.Context) []domain.AvailabilityTemplate
}
