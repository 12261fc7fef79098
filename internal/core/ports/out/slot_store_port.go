package out

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

// SlotStorePort - граница с хранилищем статусов слотов.
// Движок только считает, проверка check-then-commit должна быть атомарной
// на стороне хранилища (условный UPDATE по уникальному ключу).
type SlotStorePort interface {
	// Конфигурация рабочих часов врача
	GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error)

	// Персистентные статусы слотов на дату
	GetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, error)
	SaveSlots(ctx context.Context, doctorID uuid.UUID, slots []domain.Slot) error
	UpsertSlotStatus(ctx context.Context, doctorID uuid.UUID, update domain.SlotStatusUpdate) error

	// Атомарное бронирование: запись проходит только если слот еще свободен,
	// иначе возвращается domain.ErrSlotUnavailable
	BookSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, appointmentID uuid.UUID) error
	ReleaseAppointment(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error

	// Активный шаблон доступности на дату, nil если не настроен
	GetDefaultTemplate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*domain.AvailabilityTemplate, error)
}
