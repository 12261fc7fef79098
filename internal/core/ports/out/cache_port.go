package out

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
)

type CachePort interface {
	// Кэширование дневной сетки слотов врача
	GetDaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, bool)
	StoreDaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slots []domain.Slot)

	// Инвалидация при любой записи статусов
	InvalidateDay(ctx context.Context, doctorID uuid.UUID, date time.Time)
	InvalidateDoctor(ctx context.Context, doctorID uuid.UUID)
}
