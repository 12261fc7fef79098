package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

const (
	MinSlotDuration = 5
	MaxSlotDuration = 120
	MaxGracePeriod  = 60
)

// DoctorSchedule - рабочие часы врача, настроенные напрямую, без шаблона.
type DoctorSchedule struct {
	DoctorID     uuid.UUID       `json:"doctorId"`
	StartTime    json_types.Time `json:"startTime"`
	EndTime      json_types.Time `json:"endTime"`
	SlotDuration int             `json:"slotDuration"`
	GracePeriod  int             `json:"gracePeriod"`
}

// Validate проверяет границы конфигурации до запуска генерации.
// Инвертированное окно не ошибка, оно дает пустой результат.
func (s DoctorSchedule) Validate() error {
	if s.SlotDuration < MinSlotDuration || s.SlotDuration > MaxSlotDuration {
		return fmt.Errorf("slot duration must be between %d and %d minutes, got %d",
			MinSlotDuration, MaxSlotDuration, s.SlotDuration)
	}
	if s.GracePeriod < 0 || s.GracePeriod > MaxGracePeriod {
		return fmt.Errorf("grace period must be between 0 and %d minutes, got %d",
			MaxGracePeriod, s.GracePeriod)
	}

	return nil
}
