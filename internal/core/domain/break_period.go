package domain

import (
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

// BreakPeriod - перерыв в рабочем дне врача (например, обед).
// Пересекающиеся перерывы допустимы, для исключения слотов важно их объединение.
type BreakPeriod struct {
	StartTime json_types.Time `json:"startTime"`
	EndTime   json_types.Time `json:"endTime"`
	Label     string          `json:"label,omitempty"`
}
