package schedule_service

import (
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
)

// ApplyBreaks исключает слоты, пересекающие перерывы.
// Слот выбрасывается целиком даже при частичном пересечении, укорачивание
// под перерыв не делается. Касание границ пересечением не считается.
func ApplyBreaks(slots []SlotRange, breaks []domain.BreakPeriod) []SlotRange {
	if len(breaks) == 0 {
		return slots
	}

	filtered := make([]SlotRange, 0, len(slots))
	for _, slot := range slots {
		if !intersectsAnyBreak(slot, breaks) {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}

func intersectsAnyBreak(slot SlotRange, breaks []domain.BreakPeriod) bool {
	for _, breakPeriod := range breaks {
		if RangesOverlap(slot.Start, slot.End, breakPeriod.StartTime.Minutes, breakPeriod.EndTime.Minutes) {
			return true
		}
	}

	return false
}
