package schedule_service

import (
	"fmt"
	"time"

	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

// RangesOverlap - стандартный тест пересечения полуоткрытых интервалов.
// Касание концами пересечением не считается.
func RangesOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && e1 > s2
}

// CheckSlotConflicts проверяет кандидата на бронирование против существующих
// слотов и перерывов. Пересечения с booked/blocked и прошедшее время -
// жесткие конфликты, пересечение с available - только предупреждение.
func CheckSlotConflicts(start, end json_types.Time, date time.Time, existing []domain.Slot, breaks []domain.BreakPeriod, now time.Time) *domain.ConflictResult {
	result := domain.NewConflictResult()

	if start.Minutes >= end.Minutes {
		result.AddConflict(fmt.Sprintf("Start time %s must be before end time %s", start, end))
		return result
	}

	// Прошедшее время: конец слота как абсолютный момент строго раньше "сейчас"
	slotEnd := utils.AtMinute(date, end.Minutes)
	if slotEnd.Before(now) {
		result.AddConflict("Cannot schedule appointments in the past")
	}

	for _, slot := range existing {
		if !RangesOverlap(start.Minutes, end.Minutes, slot.StartTime.Minutes, slot.EndTime.Minutes) {
			continue
		}

		switch slot.Status {
		case domain.SlotStatusBooked:
			result.AddConflict(fmt.Sprintf("Time range overlaps a booked slot %s-%s", slot.StartTime, slot.EndTime))
		case domain.SlotStatusBlocked:
			result.AddConflict(fmt.Sprintf("Time range overlaps a blocked slot %s-%s", slot.StartTime, slot.EndTime))
		default:
			result.AddWarning(fmt.Sprintf("Time range overlaps an available slot %s-%s", slot.StartTime, slot.EndTime))
		}
	}

	for _, breakPeriod := range breaks {
		if RangesOverlap(start.Minutes, end.Minutes, breakPeriod.StartTime.Minutes, breakPeriod.EndTime.Minutes) {
			result.AddConflict(fmt.Sprintf("Time range overlaps a break %s-%s", breakPeriod.StartTime, breakPeriod.EndTime))
		}
	}

	return result
}

// ValidateDateRange проверяет диапазон дат для массовых операций.
// Инвертированный диапазон - жесткий конфликт, начало в прошлом - предупреждение.
func ValidateDateRange(from, to time.Time, now time.Time) *domain.ConflictResult {
	result := domain.NewConflictResult()

	if from.After(to) {
		result.AddConflict("Start date must be before end date")
		return result
	}

	if from.Before(utils.StartCurrentDay(now)) {
		result.AddWarning("Start date is in the past")
	}

	return result
}
