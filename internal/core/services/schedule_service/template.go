package schedule_service

import (
	"time"

	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

// ResolveTemplate разворачивает недельный шаблон в конкретные слоты на диапазон
// дат [from, to] включительно. Дни вне workingDays и вне периода действия шаблона
// слотов не дают. Буфер учитывается шагом генерации, перерывы вычитаются после,
// сегодняшний день обрезается по now с учетом льготного периода.
func ResolveTemplate(template domain.AvailabilityTemplate, from, to time.Time, gracePeriod int, now time.Time, filterPastDates bool) []domain.Slot {
	slots := make([]domain.Slot, 0)

	step := EffectiveStep(template.SlotDuration, template.BufferMinutes)
	endOfRange := utils.StartNextDay(to)

	for date := utils.StartCurrentDay(from); date.Before(endOfRange); date = date.AddDate(0, 0, 1) {
		if !template.HasWorkingDay(date.Weekday()) {
			continue
		}
		if !template.AppliesTo(date) {
			continue
		}

		candidates := GenerateForDateWithStep(date,
			template.StartTime.Minutes, template.EndTime.Minutes,
			template.SlotDuration, step, gracePeriod, now, filterPastDates)
		candidates = ApplyBreaks(candidates, template.Breaks)

		for _, candidate := range candidates {
			slots = append(slots, domain.Slot{
				Date:      json_types.Date{Date: date},
				StartTime: json_types.NewTime(candidate.Start),
				EndTime:   json_types.NewTime(candidate.End),
				Status:    domain.SlotStatusAvailable,
			})
		}
	}

	return slots
}
