package schedule_service

import (
	"time"

	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

// SlotRange - кандидат слота в минутах с начала суток, интервал полуоткрытый [Start, End).
type SlotRange struct {
	Start int
	End   int
}

// GenerateSlots нарезает рабочее окно на непрерывные слоты фиксированной длины.
// Неполный хвостовой слот отбрасывается, при инвертированном окне результат пустой.
func GenerateSlots(startMinutes, endMinutes, slotDuration int) []SlotRange {
	return GenerateSlotsWithStep(startMinutes, endMinutes, slotDuration, slotDuration)
}

// GenerateSlotsWithStep нарезает окно с шагом step между началами слотов.
// При step > slotDuration между слотами появляется буфер, длина слота не меняется.
func GenerateSlotsWithStep(startMinutes, endMinutes, slotDuration, step int) []SlotRange {
	slots := make([]SlotRange, 0)
	if slotDuration <= 0 || step <= 0 {
		return slots
	}

	for t := startMinutes; t+slotDuration <= endMinutes; t += step {
		slots = append(slots, SlotRange{Start: t, End: t + slotDuration})
	}

	return slots
}

// EffectiveStep возвращает шаг между началами слотов с учетом буфера.
// Буфер вставляется между слотами и уменьшает их плотность, но не длительность.
func EffectiveStep(slotDuration, bufferMinutes int) int {
	return slotDuration + bufferMinutes
}

// AdjustForToday обрезает сегодняшнее рабочее окно по текущему времени с учетом
// льготного периода. Скорректированное начало выравнивается на ближайшую границу
// слота, кратную slotDuration от полуночи (выравнивание по абсолютным часам,
// а не от начала рабочего окна).
// Второе значение false означает, что слотов на сегодня не осталось.
func AdjustForToday(startMinutes, endMinutes, slotDuration int, now time.Time, gracePeriod int) (SlotRange, bool) {
	nowMinutes := utils.MinutesOfDay(now) + gracePeriod

	if nowMinutes >= endMinutes {
		return SlotRange{}, false
	}

	adjustedStart := startMinutes
	if nowMinutes > startMinutes {
		adjustedStart = ((nowMinutes + slotDuration - 1) / slotDuration) * slotDuration
		if adjustedStart >= endMinutes {
			return SlotRange{}, false
		}
	}

	return SlotRange{Start: adjustedStart, End: endMinutes}, true
}

// GenerateForDate генерирует кандидатов слотов на конкретную дату.
// Окно обрезается только для сегодняшнего дня; прошлые даты по умолчанию
// не фильтруются (поведение переключается политикой filterPastDates).
func GenerateForDate(date time.Time, startMinutes, endMinutes, slotDuration, gracePeriod int, now time.Time, filterPastDates bool) []SlotRange {
	return GenerateForDateWithStep(date, startMinutes, endMinutes, slotDuration, slotDuration, gracePeriod, now, filterPastDates)
}

// GenerateForDateWithStep - то же самое, но с шагом между началами слотов
// (для шаблонов с буфером между приемами).
func GenerateForDateWithStep(date time.Time, startMinutes, endMinutes, slotDuration, step, gracePeriod int, now time.Time, filterPastDates bool) []SlotRange {
	if startMinutes >= endMinutes {
		return []SlotRange{}
	}

	window := SlotRange{Start: startMinutes, End: endMinutes}

	if utils.SameDay(date, now) {
		adjusted, ok := AdjustForToday(startMinutes, endMinutes, slotDuration, now, gracePeriod)
		if !ok {
			return []SlotRange{}
		}
		window = adjusted
	} else if filterPastDates && date.Before(utils.StartCurrentDay(now)) {
		return []SlotRange{}
	}

	return GenerateSlotsWithStep(window.Start, window.End, slotDuration, step)
}
