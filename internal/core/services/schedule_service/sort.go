package schedule_service

import "github.com/suchimauz/clinic-slots-engine/internal/core/domain"

type SlotSlice []domain.Slot

// quickSort - сортировка слотов по дате и времени начала
func (s SlotSlice) quickSort() SlotSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2]

	less := SlotSlice{}
	equal := SlotSlice{}
	greater := SlotSlice{}

	for _, slot := range s {
		switch compareSlots(slot, pivot) {
		case -1:
			less = append(less, slot)
		case 0:
			equal = append(equal, slot)
		default:
			greater = append(greater, slot)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}

func compareSlots(a, b domain.Slot) int {
	aDay, bDay := a.DayKey(), b.DayKey()
	if aDay.Before(bDay) {
		return -1
	}
	if aDay.After(bDay) {
		return 1
	}
	if a.StartTime.Minutes < b.StartTime.Minutes {
		return -1
	}
	if a.StartTime.Minutes > b.StartTime.Minutes {
		return 1
	}
	return 0
}
