package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

const MaxBufferMinutes = 60

// AvailabilityTemplate - недельный шаблон доступности врача.
// Не больше одного шаблона с IsDefault=true на врача, за это отвечает хранилище.
type AvailabilityTemplate struct {
	ID            uuid.UUID              `json:"id"`
	DoctorID      uuid.UUID              `json:"doctorId"`
	Name          string                 `json:"name"`
	WorkingDays   []time.Weekday         `json:"workingDays"`
	StartTime     json_types.Time        `json:"startTime"`
	EndTime       json_types.Time        `json:"endTime"`
	SlotDuration  int                    `json:"slotDuration"`
	BufferMinutes int                    `json:"bufferMinutes"`
	Breaks        []BreakPeriod          `json:"breaks"`
	ValidFrom     json_types.DateOrEmpty `json:"validFrom"`
	ValidTo       json_types.DateOrEmpty `json:"validTo"`
	IsDefault     bool                   `json:"isDefault"`
}

func (t AvailabilityTemplate) Validate() error {
	if t.SlotDuration < MinSlotDuration || t.SlotDuration > MaxSlotDuration {
		return fmt.Errorf("slot duration must be between %d and %d minutes, got %d",
			MinSlotDuration, MaxSlotDuration, t.SlotDuration)
	}
	if t.BufferMinutes < 0 || t.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("buffer must be between 0 and %d minutes, got %d",
			MaxBufferMinutes, t.BufferMinutes)
	}
	if len(t.WorkingDays) == 0 {
		return fmt.Errorf("template %q has no working days", t.Name)
	}

	return nil
}

// HasWorkingDay проверяет, входит ли день недели в рабочие дни шаблона.
func (t AvailabilityTemplate) HasWorkingDay(day time.Weekday) bool {
	return slices.Contains(t.WorkingDays, day)
}

// AppliesTo проверяет вхождение даты в период действия шаблона.
// Пустые границы трактуются как открытый интервал.
func (t AvailabilityTemplate) AppliesTo(date time.Time) bool {
	if !t.ValidFrom.Date.IsZero() && date.Before(t.ValidFrom.Date) {
		return false
	}
	if !t.ValidTo.Date.IsZero() && date.After(t.ValidTo.Date) {
		return false
	}

	return true
}

// TemplatePresets - готовые валидные шаблоны без дополнительной логики.
// Значения подставляются в UI как отправная точка для настройки.
func TemplatePresets() []AvailabilityTemplate {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	return []AvailabilityTemplate{
		{
			Name:          "Weekdays 9-5",
			WorkingDays:   weekdays,
			StartTime:     json_types.NewTime(9 * 60),
			EndTime:       json_types.NewTime(17 * 60),
			SlotDuration:  30,
			BufferMinutes: 0,
			Breaks: []BreakPeriod{
				{StartTime: json_types.NewTime(13 * 60), EndTime: json_types.NewTime(14 * 60), Label: "Lunch"},
			},
		},
		{
			Name:          "Weekdays mornings",
			WorkingDays:   weekdays,
			StartTime:     json_types.NewTime(8 * 60),
			EndTime:       json_types.NewTime(12 * 60),
			SlotDuration:  20,
			BufferMinutes: 5,
			Breaks:        []BreakPeriod{},
		},
		{
			Name:          "Weekend consultations",
			WorkingDays:   []time.Weekday{time.Saturday, time.Sunday},
			StartTime:     json_types.NewTime(10 * 60),
			EndTime:       json_types.NewTime(15 * 60),
			SlotDuration:  45,
			BufferMinutes: 15,
			Breaks:        []BreakPeriod{},
		},
	}
}
