package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBlocked   SlotStatus = "blocked"
	SlotStatusBooked    SlotStatus = "booked"
)

// Приоритет статусов при слиянии пересекающихся источников:
// booked > blocked > available
var slotStatusPrecedence = map[SlotStatus]int{
	SlotStatusAvailable: 0,
	SlotStatusBlocked:   1,
	SlotStatusBooked:    2,
}

func (s SlotStatus) IsValid() bool {
	_, ok := slotStatusPrecedence[s]
	return ok
}

// MergeSlotStatus возвращает статус с большим приоритетом.
func MergeSlotStatus(a, b SlotStatus) SlotStatus {
	if slotStatusPrecedence[b] > slotStatusPrecedence[a] {
		return b
	}
	return a
}

type Slot struct {
	Date          json_types.Date `json:"date"`
	StartTime     json_types.Time `json:"startTime"`
	EndTime       json_types.Time `json:"endTime"`
	Status        SlotStatus      `json:"status"`
	AppointmentID *uuid.UUID      `json:"appointmentId,omitempty"`
}

// DayKey возвращает календарный день слота, нормализованный к 00:00.
func (s Slot) DayKey() time.Time {
	d := s.Date.Date
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
