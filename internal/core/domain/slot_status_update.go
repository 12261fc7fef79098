package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

// ErrSlotUnavailable возвращается хранилищем, когда условная запись статуса
// не прошла: слот уже занят другим бронированием или заблокирован.
var ErrSlotUnavailable = errors.New("slot is not available")

// SlotStatusUpdate - запрос на ручной перевод статуса слота.
// Это только валидационный шлюз перед записью в хранилище, проверку
// конфликтов обязан сделать вызывающий поток бронирования.
type SlotStatusUpdate struct {
	Date          json_types.Date `json:"date"`
	StartTime     json_types.Time `json:"startTime"`
	EndTime       json_types.Time `json:"endTime"`
	Status        SlotStatus      `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	AppointmentID *uuid.UUID      `json:"appointmentId,omitempty"`
}

func (u SlotStatusUpdate) Validate() error {
	if !u.Status.IsValid() {
		return fmt.Errorf("unknown slot status %q", u.Status)
	}
	if u.StartTime.Minutes >= u.EndTime.Minutes {
		return fmt.Errorf("start time %s must be before end time %s", u.StartTime, u.EndTime)
	}
	if u.Status == SlotStatusBlocked && u.Reason == "" {
		return errors.New("blocking a slot requires a reason")
	}
	if u.Status == SlotStatusBooked && u.AppointmentID == nil {
		return errors.New("booking a slot requires an appointment id")
	}

	return nil
}
