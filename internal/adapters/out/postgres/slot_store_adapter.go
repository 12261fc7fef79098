package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
)

// SlotStoreAdapter - реализация SlotStorePort поверх PostgreSQL.
// Атомарность check-then-commit обеспечивается уникальным ключом
// (doctor_id, date, start_minute) и условными апдейтами.
type SlotStoreAdapter struct {
	pool   *pgxpool.Pool
	logger out.LoggerPort
}

func NewSlotStoreAdapter(pool *pgxpool.Pool, logger out.LoggerPort) *SlotStoreAdapter {
	return &SlotStoreAdapter{
		pool:   pool,
		logger: logger.WithModule("SlotStoreAdapter"),
	}
}

func (a *SlotStoreAdapter) GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error) {
	query := `
		SELECT doctor_id, start_minute, end_minute, slot_duration, grace_period
		FROM doctor_schedules
		WHERE doctor_id = $1
	`

	var schedule domain.DoctorSchedule
	var startMinute, endMinute int

	err := a.pool.QueryRow(ctx, query, doctorID).Scan(
		&schedule.DoctorID,
		&startMinute,
		&endMinute,
		&schedule.SlotDuration,
		&schedule.GracePeriod,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor schedule: %w", err)
	}

	schedule.StartTime = json_types.NewTime(startMinute)
	schedule.EndTime = json_types.NewTime(endMinute)

	return &schedule, nil
}

func (a *SlotStoreAdapter) GetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, error) {
	query := `
		SELECT date, start_minute, end_minute, status, appointment_id
		FROM slots
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_minute
	`

	rows, err := a.pool.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var slot domain.Slot
		var slotDate time.Time
		var startMinute, endMinute int

		err := rows.Scan(&slotDate, &startMinute, &endMinute, &slot.Status, &slot.AppointmentID)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}

		slot.Date = json_types.Date{Date: slotDate}
		slot.StartTime = json_types.NewTime(startMinute)
		slot.EndTime = json_types.NewTime(endMinute)
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// SaveSlots сохраняет сгенерированные по шаблону слоты.
// Уже существующие строки (в том числе брони и блокировки) не трогаем.
func (a *SlotStoreAdapter) SaveSlots(ctx context.Context, doctorID uuid.UUID, slots []domain.Slot) error {
	query := `
		INSERT INTO slots (doctor_id, date, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (doctor_id, date, start_minute) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, slot := range slots {
		batch.Queue(query, doctorID, slot.Date.Date, slot.StartTime.Minutes, slot.EndTime.Minutes, slot.Status)
	}

	results := a.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range slots {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save slots: %w", err)
		}
	}

	return nil
}

func (a *SlotStoreAdapter) UpsertSlotStatus(ctx context.Context, doctorID uuid.UUID, update domain.SlotStatusUpdate) error {
	query := `
		INSERT INTO slots (doctor_id, date, start_minute, end_minute, status, reason, appointment_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (doctor_id, date, start_minute)
		DO UPDATE SET status = EXCLUDED.status,
		              reason = EXCLUDED.reason,
		              appointment_id = EXCLUDED.appointment_id
	`

	_, err := a.pool.Exec(ctx, query,
		doctorID,
		update.Date.Date,
		update.StartTime.Minutes,
		update.EndTime.Minutes,
		update.Status,
		update.Reason,
		update.AppointmentID,
	)
	if err != nil {
		return fmt.Errorf("upsert slot status: %w", err)
	}

	return nil
}

// BookSlot - атомарная бронь: запись проходит только если слот отсутствует
// или еще свободен. Проигранная гонка видна как ErrSlotUnavailable.
func (a *SlotStoreAdapter) BookSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, appointmentID uuid.UUID) error {
	query := `
		INSERT INTO slots (doctor_id, date, start_minute, end_minute, status, appointment_id)
		VALUES ($1, $2, $3, $4, 'booked', $5)
		ON CONFLICT (doctor_id, date, start_minute)
		DO UPDATE SET status = 'booked', appointment_id = EXCLUDED.appointment_id
		WHERE slots.status = 'available'
	`

	result, err := a.pool.Exec(ctx, query, doctorID, date, start.Minutes, end.Minutes, appointmentID)
	if err != nil {
		return fmt.Errorf("book slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrSlotUnavailable
	}

	return nil
}

func (a *SlotStoreAdapter) ReleaseAppointment(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error {
	query := `
		UPDATE slots
		SET status = 'available', reason = NULL, appointment_id = NULL
		WHERE doctor_id = $1 AND appointment_id = $2
	`

	result, err := a.pool.Exec(ctx, query, doctorID, appointmentID)
	if err != nil {
		return fmt.Errorf("release appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s not found", appointmentID)
	}

	return nil
}

func (a *SlotStoreAdapter) GetDefaultTemplate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*domain.AvailabilityTemplate, error) {
	query := `
		SELECT id, doctor_id, name, working_days, start_minute, end_minute,
		       slot_duration, buffer_minutes, breaks, valid_from, valid_to, is_default
		FROM availability_templates
		WHERE doctor_id = $1
		  AND is_default
		  AND (valid_from IS NULL OR valid_from <= $2)
		  AND (valid_to IS NULL OR valid_to >= $2)
		LIMIT 1
	`

	var template domain.AvailabilityTemplate
	var workingDays []int32
	var startMinute, endMinute int
	var breaksJSON []byte
	var validFrom, validTo *time.Time

	err := a.pool.QueryRow(ctx, query, doctorID, date).Scan(
		&template.ID,
		&template.DoctorID,
		&template.Name,
		&workingDays,
		&startMinute,
		&endMinute,
		&template.SlotDuration,
		&template.BufferMinutes,
		&breaksJSON,
		&validFrom,
		&validTo,
		&template.IsDefault,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default template: %w", err)
	}

	template.StartTime = json_types.NewTime(startMinute)
	template.EndTime = json_types.NewTime(endMinute)

	template.WorkingDays = make([]time.Weekday, 0, len(workingDays))
	for _, day := range workingDays {
		template.WorkingDays = append(template.WorkingDays, time.Weekday(day))
	}

	template.Breaks = make([]domain.BreakPeriod, 0)
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &template.Breaks); err != nil {
			return nil, fmt.Errorf("decode template breaks: %w", err)
		}
	}

	if validFrom != nil {
		template.ValidFrom = json_types.DateOrEmpty{Date: *validFrom}
	}
	if validTo != nil {
		template.ValidTo = json_types.DateOrEmpty{Date: *validTo}
	}

	return &template, nil
}
