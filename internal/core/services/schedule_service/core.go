package schedule_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/config"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
)

type ScheduleService struct {
	store  out.SlotStorePort
	cache  out.CachePort
	logger out.LoggerPort
	cfg    *config.Config

	// "Сейчас" семплируется один раз на входе в операцию и передается вниз,
	// чтобы каждая операция была детерминированной и тестируемой
	now func() time.Time
}

func NewScheduleService(
	store out.SlotStorePort,
	cache out.CachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *ScheduleService {
	return &ScheduleService{
		store:  store,
		cache:  cache,
		logger: logger.WithModule("ScheduleService"),
		cfg:    cfg,
		now: func() time.Time {
			return time.Now().In(config.TimeZone)
		},
	}
}

func (s *ScheduleService) cacheEnabled() bool {
	return s.cache != nil && s.cfg.Cache.Enabled
}

// GetDaySlots возвращает дневную сетку врача: сгенерированные кандидаты,
// слитые с персистентными статусами из хранилища.
func (s *ScheduleService) GetDaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, error) {
	now := s.now()

	if s.cacheEnabled() {
		if slots, exists := s.cache.GetDaySlots(ctx, doctorID, date); exists {
			s.logger.Debug("slots.day_sheet.cache.hit", out.LogFields{
				"doctorId":   doctorID,
				"date":       date.Format("2006-01-02"),
				"slotsCount": len(slots),
			})
			return slots, nil
		}

		s.logger.Debug("slots.day_sheet.cache.miss", out.LogFields{
			"doctorId": doctorID,
			"date":     date.Format("2006-01-02"),
		})
	}

	persisted, err := s.store.GetSlots(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("slots.day_sheet.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("slots.day_sheet.fetch_failed: %w", err)
	}

	candidates, err := s.buildCandidates(ctx, doctorID, date, now)
	if err != nil {
		return nil, err
	}

	slots := mergeWithPersisted(date, candidates, persisted)

	if s.cacheEnabled() {
		s.cache.StoreDaySlots(ctx, doctorID, date, slots)
	}

	return slots, nil
}

// buildCandidates строит сетку кандидатов из прямых настроек врача,
// а при их отсутствии - из активного шаблона доступности.
func (s *ScheduleService) buildCandidates(ctx context.Context, doctorID uuid.UUID, date time.Time, now time.Time) ([]SlotRange, error) {
	schedule, err := s.store.GetDoctorSchedule(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("slots.schedule.fetch_failed: %w", err)
	}

	template, err := s.store.GetDefaultTemplate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("slots.template.fetch_failed: %w", err)
	}

	// Перерывы берем из активного шаблона и для прямых настроек тоже
	var breaks []domain.BreakPeriod
	if template != nil {
		breaks = template.Breaks
	}

	if schedule != nil {
		if err := schedule.Validate(); err != nil {
			return nil, err
		}

		candidates := GenerateForDate(date,
			schedule.StartTime.Minutes, schedule.EndTime.Minutes,
			schedule.SlotDuration, schedule.GracePeriod,
			now, s.cfg.Scheduling.FilterPastDates)

		return ApplyBreaks(candidates, breaks), nil
	}

	if template == nil || !template.HasWorkingDay(date.Weekday()) || !template.AppliesTo(date) {
		return []SlotRange{}, nil
	}

	if err := template.Validate(); err != nil {
		return nil, err
	}

	candidates := GenerateForDateWithStep(date,
		template.StartTime.Minutes, template.EndTime.Minutes,
		template.SlotDuration, EffectiveStep(template.SlotDuration, template.BufferMinutes),
		s.cfg.Scheduling.DefaultGracePeriod,
		now, s.cfg.Scheduling.FilterPastDates)

	return ApplyBreaks(candidates, template.Breaks), nil
}

// mergeWithPersisted сливает кандидатов с персистентными статусами.
// Статус переносится на каждый слот сетки, который пересекает персистентный
// диапазон: блокировка 10:00-11:00 на 30-минутной сетке накрывает оба слота,
// а не только тот, что совпал началом. При пересечении нескольких строк
// побеждает статус с большим приоритетом, брони и блокировки вне сетки
// кандидатов тоже попадают в результат.
func mergeWithPersisted(date time.Time, candidates []SlotRange, persisted []domain.Slot) []domain.Slot {
	merged := make([]domain.Slot, 0, len(candidates))
	covered := make([]bool, len(persisted))

	for _, candidate := range candidates {
		slot := domain.Slot{
			Date:      json_types.Date{Date: date},
			StartTime: json_types.NewTime(candidate.Start),
			EndTime:   json_types.NewTime(candidate.End),
			Status:    domain.SlotStatusAvailable,
		}

		for i, row := range persisted {
			if !RangesOverlap(candidate.Start, candidate.End, row.StartTime.Minutes, row.EndTime.Minutes) {
				continue
			}

			covered[i] = true
			if next := domain.MergeSlotStatus(slot.Status, row.Status); next != slot.Status {
				slot.Status = next
				slot.AppointmentID = row.AppointmentID
			}
		}

		merged = append(merged, slot)
	}

	for i, row := range persisted {
		if covered[i] || row.Status == domain.SlotStatusAvailable {
			continue
		}
		merged = append(merged, row)
	}

	return SlotSlice(merged).quickSort()
}

// CheckSlotConflicts проверяет предложенный интервал против дневной сетки.
// Если перерывы не переданы явно, берутся перерывы активного шаблона.
func (s *ScheduleService) CheckSlotConflicts(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, breaks []domain.BreakPeriod) (*domain.ConflictResult, error) {
	now := s.now()

	existing, err := s.GetDaySlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	if breaks == nil {
		template, err := s.store.GetDefaultTemplate(ctx, doctorID, date)
		if err != nil {
			return nil, fmt.Errorf("slots.template.fetch_failed: %w", err)
		}
		if template != nil {
			breaks = template.Breaks
		}
	}

	return CheckSlotConflicts(start, end, date, existing, breaks, now), nil
}

// BookAppointment - проверка конфликтов и атомарное бронирование.
// Сама запись перепроверяет статус слота условным апдейтом в хранилище,
// поэтому гонка между проверкой и записью не приводит к двойной брони.
func (s *ScheduleService) BookAppointment(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, appointmentID uuid.UUID) (*domain.ConflictResult, error) {
	result, err := s.CheckSlotConflicts(ctx, doctorID, date, start, end, nil)
	if err != nil {
		return nil, err
	}

	if result.HasConflict {
		s.logger.Info("appointment.book.rejected", out.LogFields{
			"doctorId":      doctorID,
			"appointmentId": appointmentID,
			"conflicts":     result.Conflicts,
		})
		return result, nil
	}

	if err := s.store.BookSlot(ctx, doctorID, date, start, end, appointmentID); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			// Проиграли гонку с параллельной бронью
			result.AddConflict(fmt.Sprintf("Slot %s-%s has already been booked", start, end))
			return result, nil
		}

		s.logger.Error("appointment.book.failed", out.LogFields{
			"doctorId":      doctorID,
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("appointment.book.failed: %w", err)
	}

	if s.cacheEnabled() {
		s.cache.InvalidateDay(ctx, doctorID, date)
	}

	s.logger.Info("appointment.book.confirmed", out.LogFields{
		"doctorId":      doctorID,
		"appointmentId": appointmentID,
		"date":          date.Format("2006-01-02"),
		"startTime":     start.String(),
	})

	return result, nil
}

func (s *ScheduleService) CancelAppointment(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error {
	if err := s.store.ReleaseAppointment(ctx, doctorID, appointmentID); err != nil {
		s.logger.Error("appointment.cancel.failed", out.LogFields{
			"doctorId":      doctorID,
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return fmt.Errorf("appointment.cancel.failed: %w", err)
	}

	if s.cacheEnabled() {
		s.cache.InvalidateDoctor(ctx, doctorID)
	}

	s.logger.Info("appointment.cancel.confirmed", out.LogFields{
		"doctorId":      doctorID,
		"appointmentId": appointmentID,
	})

	return nil
}

// UpdateSlotStatus - ручной перевод статуса одного слота.
// Только валидационный шлюз, проверку конфликтов делает поток бронирования.
func (s *ScheduleService) UpdateSlotStatus(ctx context.Context, doctorID uuid.UUID, update domain.SlotStatusUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	if err := s.store.UpsertSlotStatus(ctx, doctorID, update); err != nil {
		s.logger.Error("slots.status.update_failed", out.LogFields{
			"doctorId": doctorID,
			"status":   update.Status,
			"error":    err.Error(),
		})
		return fmt.Errorf("slots.status.update_failed: %w", err)
	}

	if s.cacheEnabled() {
		s.cache.InvalidateDay(ctx, doctorID, update.Date.Date)
	}

	return nil
}

// ApplyTemplate разворачивает активный шаблон врача на диапазон дат
// и сохраняет полученные слоты. Существующие брони не перезаписываются.
func (s *ScheduleService) ApplyTemplate(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]domain.Slot, *domain.ConflictResult, error) {
	now := s.now()

	result := ValidateDateRange(from, to, now)
	if result.HasConflict {
		return nil, result, nil
	}

	template, err := s.store.GetDefaultTemplate(ctx, doctorID, from)
	if err != nil {
		return nil, nil, fmt.Errorf("slots.template.fetch_failed: %w", err)
	}
	if template == nil {
		return nil, nil, fmt.Errorf("doctor %s has no active availability template", doctorID)
	}

	if err := template.Validate(); err != nil {
		return nil, nil, err
	}

	slots := ResolveTemplate(*template, from, to,
		s.cfg.Scheduling.DefaultGracePeriod, now, s.cfg.Scheduling.FilterPastDates)

	if err := s.store.SaveSlots(ctx, doctorID, slots); err != nil {
		s.logger.Error("slots.template.apply_failed", out.LogFields{
			"doctorId":   doctorID,
			"templateId": template.ID,
			"error":      err.Error(),
		})
		return nil, nil, fmt.Errorf("slots.template.apply_failed: %w", err)
	}

	if s.cacheEnabled() {
		s.cache.InvalidateDoctor(ctx, doctorID)
	}

	s.logger.Info("slots.template.applied", out.LogFields{
		"doctorId":   doctorID,
		"templateId": template.ID,
		"from":       from.Format("2006-01-02"),
		"to":         to.Format("2006-01-02"),
		"slotsCount": len(slots),
	})

	return slots, result, nil
}

func (s *ScheduleService) GetTemplatePresets(ctx context.Context) []domain.AvailabilityTemplate {
	return domain.TemplatePresets()
}
