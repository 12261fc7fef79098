package schedule_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-slots-engine/internal/config"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(event string, fields out.LogFields)      {}
func (nopLogger) Info(event string, fields out.LogFields)       {}
func (nopLogger) Warn(event string, fields out.LogFields)       {}
func (nopLogger) Error(event string, fields out.LogFields)      {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

type fakeStore struct {
	schedule *domain.DoctorSchedule
	template *domain.AvailabilityTemplate
	slots    []domain.Slot

	bookErr     error
	bookedCalls int
	savedSlots  []domain.Slot
	updates     []domain.SlotStatusUpdate
	released    []uuid.UUID
}

func (f *fakeStore) GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorSchedule, error) {
	return f.schedule, nil
}

func (f *fakeStore) GetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, error) {
	return f.slots, nil
}

func (f *fakeStore) SaveSlots(ctx context.Context, doctorID uuid.UUID, slots []domain.Slot) error {
	f.savedSlots = append(f.savedSlots, slots...)
	return nil
}

func (f *fakeStore) UpsertSlotStatus(ctx context.Context, doctorID uuid.UUID, update domain.SlotStatusUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeStore) BookSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end json_types.Time, appointmentID uuid.UUID) error {
	f.bookedCalls++
	return f.bookErr
}

func (f *fakeStore) ReleaseAppointment(ctx context.Context, doctorID uuid.UUID, appointmentID uuid.UUID) error {
	f.released = append(f.released, appointmentID)
	return nil
}

func (f *fakeStore) GetDefaultTemplate(ctx context.Context, doctorID uuid.UUID, date time.Time) (*domain.AvailabilityTemplate, error) {
	return f.template, nil
}

func newTestService(store *fakeStore, now time.Time) *ScheduleService {
	cfg := &config.Config{}
	service := NewScheduleService(store, nil, nopLogger{}, cfg)
	service.now = func() time.Time { return now }
	return service
}

func testSchedule(doctorID uuid.UUID) *domain.DoctorSchedule {
	return &domain.DoctorSchedule{
		DoctorID:     doctorID,
		StartTime:    json_types.NewTime(9 * 60),
		EndTime:      json_types.NewTime(12 * 60),
		SlotDuration: 30,
	}
}

func TestGetDaySlots_MergesPersistedStatuses(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	appointmentID := uuid.New()

	store := &fakeStore{
		schedule: testSchedule(doctorID),
		slots: []domain.Slot{
			{
				Date:          json_types.Date{Date: date},
				StartTime:     json_types.NewTime(10 * 60),
				EndTime:       json_types.NewTime(10*60 + 30),
				Status:        domain.SlotStatusBooked,
				AppointmentID: &appointmentID,
			},
		},
	}

	slots, err := newTestService(store, now).GetDaySlots(context.Background(), doctorID, date)

	require.NoError(t, err)
	require.Len(t, slots, 6)

	statuses := make(map[string]domain.SlotStatus)
	for _, slot := range slots {
		statuses[slot.StartTime.String()] = slot.Status
	}
	assert.Equal(t, domain.SlotStatusBooked, statuses["10:00"])
	assert.Equal(t, domain.SlotStatusAvailable, statuses["09:00"])
	assert.Equal(t, domain.SlotStatusAvailable, statuses["11:30"])
}

func TestGetDaySlots_MultiSlotRangeCoversWholeGrid(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	// Блокировка 10:00-11:00 шире одного 30-минутного слота сетки
	store := &fakeStore{
		schedule: testSchedule(doctorID),
		slots: []domain.Slot{
			{
				Date:      json_types.Date{Date: date},
				StartTime: json_types.NewTime(10 * 60),
				EndTime:   json_types.NewTime(11 * 60),
				Status:    domain.SlotStatusBlocked,
			},
		},
	}

	slots, err := newTestService(store, now).GetDaySlots(context.Background(), doctorID, date)

	require.NoError(t, err)
	require.Len(t, slots, 6)

	statuses := make(map[string]domain.SlotStatus)
	for _, slot := range slots {
		statuses[slot.StartTime.String()] = slot.Status
	}
	assert.Equal(t, domain.SlotStatusBlocked, statuses["10:00"])
	assert.Equal(t, domain.SlotStatusBlocked, statuses["10:30"], "tail of the blocked range must stay blocked")
	assert.Equal(t, domain.SlotStatusAvailable, statuses["09:30"])
	assert.Equal(t, domain.SlotStatusAvailable, statuses["11:00"])
}

func TestGetDaySlots_FallsBackToTemplate(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC) // вторник

	template := weekdayTemplate()
	template.DoctorID = doctorID
	store := &fakeStore{template: &template}

	slots, err := newTestService(store, now).GetDaySlots(context.Background(), doctorID, date)

	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestGetDaySlots_NoConfigurationGivesEmptySheet(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	slots, err := newTestService(&fakeStore{}, now).GetDaySlots(context.Background(), doctorID, now)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestBookAppointment_RejectedOnBookedOverlap(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	otherAppointment := uuid.New()

	store := &fakeStore{
		schedule: testSchedule(doctorID),
		slots: []domain.Slot{
			{
				Date:          json_types.Date{Date: date},
				StartTime:     json_types.NewTime(10 * 60),
				EndTime:       json_types.NewTime(10*60 + 30),
				Status:        domain.SlotStatusBooked,
				AppointmentID: &otherAppointment,
			},
		},
	}

	result, err := newTestService(store, now).BookAppointment(
		context.Background(), doctorID, date,
		json_types.NewTime(10*60), json_types.NewTime(10*60+30), uuid.New())

	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	assert.Zero(t, store.bookedCalls, "store must not be touched on conflict")
}

func TestBookAppointment_RejectedOnBlockedRangeTail(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	// Врач заблокировал 10:00-11:00 одним диапазоном, бронь на его хвост
	// 10:30-11:00 обязана отбиться до обращения к хранилищу
	store := &fakeStore{
		schedule: testSchedule(doctorID),
		slots: []domain.Slot{
			{
				Date:      json_types.Date{Date: date},
				StartTime: json_types.NewTime(10 * 60),
				EndTime:   json_types.NewTime(11 * 60),
				Status:    domain.SlotStatusBlocked,
			},
		},
	}

	result, err := newTestService(store, now).BookAppointment(
		context.Background(), doctorID, date,
		json_types.NewTime(10*60+30), json_types.NewTime(11*60), uuid.New())

	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	assert.Zero(t, store.bookedCalls)
}

func TestBookAppointment_LostRaceSurfacesAsConflict(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		schedule: testSchedule(doctorID),
		bookErr:  domain.ErrSlotUnavailable,
	}

	result, err := newTestService(store, now).BookAppointment(
		context.Background(), doctorID, date,
		json_types.NewTime(10*60), json_types.NewTime(10*60+30), uuid.New())

	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	assert.Equal(t, 1, store.bookedCalls)
}

func TestBookAppointment_Success(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{schedule: testSchedule(doctorID)}

	result, err := newTestService(store, now).BookAppointment(
		context.Background(), doctorID, date,
		json_types.NewTime(10*60), json_types.NewTime(10*60+30), uuid.New())

	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	// Пересечение с собственным свободным слотом сетки - только предупреждение
	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, 1, store.bookedCalls)
}

func TestUpdateSlotStatus_ValidationGate(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	service := newTestService(store, now)

	err := service.UpdateSlotStatus(context.Background(), doctorID, domain.SlotStatusUpdate{
		Date:      json_types.Date{Date: now},
		StartTime: json_types.NewTime(10 * 60),
		EndTime:   json_types.NewTime(10*60 + 30),
		Status:    domain.SlotStatusBlocked,
	})

	require.Error(t, err, "blocking without a reason must be rejected")
	assert.Empty(t, store.updates)

	err = service.UpdateSlotStatus(context.Background(), doctorID, domain.SlotStatusUpdate{
		Date:      json_types.Date{Date: now},
		StartTime: json_types.NewTime(10 * 60),
		EndTime:   json_types.NewTime(10*60 + 30),
		Status:    domain.SlotStatusBlocked,
		Reason:    "vacation",
	})

	require.NoError(t, err)
	assert.Len(t, store.updates, 1)
}

func TestApplyTemplate_InvertedRangeRejected(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	template := weekdayTemplate()
	store := &fakeStore{template: &template}

	from := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	slots, result, err := newTestService(store, now).ApplyTemplate(context.Background(), doctorID, from, to)

	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	assert.Nil(t, slots)
	assert.Empty(t, store.savedSlots)
}

func TestApplyTemplate_SavesResolvedSlots(t *testing.T) {
	doctorID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	template := weekdayTemplate()
	store := &fakeStore{template: &template}

	from := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	slots, result, err := newTestService(store, now).ApplyTemplate(context.Background(), doctorID, from, to)

	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	assert.Len(t, slots, 12)
	assert.Len(t, store.savedSlots, 12)
}

func TestCancelAppointment_ReleasesSlot(t *testing.T) {
	doctorID := uuid.New()
	appointmentID := uuid.New()
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	store := &fakeStore{}

	err := newTestService(store, now).CancelAppointment(context.Background(), doctorID, appointmentID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{appointmentID}, store.released)
}
