package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking-service/internal/availability"
	"github.com/m04kA/salon-booking-service/internal/domain"
	scheduleRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking-service/pkg/logger"
	"github.com/m04kA/salon-booking-service/pkg/metrics"
	"github.com/m04kA/salon-booking-service/pkg/ptr"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// 13.10.2025 - понедельник
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

type fakeScheduleRepo struct {
	snapshot *domain.ScheduleSnapshot
	err      error
}

func (f *fakeScheduleRepo) GetSnapshot(context.Context, int64, time.Time) (*domain.ScheduleSnapshot, error) {
	return f.snapshot, f.err
}

type fakeCatalog struct {
	services []domain.Service
	err      error
}

func (f *fakeCatalog) GetStaffServices(_ context.Context, _ int64, ids []int64) ([]domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]domain.Service, 0)
	for _, s := range f.services {
		for _, id := range ids {
			if s.ID == id {
				result = append(result, s)
			}
		}
	}
	return result, nil
}

type fakeLoader struct {
	bookings []*domain.Booking
}

func (f *fakeLoader) GetStaffBookingsForDate(context.Context, int64, time.Time) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func snapshot() *domain.ScheduleSnapshot {
	return &domain.ScheduleSnapshot{
		Staff: domain.StaffMember{ID: 7, ShopID: 1, Active: true},
		Weekly: []domain.WeeklyScheduleEntry{{
			StaffID:            7,
			Weekday:            domain.Monday,
			Active:             true,
			WorkStart:          "09:00",
			WorkEnd:            "12:00",
			GranularityMinutes: ptr.Ptr(30),
		}},
		Shop: domain.ShopSchedulingDefaults{ShopID: 1, GranularityMinutes: 15, TimezoneName: "America/Fortaleza"},
	}
}

func newUseCase(repo *fakeScheduleRepo, catalog *fakeCatalog, bookings []*domain.Booking, now time.Time) *UseCase {
	engine := availability.NewEngine(&fakeLoader{bookings: bookings}, fixedTime{now: now})
	return NewUseCase(repo, catalog, engine, 720, metrics.NewWithRegistry("test", prometheus.NewRegistry()), logger.NewNop())
}

var earlier = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func times(t *testing.T, slots []time.Time) []string {
	t.Helper()
	loc, err := time.LoadLocation("America/Fortaleza")
	require.NoError(t, err)
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.In(loc).Format(domain.TimeFormat)
	}
	return out
}

func TestExecute_DurationFromServices(t *testing.T) {
	catalog := &fakeCatalog{services: []domain.Service{
		{ID: 1, Name: "Corte", DurationMinutes: 45},
		{ID: 2, Name: "Barba", DurationMinutes: 15},
	}}
	existing := []*domain.Booking{{
		StaffID:   7,
		Date:      monday,
		StartTime: types.MustTimeString("10:00"),
		Services:  []domain.BookedService{{ServiceID: 1, DurationMinutes: 30}},
	}}
	uc := newUseCase(&fakeScheduleRepo{snapshot: snapshot()}, catalog, existing, earlier)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 7, Date: monday, ServiceIDs: []int64{1, 2, 2}})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 30, resp.GranularityMinutes)
	assert.Equal(t, "America/Fortaleza", resp.Timezone)
	// 09:00 упирается в бронирование 10:00, 10:30 и 11:00 свободны до 12:00
	assert.Equal(t, []string{"09:00", "10:30", "11:00"}, times(t, resp.Slots))
}

func TestExecute_ExplicitDuration(t *testing.T) {
	uc := newUseCase(&fakeScheduleRepo{snapshot: snapshot()}, &fakeCatalog{}, nil, earlier)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 7, Date: monday, DurationMinutes: ptr.Ptr(90)})

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times(t, resp.Slots))
}

func TestExecute_NoSchedule(t *testing.T) {
	uc := newUseCase(&fakeScheduleRepo{snapshot: snapshot()}, &fakeCatalog{}, nil, earlier)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 7, Date: monday.AddDate(0, 0, 1)})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 15, resp.GranularityMinutes)
}

func TestExecute_Errors(t *testing.T) {
	inactive := snapshot()
	inactive.Staff.Active = false

	tests := []struct {
		name    string
		repo    *fakeScheduleRepo
		catalog *fakeCatalog
		req     *Request
		now     time.Time
		want    error
	}{
		{
			name: "invalid staff id",
			repo: &fakeScheduleRepo{snapshot: snapshot()},
			req:  &Request{StaffID: 0, Date: monday},
			want: ErrInvalidInput,
		},
		{
			name: "missing date",
			repo: &fakeScheduleRepo{snapshot: snapshot()},
			req:  &Request{StaffID: 7},
			want: ErrInvalidInput,
		},
		{
			name: "negative duration",
			repo: &fakeScheduleRepo{snapshot: snapshot()},
			req:  &Request{StaffID: 7, Date: monday, DurationMinutes: ptr.Ptr(-5)},
			want: ErrInvalidInput,
		},
		{
			name: "absurd duration",
			repo: &fakeScheduleRepo{snapshot: snapshot()},
			req:  &Request{StaffID: 7, Date: monday, DurationMinutes: ptr.Ptr(10000)},
			want: ErrInvalidInput,
		},
		{
			name: "unknown staff",
			repo: &fakeScheduleRepo{err: scheduleRepo.ErrStaffNotFound},
			req:  &Request{StaffID: 7, Date: monday},
			want: ErrStaffNotFound,
		},
		{
			name: "inactive staff",
			repo: &fakeScheduleRepo{snapshot: inactive},
			req:  &Request{StaffID: 7, Date: monday},
			want: ErrStaffNotFound,
		},
		{
			name:    "service not offered",
			repo:    &fakeScheduleRepo{snapshot: snapshot()},
			catalog: &fakeCatalog{services: []domain.Service{{ID: 1, DurationMinutes: 30}}},
			req:     &Request{StaffID: 7, Date: monday, ServiceIDs: []int64{1, 99}},
			want:    ErrServiceNotOffered,
		},
		{
			name: "past date",
			repo: &fakeScheduleRepo{snapshot: snapshot()},
			req:  &Request{StaffID: 7, Date: monday},
			now:  monday.AddDate(0, 0, 2),
			want: ErrInvalidDate,
		},
		{
			name: "repository failure",
			repo: &fakeScheduleRepo{err: errors.New("connection reset")},
			req:  &Request{StaffID: 7, Date: monday},
			want: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := tt.catalog
			if catalog == nil {
				catalog = &fakeCatalog{}
			}
			now := tt.now
			if now.IsZero() {
				now = earlier
			}

			_, err := newUseCase(tt.repo, catalog, nil, now).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_TodayInShopTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Fortaleza")
	require.NoError(t, err)
	// В салоне 13-е 10:15, слоты до этого времени отбрасываются
	now := time.Date(2025, 10, 13, 10, 15, 0, 0, loc)
	uc := newUseCase(&fakeScheduleRepo{snapshot: snapshot()}, &fakeCatalog{}, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{StaffID: 7, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, times(t, resp.Slots))
}

type countingEngine struct {
	now      time.Time
	nowCalls int
	computed int
}

func (e *countingEngine) Now() time.Time {
	e.nowCalls++
	return e.now
}

func (e *countingEngine) ComputeAvailableSlots(context.Context, *domain.ScheduleSnapshot, time.Time, int) (*availability.Result, error) {
	e.computed++
	return &availability.Result{Slots: []time.Time{}}, nil
}

func TestExecute_DateCheckUsesEngineClock(t *testing.T) {
	engine := &countingEngine{now: monday.AddDate(0, 0, 2)}
	uc := NewUseCase(&fakeScheduleRepo{snapshot: snapshot()}, &fakeCatalog{}, engine, 720, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{StaffID: 7, Date: monday})

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 1, engine.nowCalls)
	assert.Zero(t, engine.computed)
}

func TestExecute_ShopMidnightWithOneClock(t *testing.T) {
	loc, err := time.LoadLocation("America/Fortaleza")
	require.NoError(t, err)

	// В UTC уже 14-е, в салоне еще 13-е 21:00: дата не в прошлом, но все слоты уже прошли
	late := time.Date(2025, 10, 13, 21, 0, 0, 0, loc)
	resp, err := newUseCase(&fakeScheduleRepo{snapshot: snapshot()}, &fakeCatalog{}, nil, late).
		Execute(context.Background(), &Request{StaffID: 7, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	// Через три часа в салоне наступает 14-е, и 13-е отклоняется как прошедшая дата
	_, err = newUseCase(&fakeScheduleRepo{snapshot: snapshot()}, &fakeCatalog{}, nil, late.Add(3*time.Hour)).
		Execute(context.Background(), &Request{StaffID: 7, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
