package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// Engine рассчитывает доступные слоты мастера на дату.
// Не хранит состояния и безопасен для конкурентного использования.
type Engine struct {
	bookings BookingLoader
	clock    Clock
}

// NewEngine создает движок доступности
func NewEngine(bookings BookingLoader, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{bookings: bookings, clock: clock}
}

// Now текущее время по часам движка, от него отсчитываются прошедшие слоты
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// ComputeAvailableSlots возвращает доступные времена начала на дату.
// Если мастер в этот день не работает, бронирования не загружаются и результат пуст.
// Длительность <= 0 означает одну единицу гранулярности.
func (e *Engine) ComputeAvailableSlots(
	ctx context.Context,
	snapshot *domain.ScheduleSnapshot,
	date time.Time,
	requestedDurationMinutes int,
) (*Result, error) {
	schedule, ok := Resolve(snapshot, date)
	if !ok {
		return &Result{Slots: []time.Time{}}, nil
	}

	bookings, err := e.bookings.GetStaffBookingsForDate(ctx, snapshot.Staff.ID, domain.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("%w: staff=%d date=%s: %w",
			ErrLoadBookings, snapshot.Staff.ID, date.Format(domain.DateFormat), err)
	}

	return compute(schedule, date, requestedDurationMinutes, bookings, e.clock.Now()), nil
}

// Compute чистый вариант расчёта для вызывающих, у которых бронирования уже загружены
// (например, создание бронирования внутри транзакции)
func Compute(
	snapshot *domain.ScheduleSnapshot,
	date time.Time,
	requestedDurationMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) *Result {
	schedule, ok := Resolve(snapshot, date)
	if !ok {
		return &Result{Slots: []time.Time{}}
	}
	return compute(schedule, date, requestedDurationMinutes, bookings, now)
}

func compute(
	schedule *domain.EffectiveSchedule,
	date time.Time,
	requestedDurationMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) *Result {
	windows := SplitAroundLunch(schedule.WorkStart, schedule.WorkEnd, schedule.LunchStart, schedule.LunchEnd)
	candidates := Enumerate(windows, date, schedule.Location, schedule.GranularityMinutes)
	accepted := FilterConflicts(candidates, bookings, requestedDurationMinutes, schedule.GranularityMinutes, schedule.Location)

	slots := make([]time.Time, len(accepted))
	for i, c := range accepted {
		slots[i] = c.Slot
	}

	return &Result{
		Schedule: schedule,
		Slots:    ascending(DropPast(slots, date, now, schedule.Location)),
	}
}
