package availability

import (
	"slices"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// SplitAroundLunch делит рабочий день на окна без обеда.
// При наличии обеих границ обеда возвращает [workStart, lunchStart) и [lunchEnd, workEnd),
// иначе одно окно [workStart, workEnd). Порядок границ не проверяется.
func SplitAroundLunch(workStart, workEnd types.TimeString, lunchStart, lunchEnd *types.TimeString) []TimeRange {
	if lunchStart == nil || lunchEnd == nil {
		return []TimeRange{{Start: workStart, End: workEnd}}
	}
	return []TimeRange{
		{Start: workStart, End: *lunchStart},
		{Start: *lunchEnd, End: workEnd},
	}
}

// Enumerate переносит окна на дату в часовом поясе loc и проходит каждое окно
// с шагом granularityMinutes. Слот выдается, пока slot + шаг <= конец окна.
// Окна с концом не позже начала ничего не дают.
func Enumerate(windows []TimeRange, date time.Time, loc *time.Location, granularityMinutes int) []Candidate {
	if granularityMinutes <= 0 {
		return nil
	}
	step := time.Duration(granularityMinutes) * time.Minute

	candidates := make([]Candidate, 0)
	for _, r := range windows {
		start, err := r.Start.On(date, loc)
		if err != nil {
			continue
		}
		end, err := r.End.On(date, loc)
		if err != nil {
			continue
		}

		window := domain.BookableWindow{Start: start, End: end}
		if window.Empty() {
			continue
		}

		for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
			candidates = append(candidates, Candidate{Slot: cur, Window: window})
		}
	}

	return candidates
}

// FilterConflicts оставляет кандидатов, в которые помещается услуга длительностью
// max(requestedDurationMinutes, granularityMinutes) до конца окна и которые не пересекаются
// ни с одним бронированием этого дня.
//
// Бронирование занимает [start, start + сумма длительностей услуг),
// без услуг - одну единицу гранулярности. Граничащие интервалы пересечением не считаются.
func FilterConflicts(
	candidates []Candidate,
	bookings []*domain.Booking,
	requestedDurationMinutes int,
	granularityMinutes int,
	loc *time.Location,
) []Candidate {
	if loc == nil {
		loc = time.UTC
	}
	effective := max(requestedDurationMinutes, granularityMinutes)
	if effective <= 0 {
		return []Candidate{}
	}
	duration := time.Duration(effective) * time.Minute

	occupied := occupiedIntervals(bookings, granularityMinutes, loc)

	accepted := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		slotEnd := c.Slot.Add(duration)

		// 1. Услуга должна закончиться до обеда или конца рабочего дня
		if slotEnd.After(c.Window.End) {
			continue
		}

		// 2. Не пересекается с существующими бронированиями того же дня
		if overlapsAny(occupied, c.Slot, slotEnd, loc) {
			continue
		}

		accepted = append(accepted, c)
	}

	return accepted
}

// DropPast убирает слоты не позже now, если date - сегодняшний день в часовом поясе loc.
// Для других дат слоты возвращаются без изменений.
func DropPast(slots []time.Time, date time.Time, now time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if !domain.SameDay(date, now.In(loc)) {
		return slots
	}

	result := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.After(now) {
			result = append(result, s)
		}
	}
	return result
}

type interval struct {
	start time.Time
	end   time.Time
}

func occupiedIntervals(bookings []*domain.Booking, granularityMinutes int, loc *time.Location) []interval {
	intervals := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil {
			continue
		}
		start, err := b.StartTime.On(b.Date, loc)
		if err != nil {
			continue
		}
		minutes := b.OccupiedMinutes(granularityMinutes)
		intervals = append(intervals, interval{
			start: start,
			end:   start.Add(time.Duration(minutes) * time.Minute),
		})
	}
	return intervals
}

func overlapsAny(occupied []interval, slotStart, slotEnd time.Time, loc *time.Location) bool {
	for _, o := range occupied {
		// Бронирования другого календарного дня не учитываются
		if !domain.SameDay(o.start.In(loc), slotStart.In(loc)) {
			continue
		}
		if o.start.Before(slotEnd) && o.end.After(slotStart) {
			return true
		}
	}
	return false
}

// ascending сортирует слоты и убирает повторы
func ascending(slots []time.Time) []time.Time {
	slices.SortFunc(slots, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(slots, func(a, b time.Time) bool { return a.Equal(b) })
}
