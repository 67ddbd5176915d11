package availability

import (
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// TimeRange полуинтервал [Start, End) времени дня
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Candidate кандидат на слот вместе с окном, в которое он попал
type Candidate struct {
	Slot   time.Time
	Window domain.BookableWindow
}

// Result результат расчёта доступности
type Result struct {
	// Schedule итоговое расписание дня, nil если мастер в этот день не работает
	Schedule *domain.EffectiveSchedule
	// Slots доступные времена начала, строго по возрастанию
	Slots []time.Time
}

// HasSchedule сообщает, есть ли у мастера рабочий день на дату
func (r *Result) HasSchedule() bool {
	return r.Schedule != nil
}

// Contains сообщает, входит ли время начала в список доступных слотов
func (r *Result) Contains(start time.Time) bool {
	for _, s := range r.Slots {
		if s.Equal(start) {
			return true
		}
	}
	return false
}
