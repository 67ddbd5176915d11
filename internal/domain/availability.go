package domain

import (
	"time"

	"github.com/m04kA/salon-booking-service/pkg/types"
)

// EffectiveSchedule is the resolved working day of one staff member on one date
type EffectiveSchedule struct {
	StaffID            int64
	Date               time.Time
	WorkStart          types.TimeString
	WorkEnd            types.TimeString
	LunchStart         *types.TimeString
	LunchEnd           *types.TimeString
	GranularityMinutes int
	Location           *time.Location
}

// HasLunch reports whether both lunch bounds are set
func (s *EffectiveSchedule) HasLunch() bool {
	return s.LunchStart != nil && s.LunchEnd != nil
}

// BookableWindow is a half-open [Start, End) stretch of the working day
type BookableWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether [from, to) fits inside the window
func (w BookableWindow) Contains(from, to time.Time) bool {
	return !from.Before(w.Start) && !to.After(w.End)
}

// Empty reports whether the window has no room at all
func (w BookableWindow) Empty() bool {
	return !w.End.After(w.Start)
}
