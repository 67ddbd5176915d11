package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/pkg/types"
)

// WeeklyScheduleEntry is the recurring working pattern of a staff member for one weekday
type WeeklyScheduleEntry struct {
	ID         int64
	StaffID    int64
	Weekday    Weekday
	Active     bool
	WorkStart  types.TimeString
	WorkEnd    types.TimeString
	LunchStart *types.TimeString
	LunchEnd   *types.TimeString

	// GranularityMinutes overrides the staff and shop defaults when set
	GranularityMinutes *int
}

// Validate checks the weekday, the work window and the lunch pair.
// Inactive entries are only checked for the weekday.
func (e *WeeklyScheduleEntry) Validate() error {
	if !e.Weekday.Valid() {
		return ErrInvalidWeekday
	}
	if !e.Active {
		return nil
	}
	if err := validateTimes(&e.WorkStart, &e.WorkEnd, e.LunchStart, e.LunchEnd); err != nil {
		return err
	}
	if !e.WorkStart.IsBefore(e.WorkEnd) {
		return ErrInvalidWorkWindow
	}
	if err := validateLunch(e.WorkStart, e.WorkEnd, e.LunchStart, e.LunchEnd); err != nil {
		return err
	}
	return validateGranularity(e.GranularityMinutes)
}

// HasLunch reports whether both lunch bounds are set
func (e *WeeklyScheduleEntry) HasLunch() bool {
	return e.LunchStart != nil && e.LunchEnd != nil
}

// DateException overrides the weekly schedule of a staff member for one calendar date.
// Unset fields fall back to the weekly entry of that weekday.
type DateException struct {
	ID         int64
	StaffID    int64
	Date       time.Time
	DayOff     bool
	WorkStart  *types.TimeString
	WorkEnd    *types.TimeString
	LunchStart *types.TimeString
	LunchEnd   *types.TimeString

	GranularityMinutes *int
	Reason             *string
}

// Validate checks the ordering constraints for the fields that are set.
// A day off ignores every other field.
func (e *DateException) Validate() error {
	if e.DayOff {
		return nil
	}
	if err := validateTimes(e.WorkStart, e.WorkEnd, e.LunchStart, e.LunchEnd); err != nil {
		return err
	}
	if e.WorkStart != nil && e.WorkEnd != nil {
		if !e.WorkStart.IsBefore(*e.WorkEnd) {
			return ErrInvalidWorkWindow
		}
		if err := validateLunch(*e.WorkStart, *e.WorkEnd, e.LunchStart, e.LunchEnd); err != nil {
			return err
		}
	} else if (e.LunchStart == nil) != (e.LunchEnd == nil) {
		return ErrIncompleteLunch
	}
	return validateGranularity(e.GranularityMinutes)
}

// ShopSchedulingDefaults holds the shop-level fallbacks
type ShopSchedulingDefaults struct {
	ShopID             int64
	GranularityMinutes int
	TimezoneName       string
}

// Location loads the shop timezone, falling back to DefaultTimezone when unset
func (s *ShopSchedulingDefaults) Location() (*time.Location, error) {
	name := s.TimezoneName
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// Validate checks the granularity and the timezone name
func (s *ShopSchedulingDefaults) Validate() error {
	if err := validateGranularity(&s.GranularityMinutes); err != nil {
		return err
	}
	_, err := s.Location()
	return err
}

// ScheduleSnapshot is everything needed to resolve a staff member's schedule
type ScheduleSnapshot struct {
	Staff      StaffMember
	Weekly     []WeeklyScheduleEntry
	Exceptions []DateException
	Shop       ShopSchedulingDefaults
}

// ExceptionFor returns the date exception for the calendar date, if any
func (s *ScheduleSnapshot) ExceptionFor(date time.Time) (*DateException, bool) {
	for i := range s.Exceptions {
		if SameDay(s.Exceptions[i].Date, date) {
			return &s.Exceptions[i], true
		}
	}
	return nil, false
}

// ActiveWeeklyFor returns the active weekly entry for the weekday, if any
func (s *ScheduleSnapshot) ActiveWeeklyFor(w Weekday) (*WeeklyScheduleEntry, bool) {
	for i := range s.Weekly {
		if s.Weekly[i].Weekday == w && s.Weekly[i].Active {
			return &s.Weekly[i], true
		}
	}
	return nil, false
}

func validateTimes(times ...*types.TimeString) error {
	for _, t := range times {
		if t == nil {
			continue
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTime, err)
		}
	}
	return nil
}

func validateLunch(workStart, workEnd types.TimeString, lunchStart, lunchEnd *types.TimeString) error {
	if lunchStart == nil && lunchEnd == nil {
		return nil
	}
	if lunchStart == nil || lunchEnd == nil {
		return ErrIncompleteLunch
	}
	if !workStart.IsBefore(*lunchStart) || !lunchStart.IsBefore(*lunchEnd) || !lunchEnd.IsBefore(workEnd) {
		return ErrInvalidLunchWindow
	}
	return nil
}

func validateGranularity(minutes *int) error {
	if minutes == nil {
		return nil
	}
	if *minutes < MinGranularityMinutes || *minutes > MaxGranularityMinutes {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidGranularity, *minutes, MinGranularityMinutes, MaxGranularityMinutes)
	}
	return nil
}
