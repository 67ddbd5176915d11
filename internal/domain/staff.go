package domain

import "time"

// StaffMember represents an individual who renders services in a shop
type StaffMember struct {
	ID     int64
	ShopID int64
	Name   string
	Active bool

	// DefaultGranularityMinutes is used when neither the date exception nor
	// the weekly entry sets a granularity
	DefaultGranularityMinutes *int

	// AllowedWeekdays restricts bookable weekdays; empty means every day
	AllowedWeekdays []Weekday

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorksOn reports whether the staff member accepts bookings on the weekday
func (s *StaffMember) WorksOn(w Weekday) bool {
	if len(s.AllowedWeekdays) == 0 {
		return true
	}
	for _, allowed := range s.AllowedWeekdays {
		if allowed == w {
			return true
		}
	}
	return false
}
