package domain

import (
	"time"

	"github.com/m04kA/salon-booking-service/pkg/types"
)

// BookingStatus is the presentation status derived from the booking flags
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// BookedService is a service attached to a booking.
// Name and duration are copied at booking time so later catalog edits do not
// change the occupied interval of existing bookings.
type BookedService struct {
	ServiceID       int64
	Name            string
	DurationMinutes int
	Position        int
}

// Booking represents an appointment of a client with a staff member
type Booking struct {
	ID        int64
	ShopID    int64
	StaffID   int64
	ClientID  int64
	Date      time.Time
	StartTime types.TimeString
	Services  []BookedService

	Confirmed   bool
	NoShow      bool
	CompletedAt *time.Time
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDurationMinutes returns the sum of the booked services' durations
func (b *Booking) TotalDurationMinutes() int {
	total := 0
	for _, s := range b.Services {
		total += s.DurationMinutes
	}
	return total
}

// OccupiedMinutes returns how long the booking blocks the staff member.
// A booking without services (or with zero total) occupies one granularity unit.
func (b *Booking) OccupiedMinutes(granularityMinutes int) int {
	if total := b.TotalDurationMinutes(); total > 0 {
		return total
	}
	return granularityMinutes
}

// IsFinalized returns true once the booking was completed or marked as no-show
func (b *Booking) IsFinalized() bool {
	return b.CompletedAt != nil
}

// Status derives the presentation status from the flags
func (b *Booking) Status() BookingStatus {
	switch {
	case b.NoShow:
		return StatusNoShow
	case b.CompletedAt != nil:
		return StatusCompleted
	case b.Confirmed:
		return StatusConfirmed
	default:
		return StatusPending
	}
}
