package availability

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// BookingLoader загружает бронирования мастера на дату
type BookingLoader interface {
	GetStaffBookingsForDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Booking, error)
}

// Clock источник текущего времени (подменяется в тестах)
type Clock interface {
	Now() time.Time
}

// RealClock системные часы
type RealClock struct{}

// Now возвращает текущее время
func (RealClock) Now() time.Time {
	return time.Now()
}
