package bookings

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetStaffBookingsForDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64) ([]*domain.Booking, error)
	Finalize(ctx context.Context, id int64, noShow bool, at time.Time) error
}

// ShopRepository мастера и менеджеры салонов, нужны для проверки прав
type ShopRepository interface {
	GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error)
	GetShopManagerIDs(ctx context.Context, shopID int64) ([]int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
