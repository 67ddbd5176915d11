package schedule

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error)
	GetWeeklyEntries(ctx context.Context, staffID int64) ([]domain.WeeklyScheduleEntry, error)
	GetUpcomingExceptions(ctx context.Context, staffID int64, from time.Time) ([]domain.DateException, error)
	UpsertWeeklyEntry(ctx context.Context, entry *domain.WeeklyScheduleEntry) (*domain.WeeklyScheduleEntry, error)
	UpsertDateException(ctx context.Context, exc *domain.DateException) (*domain.DateException, error)
	DeleteDateException(ctx context.Context, staffID int64, date time.Time) error
	UpdateStaffSettings(ctx context.Context, staffID int64, allowedWeekdays []domain.Weekday, defaultGranularity *int) error

	GetShopSettings(ctx context.Context, shopID int64) (*domain.ShopSchedulingDefaults, error)
	DefaultShopSettings(shopID int64) *domain.ShopSchedulingDefaults
	UpsertShopSettings(ctx context.Context, settings *domain.ShopSchedulingDefaults) error
	GetStaffIDsByShop(ctx context.Context, shopID int64) ([]int64, error)
	GetShopManagerIDs(ctx context.Context, shopID int64) ([]int64, error)
}

// CacheInvalidator сбрасывает закешированные снимки расписания мастера
type CacheInvalidator interface {
	Invalidate(ctx context.Context, staffID int64) error
}

// NopInvalidator используется, когда кеш выключен
type NopInvalidator struct{}

// Invalidate ничего не делает
func (NopInvalidator) Invalidate(context.Context, int64) error { return nil }

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
