package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking-service/internal/availability"
	"github.com/m04kA/salon-booking-service/internal/domain"
)

// ScheduleRepository источник снимков расписания мастера
type ScheduleRepository interface {
	GetSnapshot(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleSnapshot, error)
}

// CatalogRepository интерфейс репозитория услуг
type CatalogRepository interface {
	GetStaffServices(ctx context.Context, staffID int64, serviceIDs []int64) ([]domain.Service, error)
}

// AvailabilityEngine движок расчета доступных слотов
// Now отдает часы движка, по ним же проверяется дата запроса
type AvailabilityEngine interface {
	Now() time.Time
	ComputeAvailableSlots(ctx context.Context, snapshot *domain.ScheduleSnapshot, date time.Time, requestedDurationMinutes int) (*availability.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
