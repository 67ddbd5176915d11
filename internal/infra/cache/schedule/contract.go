package schedule

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// SnapshotSource источник снимков расписания (репозиторий в БД)
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleSnapshot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
