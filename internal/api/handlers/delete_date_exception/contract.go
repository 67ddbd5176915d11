package delete_date_exception

import (
	"context"
	"time"
)

type ScheduleService interface {
	DeleteDateException(ctx context.Context, userID, staffID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
