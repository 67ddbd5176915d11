package upsert_date_exception

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	UpsertDateException(ctx context.Context, userID, staffID int64, date time.Time, req *models.DateExceptionRequest) (*models.DateExceptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
