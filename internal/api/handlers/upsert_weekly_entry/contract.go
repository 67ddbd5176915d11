package upsert_weekly_entry

import (
	"context"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	UpsertWeeklyEntry(ctx context.Context, userID, staffID int64, weekday domain.Weekday, req *models.WeeklyEntryRequest) (*models.WeeklyEntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
