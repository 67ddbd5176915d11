package get_staff_schedule

import (
	"context"

	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetStaffSchedule(ctx context.Context, staffID int64) (*models.StaffScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
