package update_staff_settings

import (
	"context"

	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateStaffSettings(ctx context.Context, userID, staffID int64, req *models.StaffSettingsRequest) (*models.StaffScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
