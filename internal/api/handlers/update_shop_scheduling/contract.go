package update_shop_scheduling

import (
	"context"

	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateShopSettings(ctx context.Context, userID, shopID int64, req *models.ShopSettingsRequest) (*models.ShopSettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
