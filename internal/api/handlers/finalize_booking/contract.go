package finalize_booking

import (
	"context"

	"github.com/m04kA/salon-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	Complete(ctx context.Context, userID, id int64) (*models.BookingResponse, error)
	MarkNoShow(ctx context.Context, userID, id int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
