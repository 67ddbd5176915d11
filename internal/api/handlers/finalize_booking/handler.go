package finalize_booking

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/service/bookings"
	"github.com/m04kA/salon-booking-service/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgAlreadyFinalized = "бронирование уже завершено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "завершать бронирования может только менеджер салона"
)

type finalizeFunc func(ctx context.Context, userID, id int64) (*models.BookingResponse, error)

// Handler завершает бронирование: услуга оказана или клиент не пришел
type Handler struct {
	route    string
	finalize finalizeFunc
	logger   Logger
}

// NewCompleteHandler PATCH /api/v1/bookings/{bookingId}/complete
func NewCompleteHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		route:    "PATCH /bookings/{id}/complete",
		finalize: service.Complete,
		logger:   logger,
	}
}

// NewNoShowHandler PATCH /api/v1/bookings/{bookingId}/no-show
func NewNoShowHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		route:    "PATCH /bookings/{id}/no-show",
		finalize: service.MarkNoShow,
		logger:   logger,
	}
}

// Handle проверяет ID бронирования и пользователя и вызывает операцию обработчика
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", h.route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.finalize(r.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", h.route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", h.route, bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrAlreadyFinalized):
			h.logger.Warn("%s - Booking already finalized: booking_id=%d", h.route, bookingID)
			handlers.RespondConflict(w, msgAlreadyFinalized)

		default:
			h.logger.Error("%s - Failed to finalize booking: booking_id=%d, error=%v", h.route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking finalized: booking_id=%d, status=%s, user_id=%d", h.route, bookingID, booking.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
