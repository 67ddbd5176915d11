package delete_date_exception

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/internal/service/schedule"
)

const (
	msgInvalidStaffID    = "некорректный ID мастера"
	msgInvalidDate       = "некорректная дата, ожидается YYYY-MM-DD"
	msgExceptionNotFound = "исключение на эту дату не найдено"
	msgStaffNotFound     = "мастер не найден"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "менять расписание может только менеджер салона"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/staff/{staffId}/schedule/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteDateException(r.Context(), userID, staffID, date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Not found: staff_id=%d, date=%s",
				staffID, date.Format(domain.DateFormat))
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /staff/{id}/schedule/exceptions/{date} - Access denied: staff_id=%d, user_id=%d", staffID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /staff/{id}/schedule/exceptions/{date} - Failed to delete: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff/{id}/schedule/exceptions/{date} - Deleted: staff_id=%d, date=%s",
		staffID, date.Format(domain.DateFormat))
	handlers.RespondNoContent(w)
}
