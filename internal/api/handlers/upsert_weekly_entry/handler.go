package upsert_weekly_entry

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/internal/service/schedule"
	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

const (
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidWeekday     = "некорректный день недели: 0-6 (0 - понедельник) или monday..sunday"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректное расписание"
	msgStaffNotFound      = "мастер не найден"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "менять расписание может только менеджер салона"
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

// Handle PUT /api/v1/staff/{staffId}/schedule/weekly/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	weekday, err := domain.ParseWeekday(mux.Vars(r)["weekday"])
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Invalid weekday: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req models.WeeklyEntryRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.UpsertWeeklyEntry(r.Context(), userID, staffID, weekday, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Invalid data: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, schedule.ErrStaffNotFound):
			h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /staff/{id}/schedule/weekly/{weekday} - Access denied: staff_id=%d, user_id=%d", staffID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /staff/{id}/schedule/weekly/{weekday} - Failed to save: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{id}/schedule/weekly/{weekday} - Saved: staff_id=%d, weekday=%s, active=%t",
		staffID, weekday, result.Active)
	handlers.RespondJSON(w, http.StatusOK, result)
}
