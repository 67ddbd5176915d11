package update_shop_scheduling

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/service/schedule"
	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

const (
	msgInvalidShopID      = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректный шаг слотов или часовой пояс"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "менять настройки салона может только менеджер"
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

// Handle PUT /api/v1/shops/{shopId}/scheduling
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/scheduling - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req models.ShopSettingsRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id}/scheduling - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /shops/{id}/scheduling - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.UpdateShopSettings(r.Context(), userID, shopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /shops/{id}/scheduling - Invalid data: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /shops/{id}/scheduling - Access denied: shop_id=%d, user_id=%d", shopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /shops/{id}/scheduling - Failed to update: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id}/scheduling - Updated: shop_id=%d, granularity=%d, timezone=%s",
		shopID, result.GranularityMinutes, result.Timezone)
	handlers.RespondJSON(w, http.StatusOK, result)
}
