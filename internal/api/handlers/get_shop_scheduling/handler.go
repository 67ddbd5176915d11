package get_shop_scheduling

import (
	"net/http"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
)

const msgInvalidShopID = "некорректный ID салона"

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

// Handle GET /api/v1/shops/{shopId}/scheduling
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathInt64(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/scheduling - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	result, err := h.service.GetShopSettings(r.Context(), shopID)
	if err != nil {
		h.logger.Error("GET /shops/{id}/scheduling - Failed to get settings: shop_id=%d, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /shops/{id}/scheduling - Settings retrieved: shop_id=%d", shopID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
