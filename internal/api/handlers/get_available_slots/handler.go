package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/domain"
	getAvailableSlots "github.com/m04kA/salon-booking-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidStaffID    = "некорректный ID мастера"
	msgInvalidQuery      = "некорректные параметры запроса: нужен date (YYYY-MM-DD), опционально duration и serviceIds"
	msgInvalidInput      = "некорректные параметры запроса"
	msgInvalidDate       = "дата уже прошла"
	msgStaffNotFound     = "мастер не найден"
	msgServiceNotOffered = "мастер не оказывает одну из выбранных услуг"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/availability
// Query params: date (required, YYYY-MM-DD), duration (minutes), serviceIds (1,2,3)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/availability - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(staffID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /staff/{id}/availability - Invalid query: staff_id=%d, error=%v", staffID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/availability - Invalid input: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /staff/{id}/availability - Date in the past: staff_id=%d", staffID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/availability - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotOffered):
			h.logger.Warn("GET /staff/{id}/availability - Service not offered: staff_id=%d, services=%v",
				staffID, useCaseReq.ServiceIDs)
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		default:
			h.logger.Error("GET /staff/{id}/availability - Failed to get slots: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/availability - Slots retrieved successfully: staff_id=%d, date=%s, slots_count=%d",
		staffID, useCaseReq.Date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
