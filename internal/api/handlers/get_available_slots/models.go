package get_available_slots

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/domain"
	getAvailableSlots "github.com/m04kA/salon-booking-service/internal/usecase/get_available_slots"
	"github.com/m04kA/salon-booking-service/pkg/ptr"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date               string          `json:"date"`
	StaffID            int64           `json:"staffId"`
	Timezone           string          `json:"timezone"`
	DurationMinutes    int             `json:"durationMinutes"`
	GranularityMinutes int             `json:"granularityMinutes"`
	Slots              []AvailableSlot `json:"slots"`
}

// AvailableSlot свободное время начала
type AvailableSlot struct {
	Time     string `json:"time"`     // "09:30" по часовому поясу салона
	StartsAt string `json:"startsAt"` // RFC3339 со смещением салона
}

// ToUseCaseRequest создает запрос use case из query параметров
// date обязателен, duration и serviceIds нет
func ToUseCaseRequest(staffID int64, query url.Values) (*getAvailableSlots.Request, error) {
	dateStr := query.Get("date")
	if dateStr == "" {
		return nil, errors.New("date is required")
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	req := &getAvailableSlots.Request{
		StaffID: staffID,
		Date:    date,
	}

	if raw := query.Get("duration"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		req.DurationMinutes = ptr.Ptr(duration)
	}

	if raw := query.Get("serviceIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := handlers.ParsePositiveInt64(part)
			if err != nil {
				return nil, fmt.Errorf("invalid service id %q: %w", part, err)
			}
			req.ServiceIDs = append(req.ServiceIDs, id)
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:     slot.Format("15:04"),
			StartsAt: slot.Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:               resp.Date.Format(domain.DateFormat),
		StaffID:            resp.StaffID,
		Timezone:           resp.Timezone,
		DurationMinutes:    resp.DurationMinutes,
		GranularityMinutes: resp.GranularityMinutes,
		Slots:              slots,
	}
}
