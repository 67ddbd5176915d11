package create_booking

import (
	"time"

	"github.com/m04kA/salon-booking-service/internal/api/handlers"
	"github.com/m04kA/salon-booking-service/internal/domain"
	createBooking "github.com/m04kA/salon-booking-service/internal/usecase/create_booking"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StaffID    int64   `json:"staffId"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	ServiceIDs []int64 `json:"serviceIds"`
	Notes      *string `json:"notes,omitempty"`
}

// BookedServiceResponse услуга в составе бронирования
type BookedServiceResponse struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Position        int    `json:"position"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64                   `json:"id"`
	ShopID          int64                   `json:"shopId"`
	StaffID         int64                   `json:"staffId"`
	ClientID        int64                   `json:"clientId"`
	Date            string                  `json:"date"`
	StartTime       string                  `json:"startTime"`
	StartsAt        string                  `json:"startsAt"`
	DurationMinutes int                     `json:"durationMinutes"`
	Services        []BookedServiceResponse `json:"services"`
	Status          string                  `json:"status"`
	Notes           *string                 `json:"notes,omitempty"`
	CreatedAt       string                  `json:"createdAt"`
	UpdatedAt       string                  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:   clientID,
		StaffID:    r.StaffID,
		Date:       date,
		StartTime:  startTime,
		ServiceIDs: r.ServiceIDs,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	services := make([]BookedServiceResponse, len(resp.Services))
	for i, s := range resp.Services {
		services[i] = BookedServiceResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Position:        s.Position,
		}
	}

	return &BookingResponse{
		ID:              resp.ID,
		ShopID:          resp.ShopID,
		StaffID:         resp.StaffID,
		ClientID:        resp.ClientID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		StartsAt:        resp.StartsAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Services:        services,
		Status:          string(resp.Status),
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
