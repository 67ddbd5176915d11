package models

import (
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// BookedServiceResponse услуга в составе бронирования
type BookedServiceResponse struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64                   `json:"id"`
	ShopID          int64                   `json:"shopId"`
	StaffID         int64                   `json:"staffId"`
	ClientID        int64                   `json:"clientId"`
	Date            string                  `json:"date"`      // "2025-10-13"
	StartTime       string                  `json:"startTime"` // "10:00"
	DurationMinutes int                     `json:"durationMinutes"`
	Services        []BookedServiceResponse `json:"services"`
	Status          string                  `json:"status"`
	Notes           *string                 `json:"notes,omitempty"`
	CompletedAt     *string                 `json:"completedAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		ShopID:          b.ShopID,
		StaffID:         b.StaffID,
		ClientID:        b.ClientID,
		Date:            b.Date.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.TotalDurationMinutes(),
		Services:        make([]BookedServiceResponse, len(b.Services)),
		Status:          string(b.Status()),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	for i, s := range b.Services {
		resp.Services[i] = BookedServiceResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
		}
	}

	if b.CompletedAt != nil {
		completed := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
