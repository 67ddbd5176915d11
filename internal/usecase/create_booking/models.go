package create_booking

import (
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID   int64            // ID клиента (из заголовка X-User-ID)
	StaffID    int64            // ID мастера
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00") по часовому поясу салона
	ServiceIDs []int64          // Выбранные услуги, в порядке оказания
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	ShopID          int64
	StaffID         int64
	ClientID        int64
	Date            time.Time
	StartTime       types.TimeString
	StartsAt        time.Time // Начало в часовом поясе салона
	DurationMinutes int
	Services        []domain.BookedService
	Status          domain.BookingStatus
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
