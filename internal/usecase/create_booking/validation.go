package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceIDs must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: service %d is selected twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не раньше сегодняшней в часовом поясе салона
func validateDate(date, now time.Time, loc *time.Location) error {
	today := domain.DateOnly(now.In(loc))
	if domain.DateOnly(date).Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	return nil
}

// bookedServices собирает услуги бронирования в порядке запроса
// Возвращает false, если мастер оказывает не все выбранные услуги
func bookedServices(ids []int64, offered []domain.Service) ([]domain.BookedService, bool) {
	byID := make(map[int64]domain.Service, len(offered))
	for _, s := range offered {
		byID[s.ID] = s
	}

	result := make([]domain.BookedService, 0, len(ids))
	for i, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, false
		}
		result = append(result, domain.BookedService{
			ServiceID:       s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Position:        i,
		})
	}
	return result, true
}
