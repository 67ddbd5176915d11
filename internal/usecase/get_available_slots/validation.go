package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationMinutes int) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 0 || *req.DurationMinutes > maxDurationMinutes {
			return fmt.Errorf("%w: duration must be between 0 and %d minutes", ErrInvalidInput, maxDurationMinutes)
		}
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceIDs must be positive", ErrInvalidInput)
		}
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

// uniqueIDs убирает повторы, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
