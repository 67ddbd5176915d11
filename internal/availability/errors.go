package availability

import "errors"

// ErrLoadBookings ошибка загрузки бронирований мастера
var ErrLoadBookings = errors.New("availability: failed to load bookings")
