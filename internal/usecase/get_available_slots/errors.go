package get_available_slots

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или не принимает записи
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrServiceNotOffered возвращается, когда мастер не оказывает одну из выбранных услуг
	ErrServiceNotOffered = errors.New("service is not offered by this staff member")

	// ErrInvalidDate возвращается, когда дата уже прошла в часовом поясе салона
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
