package domain

import "errors"

var (
	// ErrInvalidWeekday weekday is outside 0..6
	ErrInvalidWeekday = errors.New("domain: weekday must be between 0 (Monday) and 6 (Sunday)")

	// ErrInvalidWorkWindow work start is not before work end
	ErrInvalidWorkWindow = errors.New("domain: work start must be before work end")

	// ErrIncompleteLunch only one lunch bound is set
	ErrIncompleteLunch = errors.New("domain: lunch start and lunch end must be set together")

	// ErrInvalidLunchWindow lunch does not lie strictly inside the work window
	ErrInvalidLunchWindow = errors.New("domain: lunch must lie strictly inside the work window")

	// ErrInvalidGranularity granularity outside the allowed bounds
	ErrInvalidGranularity = errors.New("domain: slot granularity out of range")

	// ErrInvalidTimezone unknown IANA timezone name
	ErrInvalidTimezone = errors.New("domain: unknown timezone")

	// ErrInvalidTime malformed time of day
	ErrInvalidTime = errors.New("domain: invalid time of day")
)
