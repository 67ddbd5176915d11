package domain

// Default scheduling values
const (
	DefaultGranularityMinutes = 15
	DefaultTimezone           = "America/Fortaleza"
)

// Business validation constants
const (
	MinGranularityMinutes = 5
	MaxGranularityMinutes = 480 // 8 hours
	MaxServiceDuration    = 720 // 12 hours
	MaxNotesLength        = 500
	MaxServicesPerBooking = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
