package domain

// Service represents a shop service with a fixed duration
type Service struct {
	ID              int64
	ShopID          int64
	Name            string
	DurationMinutes int
	Active          bool
}
