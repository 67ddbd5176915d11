package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	StaffID int64     // ID мастера
	Date    time.Time // Дата (используются только год, месяц и день)

	// DurationMinutes явная длительность; если не задана, считается по ServiceIDs
	DurationMinutes *int
	ServiceIDs      []int64
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date               time.Time
	StaffID            int64
	Timezone           string
	DurationMinutes    int         // Запрошенная длительность (0 - одна единица гранулярности)
	GranularityMinutes int         // Шаг слотов на эту дату
	Slots              []time.Time // Время начала слотов в часовом поясе салона
}
