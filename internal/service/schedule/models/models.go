package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// ErrInvalidTime возвращается при некорректном времени в запросе
var ErrInvalidTime = errors.New("invalid time of day")

// Request модели

// WeeklyEntryRequest запрос на сохранение расписания на день недели
type WeeklyEntryRequest struct {
	Active             bool    `json:"active"`
	WorkStart          *string `json:"workStart,omitempty"`  // "09:00"
	WorkEnd            *string `json:"workEnd,omitempty"`    // "18:00"
	LunchStart         *string `json:"lunchStart,omitempty"` // опционально
	LunchEnd           *string `json:"lunchEnd,omitempty"`
	GranularityMinutes *int    `json:"granularityMinutes,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *WeeklyEntryRequest) ToDomain(staffID int64, weekday domain.Weekday) (*domain.WeeklyScheduleEntry, error) {
	workStart, err := parseTime(r.WorkStart)
	if err != nil {
		return nil, err
	}
	workEnd, err := parseTime(r.WorkEnd)
	if err != nil {
		return nil, err
	}
	lunchStart, err := parseTime(r.LunchStart)
	if err != nil {
		return nil, err
	}
	lunchEnd, err := parseTime(r.LunchEnd)
	if err != nil {
		return nil, err
	}

	entry := &domain.WeeklyScheduleEntry{
		StaffID:            staffID,
		Weekday:            weekday,
		Active:             r.Active,
		LunchStart:         lunchStart,
		LunchEnd:           lunchEnd,
		GranularityMinutes: r.GranularityMinutes,
	}
	if workStart != nil {
		entry.WorkStart = *workStart
	}
	if workEnd != nil {
		entry.WorkEnd = *workEnd
	}

	if entry.Active && (workStart == nil || workEnd == nil) {
		return nil, fmt.Errorf("%w: workStart and workEnd are required for an active day", ErrInvalidTime)
	}

	return entry, nil
}

// DateExceptionRequest запрос на сохранение исключения на дату
// Незаданные поля берутся из недельного расписания
type DateExceptionRequest struct {
	DayOff             bool    `json:"dayOff"`
	WorkStart          *string `json:"workStart,omitempty"`
	WorkEnd            *string `json:"workEnd,omitempty"`
	LunchStart         *string `json:"lunchStart,omitempty"`
	LunchEnd           *string `json:"lunchEnd,omitempty"`
	GranularityMinutes *int    `json:"granularityMinutes,omitempty"`
	Reason             *string `json:"reason,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *DateExceptionRequest) ToDomain(staffID int64, date time.Time) (*domain.DateException, error) {
	exc := &domain.DateException{
		StaffID:            staffID,
		Date:               domain.DateOnly(date),
		DayOff:             r.DayOff,
		GranularityMinutes: r.GranularityMinutes,
		Reason:             r.Reason,
	}

	var err error
	if exc.WorkStart, err = parseTime(r.WorkStart); err != nil {
		return nil, err
	}
	if exc.WorkEnd, err = parseTime(r.WorkEnd); err != nil {
		return nil, err
	}
	if exc.LunchStart, err = parseTime(r.LunchStart); err != nil {
		return nil, err
	}
	if exc.LunchEnd, err = parseTime(r.LunchEnd); err != nil {
		return nil, err
	}

	return exc, nil
}

// StaffSettingsRequest запрос на изменение настроек мастера
type StaffSettingsRequest struct {
	AllowedWeekdays           []int `json:"allowedWeekdays"` // 0 - понедельник, пустой список - все дни
	DefaultGranularityMinutes *int  `json:"defaultGranularityMinutes,omitempty"`
}

// ShopSettingsRequest запрос на изменение настроек салона
type ShopSettingsRequest struct {
	GranularityMinutes int    `json:"granularityMinutes"`
	Timezone           string `json:"timezone"` // IANA, например "America/Fortaleza"
}

// Response модели

// WeeklyEntryResponse расписание на день недели
type WeeklyEntryResponse struct {
	ID                 int64   `json:"id"`
	Weekday            int     `json:"weekday"`
	WeekdayName        string  `json:"weekdayName"`
	Active             bool    `json:"active"`
	WorkStart          *string `json:"workStart,omitempty"`
	WorkEnd            *string `json:"workEnd,omitempty"`
	LunchStart         *string `json:"lunchStart,omitempty"`
	LunchEnd           *string `json:"lunchEnd,omitempty"`
	GranularityMinutes *int    `json:"granularityMinutes,omitempty"`
}

// DateExceptionResponse исключение на дату
type DateExceptionResponse struct {
	ID                 int64   `json:"id"`
	Date               string  `json:"date"`
	DayOff             bool    `json:"dayOff"`
	WorkStart          *string `json:"workStart,omitempty"`
	WorkEnd            *string `json:"workEnd,omitempty"`
	LunchStart         *string `json:"lunchStart,omitempty"`
	LunchEnd           *string `json:"lunchEnd,omitempty"`
	GranularityMinutes *int    `json:"granularityMinutes,omitempty"`
	Reason             *string `json:"reason,omitempty"`
}

// StaffScheduleResponse полное расписание мастера
type StaffScheduleResponse struct {
	StaffID                   int64                   `json:"staffId"`
	ShopID                    int64                   `json:"shopId"`
	Name                      string                  `json:"name"`
	Active                    bool                    `json:"active"`
	AllowedWeekdays           []int                   `json:"allowedWeekdays"`
	DefaultGranularityMinutes *int                    `json:"defaultGranularityMinutes,omitempty"`
	Weekly                    []WeeklyEntryResponse   `json:"weekly"`
	Exceptions                []DateExceptionResponse `json:"exceptions"`
}

// ShopSettingsResponse настройки расписания салона
type ShopSettingsResponse struct {
	ShopID             int64  `json:"shopId"`
	GranularityMinutes int    `json:"granularityMinutes"`
	Timezone           string `json:"timezone"`
}

// Методы конвертации

// FromDomainWeeklyEntry конвертирует domain модель в DTO
func FromDomainWeeklyEntry(e *domain.WeeklyScheduleEntry) WeeklyEntryResponse {
	resp := WeeklyEntryResponse{
		ID:                 e.ID,
		Weekday:            int(e.Weekday),
		WeekdayName:        e.Weekday.String(),
		Active:             e.Active,
		LunchStart:         formatTime(e.LunchStart),
		LunchEnd:           formatTime(e.LunchEnd),
		GranularityMinutes: e.GranularityMinutes,
	}
	if !e.WorkStart.IsZero() {
		resp.WorkStart = formatTime(&e.WorkStart)
	}
	if !e.WorkEnd.IsZero() {
		resp.WorkEnd = formatTime(&e.WorkEnd)
	}
	return resp
}

// FromDomainDateException конвертирует domain модель в DTO
func FromDomainDateException(e *domain.DateException) DateExceptionResponse {
	return DateExceptionResponse{
		ID:                 e.ID,
		Date:               e.Date.Format(domain.DateFormat),
		DayOff:             e.DayOff,
		WorkStart:          formatTime(e.WorkStart),
		WorkEnd:            formatTime(e.WorkEnd),
		LunchStart:         formatTime(e.LunchStart),
		LunchEnd:           formatTime(e.LunchEnd),
		GranularityMinutes: e.GranularityMinutes,
		Reason:             e.Reason,
	}
}

// FromDomainSchedule собирает расписание мастера
func FromDomainSchedule(
	staff *domain.StaffMember,
	weekly []domain.WeeklyScheduleEntry,
	exceptions []domain.DateException,
) *StaffScheduleResponse {
	resp := &StaffScheduleResponse{
		StaffID:                   staff.ID,
		ShopID:                    staff.ShopID,
		Name:                      staff.Name,
		Active:                    staff.Active,
		AllowedWeekdays:           make([]int, 0, len(staff.AllowedWeekdays)),
		DefaultGranularityMinutes: staff.DefaultGranularityMinutes,
		Weekly:                    make([]WeeklyEntryResponse, 0, len(weekly)),
		Exceptions:                make([]DateExceptionResponse, 0, len(exceptions)),
	}

	for _, w := range staff.AllowedWeekdays {
		resp.AllowedWeekdays = append(resp.AllowedWeekdays, int(w))
	}
	for i := range weekly {
		resp.Weekly = append(resp.Weekly, FromDomainWeeklyEntry(&weekly[i]))
	}
	for i := range exceptions {
		resp.Exceptions = append(resp.Exceptions, FromDomainDateException(&exceptions[i]))
	}

	return resp
}

// FromDomainShopSettings конвертирует domain модель в DTO
func FromDomainShopSettings(s *domain.ShopSchedulingDefaults) *ShopSettingsResponse {
	return &ShopSettingsResponse{
		ShopID:             s.ShopID,
		GranularityMinutes: s.GranularityMinutes,
		Timezone:           s.TimezoneName,
	}
}

func parseTime(s *string) (*types.TimeString, error) {
	if s == nil {
		return nil, nil
	}
	t, err := types.NewTimeStringFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return &t, nil
}

func formatTime(t *types.TimeString) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.String()
	return &s
}
