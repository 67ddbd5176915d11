package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking-service/pkg/ptr"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

func ts(s string) *types.TimeString {
	t := types.MustTimeString(s)
	return &t
}

func TestWeekdayOf(t *testing.T) {
	// 13.10.2025 - понедельник
	monday := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Saturday, WeekdayOf(monday.AddDate(0, 0, 5)))
	assert.Equal(t, Sunday, WeekdayOf(monday.AddDate(0, 0, 6)))
	assert.Equal(t, "sunday", Sunday.String())
	assert.False(t, Weekday(7).Valid())
}

func TestStaffMember_WorksOn(t *testing.T) {
	all := StaffMember{}
	assert.True(t, all.WorksOn(Sunday))

	weekdays := StaffMember{AllowedWeekdays: []Weekday{Monday, Wednesday}}
	assert.True(t, weekdays.WorksOn(Wednesday))
	assert.False(t, weekdays.WorksOn(Tuesday))
}

func TestWeeklyScheduleEntry_Validate(t *testing.T) {
	tests := []struct {
		name  string
		entry WeeklyScheduleEntry
		want  error
	}{
		{
			name:  "valid with lunch",
			entry: WeeklyScheduleEntry{Weekday: Monday, Active: true, WorkStart: "09:00", WorkEnd: "18:00", LunchStart: ts("12:00"), LunchEnd: ts("13:00")},
		},
		{
			name:  "inactive skips times",
			entry: WeeklyScheduleEntry{Weekday: Sunday},
		},
		{
			name:  "bad weekday",
			entry: WeeklyScheduleEntry{Weekday: 9},
			want:  ErrInvalidWeekday,
		},
		{
			name:  "inverted work window",
			entry: WeeklyScheduleEntry{Weekday: Monday, Active: true, WorkStart: "18:00", WorkEnd: "09:00"},
			want:  ErrInvalidWorkWindow,
		},
		{
			name:  "half lunch",
			entry: WeeklyScheduleEntry{Weekday: Monday, Active: true, WorkStart: "09:00", WorkEnd: "18:00", LunchStart: ts("12:00")},
			want:  ErrIncompleteLunch,
		},
		{
			name:  "lunch touching work start",
			entry: WeeklyScheduleEntry{Weekday: Monday, Active: true, WorkStart: "09:00", WorkEnd: "18:00", LunchStart: ts("09:00"), LunchEnd: ts("10:00")},
			want:  ErrInvalidLunchWindow,
		},
		{
			name:  "granularity too small",
			entry: WeeklyScheduleEntry{Weekday: Monday, Active: true, WorkStart: "09:00", WorkEnd: "18:00", GranularityMinutes: ptr.Ptr(1)},
			want:  ErrInvalidGranularity,
		},
		{
			name:  "malformed time",
			entry: WeeklyScheduleEntry{Weekday: Monday, Active: true, WorkStart: "9:00", WorkEnd: "18:00"},
			want:  ErrInvalidTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDateException_Validate(t *testing.T) {
	tests := []struct {
		name string
		exc  DateException
		want error
	}{
		{
			name: "day off ignores fields",
			exc:  DateException{DayOff: true, WorkStart: ts("18:00"), WorkEnd: ts("09:00")},
		},
		{
			name: "only work end",
			exc:  DateException{WorkEnd: ts("14:00")},
		},
		{
			name: "only lunch pair",
			exc:  DateException{LunchStart: ts("13:00"), LunchEnd: ts("14:00")},
		},
		{
			name: "half lunch without work window",
			exc:  DateException{LunchEnd: ts("14:00")},
			want: ErrIncompleteLunch,
		},
		{
			name: "inverted work window",
			exc:  DateException{WorkStart: ts("14:00"), WorkEnd: ts("10:00")},
			want: ErrInvalidWorkWindow,
		},
		{
			name: "lunch outside work window",
			exc:  DateException{WorkStart: ts("10:00"), WorkEnd: ts("14:00"), LunchStart: ts("15:00"), LunchEnd: ts("16:00")},
			want: ErrInvalidLunchWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exc.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestShopSchedulingDefaults_Location(t *testing.T) {
	shop := ShopSchedulingDefaults{}
	loc, err := shop.Location()
	assert.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())

	shop.TimezoneName = "Nowhere/City"
	_, err = shop.Location()
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	assert.ErrorIs(t, (&ShopSchedulingDefaults{GranularityMinutes: 0, TimezoneName: "UTC"}).Validate(), ErrInvalidGranularity)
	assert.NoError(t, (&ShopSchedulingDefaults{GranularityMinutes: 15, TimezoneName: "UTC"}).Validate())
}

func TestScheduleSnapshot_Lookups(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	snap := ScheduleSnapshot{
		Weekly: []WeeklyScheduleEntry{
			{Weekday: Monday, Active: false},
			{Weekday: Tuesday, Active: true},
		},
		Exceptions: []DateException{{Date: date, DayOff: true}},
	}

	_, ok := snap.ActiveWeeklyFor(Monday)
	assert.False(t, ok)
	entry, ok := snap.ActiveWeeklyFor(Tuesday)
	assert.True(t, ok)
	assert.Equal(t, Tuesday, entry.Weekday)

	exc, ok := snap.ExceptionFor(date.Add(15 * time.Hour))
	assert.True(t, ok)
	assert.True(t, exc.DayOff)
	_, ok = snap.ExceptionFor(date.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{in: "0", want: Monday},
		{in: "6", want: Sunday},
		{in: "wednesday", want: Wednesday},
		{in: "Friday", want: Friday},
		{in: "7", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "funday", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekday)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
