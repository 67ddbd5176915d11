package availability

import (
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/types"
)

// Resolve сводит исключение на дату, недельное расписание и значения по умолчанию
// в итоговое расписание дня. Второе значение false означает, что мастер в этот день не работает.
//
// Приоритет: исключение на дату -> запись недели -> настройка мастера -> настройка салона.
func Resolve(snapshot *domain.ScheduleSnapshot, date time.Time) (*domain.EffectiveSchedule, bool) {
	weekday := domain.WeekdayOf(date)

	// 1. Мастер принимает только в определенные дни недели
	if !snapshot.Staff.WorksOn(weekday) {
		return nil, false
	}

	// 2. Выходной по исключению
	exc, hasException := snapshot.ExceptionFor(date)
	if hasException && exc.DayOff {
		return nil, false
	}

	// 3. Активная запись недели
	weekly, hasWeekly := snapshot.ActiveWeeklyFor(weekday)

	schedule := &domain.EffectiveSchedule{
		StaffID:  snapshot.Staff.ID,
		Date:     domain.DateOnly(date),
		Location: ShopLocation(&snapshot.Shop),
	}

	var weeklyGranularity *int
	if hasWeekly {
		weeklyGranularity = weekly.GranularityMinutes
	}

	if hasException {
		// 4. Поля исключения перекрывают поля недели по отдельности
		var (
			workStart, workEnd   *types.TimeString
			lunchStart, lunchEnd *types.TimeString
		)
		if hasWeekly {
			workStart, workEnd = presentTime(weekly.WorkStart), presentTime(weekly.WorkEnd)
			lunchStart, lunchEnd = weekly.LunchStart, weekly.LunchEnd
		}

		workStart = firstTime(exc.WorkStart, workStart)
		workEnd = firstTime(exc.WorkEnd, workEnd)
		if workStart == nil || workEnd == nil {
			return nil, false
		}

		schedule.WorkStart = *workStart
		schedule.WorkEnd = *workEnd
		schedule.LunchStart, schedule.LunchEnd = completeLunch(
			firstTime(exc.LunchStart, lunchStart),
			firstTime(exc.LunchEnd, lunchEnd),
		)
		schedule.GranularityMinutes = resolveGranularity(snapshot, exc.GranularityMinutes, weeklyGranularity)

		return schedule, true
	}

	// 5. Без исключения нужна активная запись недели
	if !hasWeekly || weekly.WorkStart.IsZero() || weekly.WorkEnd.IsZero() {
		return nil, false
	}

	schedule.WorkStart = weekly.WorkStart
	schedule.WorkEnd = weekly.WorkEnd
	schedule.LunchStart, schedule.LunchEnd = completeLunch(weekly.LunchStart, weekly.LunchEnd)
	schedule.GranularityMinutes = resolveGranularity(snapshot, nil, weeklyGranularity)

	return schedule, true
}

// resolveGranularity берет первое заданное значение из цепочки
// исключение -> неделя -> мастер, иначе значение салона.
// Неположительный результат заменяется значением салона.
func resolveGranularity(snapshot *domain.ScheduleSnapshot, exception, weekly *int) int {
	shopDefault := snapshot.Shop.GranularityMinutes
	if shopDefault <= 0 {
		shopDefault = domain.DefaultGranularityMinutes
	}

	for _, candidate := range []*int{exception, weekly, snapshot.Staff.DefaultGranularityMinutes} {
		if candidate == nil {
			continue
		}
		if *candidate <= 0 {
			return shopDefault
		}
		return *candidate
	}

	return shopDefault
}

// completeLunch возвращает обед только если заданы обе границы
func completeLunch(start, end *types.TimeString) (*types.TimeString, *types.TimeString) {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil, nil
	}
	return start, end
}

func firstTime(values ...*types.TimeString) *types.TimeString {
	for _, v := range values {
		if v != nil && !v.IsZero() {
			return v
		}
	}
	return nil
}

func presentTime(t types.TimeString) *types.TimeString {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ShopLocation часовой пояс салона; некорректное имя заменяется поясом по умолчанию
func ShopLocation(shop *domain.ShopSchedulingDefaults) *time.Location {
	if loc, err := shop.Location(); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(domain.DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
