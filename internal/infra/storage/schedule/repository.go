package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/dbmetrics"
	"github.com/m04kA/salon-booking-service/pkg/psqlbuilder"
)

var weeklyColumns = []string{
	"id",
	"staff_id",
	"weekday",
	"active",
	"work_start",
	"work_end",
	"lunch_start",
	"lunch_end",
	"granularity_minutes",
}

var exceptionColumns = []string{
	"id",
	"staff_id",
	"exception_date",
	"day_off",
	"work_start",
	"work_end",
	"lunch_start",
	"lunch_end",
	"granularity_minutes",
	"reason",
}

// Repository репозиторий расписаний мастеров и настроек салонов
type Repository struct {
	db       DBExecutor
	defaults domain.ShopSchedulingDefaults
}

// NewRepository создает новый экземпляр репозитория расписаний
// defaults используются для салонов без сохраненных настроек
func NewRepository(db DBExecutor, defaults domain.ShopSchedulingDefaults) *Repository {
	return &Repository{db: db, defaults: defaults}
}

// GetSnapshot собирает всё, что нужно для расчета расписания мастера на дату:
// мастера, недельное расписание, исключение на дату и настройки салона
func (r *Repository) GetSnapshot(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleSnapshot, error) {
	staff, err := r.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	weekly, err := r.GetWeeklyEntries(ctx, staffID)
	if err != nil {
		return nil, err
	}

	day := domain.DateOnly(date)
	exceptions, err := r.GetDateExceptions(ctx, staffID, day, day)
	if err != nil {
		return nil, err
	}

	shop, err := r.GetShopSettings(ctx, staff.ShopID)
	if errors.Is(err, ErrShopSettingsNotFound) {
		shop = r.DefaultShopSettings(staff.ShopID)
	} else if err != nil {
		return nil, err
	}

	return &domain.ScheduleSnapshot{
		Staff:      *staff,
		Weekly:     weekly,
		Exceptions: exceptions,
		Shop:       *shop,
	}, nil
}

// DefaultShopSettings настройки салона по умолчанию
func (r *Repository) DefaultShopSettings(shopID int64) *domain.ShopSchedulingDefaults {
	shop := r.defaults
	shop.ShopID = shopID
	return &shop
}

// GetStaff получает мастера по ID
func (r *Repository) GetStaff(ctx context.Context, staffID int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"active",
		"default_granularity_minutes",
		"allowed_weekdays",
		"created_at",
		"updated_at",
	).
		From("staff_members").
		Where(squirrel.Eq{"id": staffID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %v", ErrBuildQuery, err)
	}

	staff, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %v", ErrScanRow, err)
	}

	return staff, nil
}

// GetWeeklyEntries получает недельное расписание мастера (активные и неактивные дни)
func (r *Repository) GetWeeklyEntries(ctx context.Context, staffID int64) ([]domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From("staff_weekly_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyEntries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.WeeklyScheduleEntry, 0, 7)
	for rows.Next() {
		var e domain.WeeklyScheduleEntry
		if err := rows.Scan(
			&e.ID,
			&e.StaffID,
			&e.Weekday,
			&e.Active,
			&e.WorkStart,
			&e.WorkEnd,
			&e.LunchStart,
			&e.LunchEnd,
			&e.GranularityMinutes,
		); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyEntries - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// GetDateExceptions получает исключения мастера в диапазоне дат [from, to]
func (r *Repository) GetDateExceptions(ctx context.Context, staffID int64, from, to time.Time) ([]domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := dateExceptionsQuery(staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDateExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDateExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]domain.DateException, 0)
	for rows.Next() {
		var e domain.DateException
		if err := rows.Scan(
			&e.ID,
			&e.StaffID,
			&e.Date,
			&e.DayOff,
			&e.WorkStart,
			&e.WorkEnd,
			&e.LunchStart,
			&e.LunchEnd,
			&e.GranularityMinutes,
			&e.Reason,
		); err != nil {
			return nil, fmt.Errorf("%w: GetDateExceptions - scan row: %v", ErrScanRow, err)
		}
		e.Date = domain.DateOnly(e.Date)
		exceptions = append(exceptions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDateExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// GetUpcomingExceptions получает исключения мастера начиная с даты from
func (r *Repository) GetUpcomingExceptions(ctx context.Context, staffID int64, from time.Time) ([]domain.DateException, error) {
	return r.GetDateExceptions(ctx, staffID, from, from.AddDate(1, 0, 0))
}

// GetShopSettings получает настройки расписания салона
func (r *Repository) GetShopSettings(ctx context.Context, shopID int64) (*domain.ShopSchedulingDefaults, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("shop_id", "slot_granularity_minutes", "timezone_name").
		From("shop_scheduling_settings").
		Where(squirrel.Eq{"shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetShopSettings - build select query: %v", ErrBuildQuery, err)
	}

	var shop domain.ShopSchedulingDefaults
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shop.ShopID,
		&shop.GranularityMinutes,
		&shop.TimezoneName,
	)

	if err == sql.ErrNoRows {
		return nil, ErrShopSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetShopSettings - scan settings: %v", ErrScanRow, err)
	}

	return &shop, nil
}

// UpsertWeeklyEntry создает или обновляет запись недельного расписания (уникальна по мастеру и дню недели)
func (r *Repository) UpsertWeeklyEntry(ctx context.Context, entry *domain.WeeklyScheduleEntry) (*domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_weekly_schedules").
		Columns(weeklyColumns[1:]...).
		Values(
			entry.StaffID,
			entry.Weekday,
			entry.Active,
			entry.WorkStart,
			entry.WorkEnd,
			entry.LunchStart,
			entry.LunchEnd,
			entry.GranularityMinutes,
		).
		Suffix(`ON CONFLICT (staff_id, weekday) DO UPDATE SET
			active = EXCLUDED.active,
			work_start = EXCLUDED.work_start,
			work_end = EXCLUDED.work_end,
			lunch_start = EXCLUDED.lunch_start,
			lunch_end = EXCLUDED.lunch_end,
			granularity_minutes = EXCLUDED.granularity_minutes
			RETURNING id`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeeklyEntry - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("%w: UpsertWeeklyEntry - execute upsert: %v", ErrExecQuery, err)
	}

	return entry, nil
}

// UpsertDateException создает или обновляет исключение (уникально по мастеру и дате)
func (r *Repository) UpsertDateException(ctx context.Context, exc *domain.DateException) (*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	exc.Date = domain.DateOnly(exc.Date)

	query, args, err := psqlbuilder.Insert("staff_date_exceptions").
		Columns(exceptionColumns[1:]...).
		Values(
			exc.StaffID,
			exc.Date,
			exc.DayOff,
			exc.WorkStart,
			exc.WorkEnd,
			exc.LunchStart,
			exc.LunchEnd,
			exc.GranularityMinutes,
			exc.Reason,
		).
		Suffix(`ON CONFLICT (staff_id, exception_date) DO UPDATE SET
			day_off = EXCLUDED.day_off,
			work_start = EXCLUDED.work_start,
			work_end = EXCLUDED.work_end,
			lunch_start = EXCLUDED.lunch_start,
			lunch_end = EXCLUDED.lunch_end,
			granularity_minutes = EXCLUDED.granularity_minutes,
			reason = EXCLUDED.reason
			RETURNING id`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDateException - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exc.ID); err != nil {
		return nil, fmt.Errorf("%w: UpsertDateException - execute upsert: %v", ErrExecQuery, err)
	}

	return exc, nil
}

// DeleteDateException удаляет исключение мастера на дату
func (r *Repository) DeleteDateException(ctx context.Context, staffID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_date_exceptions").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"exception_date": domain.DateOnly(date)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteDateException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteDateException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteDateException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// UpdateStaffSettings обновляет дни приема и шаг слотов мастера
func (r *Repository) UpdateStaffSettings(ctx context.Context, staffID int64, allowedWeekdays []domain.Weekday, defaultGranularity *int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := staffSettingsQuery(staffID, allowedWeekdays, defaultGranularity)
	if err != nil {
		return fmt.Errorf("%w: UpdateStaffSettings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStaffSettings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStaffSettings - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

// GetStaffIDsByShop получает ID всех мастеров салона
// Используется для сброса кеша при изменении настроек салона
func (r *Repository) GetStaffIDsByShop(ctx context.Context, shopID int64) ([]int64, error) {
	return r.queryIDs(ctx, "GetStaffIDsByShop", psqlbuilder.Select("id").
		From("staff_members").
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("id ASC"))
}

// GetShopManagerIDs получает ID пользователей, которые управляют салоном
// Список ведется вне сервиса, у салона без записей нет менеджеров
func (r *Repository) GetShopManagerIDs(ctx context.Context, shopID int64) ([]int64, error) {
	return r.queryIDs(ctx, "GetShopManagerIDs", psqlbuilder.Select("user_id").
		From("shop_managers").
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("user_id ASC"))
}

func (r *Repository) queryIDs(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %s - scan id: %v", ErrScanRow, op, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return ids, nil
}

// UpsertShopSettings сохраняет настройки расписания салона
func (r *Repository) UpsertShopSettings(ctx context.Context, settings *domain.ShopSchedulingDefaults) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shop_scheduling_settings").
		Columns("shop_id", "slot_granularity_minutes", "timezone_name").
		Values(settings.ShopID, settings.GranularityMinutes, settings.TimezoneName).
		Suffix(`ON CONFLICT (shop_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			timezone_name = EXCLUDED.timezone_name,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertShopSettings - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertShopSettings - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// dateExceptionsQuery выборка исключений мастера, обе границы включительно
func dateExceptionsQuery(staffID int64, from, to time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select(exceptionColumns...).
		From("staff_date_exceptions").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"exception_date": domain.DateOnly(from)}).
		Where(squirrel.LtOrEq{"exception_date": domain.DateOnly(to)}).
		OrderBy("exception_date ASC").
		ToSql()
}

func staffSettingsQuery(staffID int64, allowedWeekdays []domain.Weekday, defaultGranularity *int) (string, []interface{}, error) {
	return psqlbuilder.Update("staff_members").
		Set("allowed_weekdays", pq.Array(fromWeekdays(allowedWeekdays))).
		Set("default_granularity_minutes", defaultGranularity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": staffID}).
		ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanStaff allowed_weekdays хранится как SMALLINT[]
func scanStaff(row rowScanner) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	var weekdays []int64

	if err := row.Scan(
		&staff.ID,
		&staff.ShopID,
		&staff.Name,
		&staff.Active,
		&staff.DefaultGranularityMinutes,
		pq.Array(&weekdays),
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}

	staff.AllowedWeekdays = toWeekdays(weekdays)
	return &staff, nil
}

func toWeekdays(values []int64) []domain.Weekday {
	if len(values) == 0 {
		return nil
	}
	result := make([]domain.Weekday, 0, len(values))
	for _, v := range values {
		result = append(result, domain.Weekday(v))
	}
	return result
}

func fromWeekdays(weekdays []domain.Weekday) []int64 {
	result := make([]int64, 0, len(weekdays))
	for _, w := range weekdays {
		result = append(result, int64(w))
	}
	return result
}
