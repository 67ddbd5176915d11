package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/dbmetrics"
	"github.com/m04kA/salon-booking-service/pkg/psqlbuilder"
)

// Repository репозиторий услуг салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetStaffServices получает активные услуги, которые оказывает мастер
// Если serviceIDs не пуст, возвращаются только услуги из этого списка
func (r *Repository) GetStaffServices(ctx context.Context, staffID int64, serviceIDs []int64) ([]domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := staffServicesQuery(staffID, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Name, &s.DurationMinutes, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: GetStaffServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStaffServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

func staffServicesQuery(staffID int64, serviceIDs []int64) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(
		"s.id",
		"s.shop_id",
		"s.name",
		"s.duration_minutes",
		"s.active",
	).
		From("services s").
		Join("staff_services ss ON ss.service_id = s.id").
		Where(squirrel.Eq{"ss.staff_id": staffID}).
		Where(squirrel.Eq{"s.active": true}).
		OrderBy("s.name ASC")

	if len(serviceIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.id": serviceIDs})
	}

	return selectBuilder.ToSql()
}
