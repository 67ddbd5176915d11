package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/internal/availability"
	"github.com/m04kA/salon-booking-service/internal/domain"
	scheduleRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking-service/pkg/metrics"
)

// UseCase use case для получения доступных слотов мастера на дату
type UseCase struct {
	scheduleRepo       ScheduleRepository
	catalogRepo        CatalogRepository
	engine             AvailabilityEngine
	metrics            *metrics.Metrics
	logger             Logger
	maxDurationMinutes int
}

// NewUseCase создает новый экземпляр use case
// m может быть nil, если метрики выключены
func NewUseCase(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	engine AvailabilityEngine,
	maxDurationMinutes int,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	if maxDurationMinutes <= 0 {
		maxDurationMinutes = domain.MaxServiceDuration
	}
	return &UseCase{
		scheduleRepo:       scheduleRepo,
		catalogRepo:        catalogRepo,
		engine:             engine,
		metrics:            m,
		logger:             logger,
		maxDurationMinutes: maxDurationMinutes,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	started := time.Now()

	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s, services=%v",
		req.StaffID, req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDurationMinutes); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Снимок расписания мастера
	snapshot, err := uc.scheduleRepo.GetSnapshot(ctx, req.StaffID, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.observe("error", 0, started)
		uc.logger.Error("GetAvailableSlots: failed to get schedule for staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if !snapshot.Staff.Active {
		uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffNotFound
	}

	// 3. Длительность: явная, иначе сумма выбранных услуг, иначе одна единица гранулярности
	duration, err := uc.requestedDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Дата не должна быть в прошлом по часовому поясу салона
	loc := availability.ShopLocation(&snapshot.Shop)
	if loc.String() != snapshot.Shop.TimezoneName && snapshot.Shop.TimezoneName != "" {
		uc.logger.Warn("GetAvailableSlots: shop id=%d has invalid timezone %q, using %s",
			snapshot.Shop.ShopID, snapshot.Shop.TimezoneName, loc)
	}

	if err := validateDate(req.Date, uc.engine.Now(), loc); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Расчет слотов
	result, err := uc.engine.ComputeAvailableSlots(ctx, snapshot, req.Date, duration)
	if err != nil {
		uc.observe("error", 0, started)
		uc.logger.Error("GetAvailableSlots: failed to compute slots for staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	response := &Response{
		Date:               domain.DateOnly(req.Date),
		StaffID:            req.StaffID,
		Timezone:           loc.String(),
		DurationMinutes:    duration,
		GranularityMinutes: shopGranularity(&snapshot.Shop),
		Slots:              result.Slots,
	}

	if !result.HasSchedule() {
		uc.observe("no_schedule", 0, started)
		uc.logger.Info("GetAvailableSlots: staff=%d has no schedule on %s",
			req.StaffID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	response.GranularityMinutes = result.Schedule.GranularityMinutes
	uc.observe("ok", len(result.Slots), started)

	uc.logger.Info("GetAvailableSlots: generated %d slots for staff=%d, date=%s, duration=%d",
		len(result.Slots), req.StaffID, req.Date.Format(domain.DateFormat), duration)

	return response, nil
}

// requestedDuration определяет длительность запроса в минутах
func (uc *UseCase) requestedDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	ids := uniqueIDs(req.ServiceIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	services, err := uc.catalogRepo.GetStaffServices(ctx, req.StaffID, ids)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services for staff id=%d: %v", req.StaffID, err)
		return 0, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	if len(services) != len(ids) {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not offer all of services %v", req.StaffID, ids)
		return 0, ErrServiceNotOffered
	}

	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}

	if total > uc.maxDurationMinutes {
		return 0, fmt.Errorf("%w: total duration %d exceeds %d minutes", ErrInvalidInput, total, uc.maxDurationMinutes)
	}

	return total, nil
}

func (uc *UseCase) observe(outcome string, slots int, started time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.AvailabilityQueries.WithLabelValues(outcome).Inc()
	uc.metrics.AvailabilityDuration.Observe(time.Since(started).Seconds())
	if outcome == "ok" {
		uc.metrics.AvailabilitySlots.Observe(float64(slots))
	}
}

func shopGranularity(shop *domain.ShopSchedulingDefaults) int {
	if shop.GranularityMinutes > 0 {
		return shop.GranularityMinutes
	}
	return domain.DefaultGranularityMinutes
}
