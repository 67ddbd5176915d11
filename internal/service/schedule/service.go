package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/internal/availability"
	"github.com/m04kA/salon-booking-service/internal/domain"
	scheduleRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking-service/internal/service/schedule/models"
)

// Service сервис для управления расписаниями мастеров и настройками салонов
// Каждая запись сбрасывает закешированные снимки расписания затронутых мастеров
type Service struct {
	repo         ScheduleRepository
	cache        CacheInvalidator
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
// cache может быть nil, если Redis выключен
func NewService(repo ScheduleRepository, cache CacheInvalidator, logger Logger) *Service {
	if cache == nil {
		cache = NopInvalidator{}
	}
	return &Service{
		repo:         repo,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetStaffSchedule получает недельное расписание мастера и предстоящие исключения
// Публичный метод - доступен всем
func (s *Service) GetStaffSchedule(ctx context.Context, staffID int64) (*models.StaffScheduleResponse, error) {
	s.logger.Info("GetStaffSchedule: fetching schedule for staff=%d", staffID)

	staff, err := s.getStaff(ctx, "GetStaffSchedule", staffID)
	if err != nil {
		return nil, err
	}

	weekly, err := s.repo.GetWeeklyEntries(ctx, staffID)
	if err != nil {
		s.logger.Error("GetStaffSchedule: failed to get weekly entries for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - repository error: %v", ErrInternal, err)
	}

	// Исключения начиная с сегодняшнего дня по часовому поясу салона
	shop, err := s.shopSettings(ctx, staff.ShopID)
	if err != nil {
		return nil, err
	}
	today := domain.DateOnly(s.timeProvider.Now().In(availability.ShopLocation(shop)))

	exceptions, err := s.repo.GetUpcomingExceptions(ctx, staffID, today)
	if err != nil {
		s.logger.Error("GetStaffSchedule: failed to get exceptions for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffSchedule: staff=%d has %d weekly entries and %d upcoming exceptions",
		staffID, len(weekly), len(exceptions))
	return models.FromDomainSchedule(staff, weekly, exceptions), nil
}

// UpsertWeeklyEntry сохраняет расписание мастера на день недели
// Доступно только менеджеру салона мастера
func (s *Service) UpsertWeeklyEntry(
	ctx context.Context,
	userID int64,
	staffID int64,
	weekday domain.Weekday,
	req *models.WeeklyEntryRequest,
) (*models.WeeklyEntryResponse, error) {
	s.logger.Info("UpsertWeeklyEntry: user=%d, staff=%d, weekday=%s, active=%t", userID, staffID, weekday, req.Active)

	// 1. Валидация
	if !weekday.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrInvalidWeekday)
	}

	entry, err := req.ToDomain(staffID, weekday)
	if err != nil {
		s.logger.Warn("UpsertWeeklyEntry: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := entry.Validate(); err != nil {
		s.logger.Warn("UpsertWeeklyEntry: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Мастер должен существовать, пользователь - управлять его салоном
	if err := s.checkStaffAccess(ctx, "UpsertWeeklyEntry", staffID, userID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.repo.UpsertWeeklyEntry(ctx, entry)
	if err != nil {
		s.logger.Error("UpsertWeeklyEntry: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: UpsertWeeklyEntry - repository error: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кеш
	s.invalidate(ctx, "UpsertWeeklyEntry", staffID)

	resp := models.FromDomainWeeklyEntry(saved)
	return &resp, nil
}

// UpsertDateException сохраняет исключение из расписания мастера на дату
// Доступно только менеджеру салона мастера
func (s *Service) UpsertDateException(
	ctx context.Context,
	userID int64,
	staffID int64,
	date time.Time,
	req *models.DateExceptionRequest,
) (*models.DateExceptionResponse, error) {
	s.logger.Info("UpsertDateException: user=%d, staff=%d, date=%s, dayOff=%t",
		userID, staffID, date.Format(domain.DateFormat), req.DayOff)

	// 1. Валидация
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	exc, err := req.ToDomain(staffID, date)
	if err != nil {
		s.logger.Warn("UpsertDateException: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := exc.Validate(); err != nil {
		s.logger.Warn("UpsertDateException: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if exc.Reason != nil && len([]rune(*exc.Reason)) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// 2. Мастер должен существовать, пользователь - управлять его салоном
	if err := s.checkStaffAccess(ctx, "UpsertDateException", staffID, userID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.repo.UpsertDateException(ctx, exc)
	if err != nil {
		s.logger.Error("UpsertDateException: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: UpsertDateException - repository error: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кеш
	s.invalidate(ctx, "UpsertDateException", staffID)

	resp := models.FromDomainDateException(saved)
	return &resp, nil
}

// DeleteDateException удаляет исключение, день снова идет по недельному расписанию
func (s *Service) DeleteDateException(ctx context.Context, userID, staffID int64, date time.Time) error {
	s.logger.Info("DeleteDateException: user=%d, staff=%d, date=%s", userID, staffID, date.Format(domain.DateFormat))

	if err := s.checkStaffAccess(ctx, "DeleteDateException", staffID, userID); err != nil {
		return err
	}

	if err := s.repo.DeleteDateException(ctx, staffID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteDateException: no exception for staff=%d on %s", staffID, date.Format(domain.DateFormat))
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteDateException: repository error for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: DeleteDateException - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "DeleteDateException", staffID)
	return nil
}

// UpdateStaffSettings обновляет дни приема и шаг слотов мастера по умолчанию
func (s *Service) UpdateStaffSettings(
	ctx context.Context,
	userID int64,
	staffID int64,
	req *models.StaffSettingsRequest,
) (*models.StaffScheduleResponse, error) {
	s.logger.Info("UpdateStaffSettings: user=%d, staff=%d, weekdays=%v", userID, staffID, req.AllowedWeekdays)

	// 1. Валидация
	weekdays := make([]domain.Weekday, 0, len(req.AllowedWeekdays))
	seen := make(map[domain.Weekday]struct{}, len(req.AllowedWeekdays))
	for _, v := range req.AllowedWeekdays {
		w := domain.Weekday(v)
		if !w.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrInvalidWeekday)
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		weekdays = append(weekdays, w)
	}

	if g := req.DefaultGranularityMinutes; g != nil {
		if *g < domain.MinGranularityMinutes || *g > domain.MaxGranularityMinutes {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrInvalidGranularity)
		}
	}

	// 2. Проверяем права
	if err := s.checkStaffAccess(ctx, "UpdateStaffSettings", staffID, userID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	if err := s.repo.UpdateStaffSettings(ctx, staffID, weekdays, req.DefaultGranularityMinutes); err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("UpdateStaffSettings: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("UpdateStaffSettings: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: UpdateStaffSettings - repository error: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кеш
	s.invalidate(ctx, "UpdateStaffSettings", staffID)

	return s.GetStaffSchedule(ctx, staffID)
}

// GetShopSettings получает настройки расписания салона
// Если салон ничего не сохранял, возвращаются значения по умолчанию
func (s *Service) GetShopSettings(ctx context.Context, shopID int64) (*models.ShopSettingsResponse, error) {
	s.logger.Info("GetShopSettings: fetching settings for shop=%d", shopID)

	shop, err := s.shopSettings(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainShopSettings(shop), nil
}

// UpdateShopSettings сохраняет шаг слотов и часовой пояс салона
// Доступно только менеджеру салона, сбрасывает кеш всех мастеров салона
func (s *Service) UpdateShopSettings(
	ctx context.Context,
	userID int64,
	shopID int64,
	req *models.ShopSettingsRequest,
) (*models.ShopSettingsResponse, error) {
	s.logger.Info("UpdateShopSettings: user=%d, shop=%d, granularity=%d, timezone=%q",
		userID, shopID, req.GranularityMinutes, req.Timezone)

	// 1. Валидация: шаг в допустимых пределах, часовой пояс известен
	settings := &domain.ShopSchedulingDefaults{
		ShopID:             shopID,
		GranularityMinutes: req.GranularityMinutes,
		TimezoneName:       req.Timezone,
	}
	if shopID <= 0 || req.Timezone == "" {
		return nil, fmt.Errorf("%w: shopID and timezone are required", ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		s.logger.Warn("UpdateShopSettings: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права менеджера
	if err := s.checkManagerAccess(ctx, "UpdateShopSettings", shopID, userID); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	if err := s.repo.UpsertShopSettings(ctx, settings); err != nil {
		s.logger.Error("UpdateShopSettings: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: UpdateShopSettings - repository error: %v", ErrInternal, err)
	}

	// 4. Сбрасываем кеш всех мастеров салона
	staffIDs, err := s.repo.GetStaffIDsByShop(ctx, shopID)
	if err != nil {
		s.logger.Warn("UpdateShopSettings: failed to list staff of shop=%d, cache will expire by TTL: %v", shopID, err)
	}
	for _, id := range staffIDs {
		s.invalidate(ctx, "UpdateShopSettings", id)
	}

	s.logger.Info("UpdateShopSettings: shop=%d updated, %d staff caches invalidated", shopID, len(staffIDs))
	return models.FromDomainShopSettings(settings), nil
}

func (s *Service) getStaff(ctx context.Context, op string, staffID int64) (*domain.StaffMember, error) {
	staff, err := s.repo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%d not found", op, staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("%s: failed to get staff id=%d: %v", op, staffID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return staff, nil
}

// checkStaffAccess проверяет, что мастер существует и пользователь управляет его салоном
func (s *Service) checkStaffAccess(ctx context.Context, op string, staffID, userID int64) error {
	staff, err := s.getStaff(ctx, op, staffID)
	if err != nil {
		return err
	}
	return s.checkManagerAccess(ctx, op, staff.ShopID, userID)
}

// checkManagerAccess проверяет, что пользователь является менеджером салона
func (s *Service) checkManagerAccess(ctx context.Context, op string, shopID, userID int64) error {
	managerIDs, err := s.repo.GetShopManagerIDs(ctx, shopID)
	if err != nil {
		s.logger.Error("%s: failed to get managers of shop=%d: %v", op, shopID, err)
		return fmt.Errorf("%w: %s - failed to get shop managers: %v", ErrInternal, op, err)
	}

	for _, managerID := range managerIDs {
		if managerID == userID {
			return nil
		}
	}

	s.logger.Warn("%s: user=%d is not a manager of shop=%d", op, userID, shopID)
	return ErrAccessDenied
}

func (s *Service) shopSettings(ctx context.Context, shopID int64) (*domain.ShopSchedulingDefaults, error) {
	shop, err := s.repo.GetShopSettings(ctx, shopID)
	if errors.Is(err, scheduleRepo.ErrShopSettingsNotFound) {
		return s.repo.DefaultShopSettings(shopID), nil
	}
	if err != nil {
		s.logger.Error("shopSettings: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetShopSettings - repository error: %v", ErrInternal, err)
	}
	return shop, nil
}

// invalidate ошибки кеша не прерывают запись: снимок истечет по TTL
func (s *Service) invalidate(ctx context.Context, op string, staffID int64) {
	if err := s.cache.Invalidate(ctx, staffID); err != nil {
		s.logger.Warn("%s: failed to invalidate schedule cache for staff=%d: %v", op, staffID, err)
	}
}
