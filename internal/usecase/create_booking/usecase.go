package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/salon-booking-service/internal/availability"
	"github.com/m04kA/salon-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking-service/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка доступности и запись идут в одной сериализуемой транзакции,
// бронирования мастера на этот день блокируются до ее окончания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, staff=%d, date=%s, time=%s, services=%v",
		req.ClientID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		result   *domain.Booking
		startsAt = now
	)

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Снимок расписания мастера
		snapshot, err := uc.scheduleRepo.GetSnapshot(txCtx, req.StaffID, req.Date)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
				return ErrStaffNotFound
			}
			uc.logger.Error("CreateBooking: failed to get schedule for staff id=%d: %v", req.StaffID, err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		if !snapshot.Staff.Active {
			uc.logger.Warn("CreateBooking: staff id=%d is inactive", req.StaffID)
			return ErrStaffNotFound
		}

		// 3.2. Дата не должна быть в прошлом по часовому поясу салона
		loc := availability.ShopLocation(&snapshot.Shop)
		if err := validateDate(req.Date, now, loc); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		// 3.3. Услуги, которые оказывает мастер
		offered, err := uc.catalogRepo.GetStaffServices(txCtx, req.StaffID, req.ServiceIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get services for staff id=%d: %v", req.StaffID, err)
			return fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
		}

		services, ok := bookedServices(req.ServiceIDs, offered)
		if !ok {
			uc.logger.Warn("CreateBooking: staff id=%d does not offer all of services %v", req.StaffID, req.ServiceIDs)
			return ErrServiceNotOffered
		}

		booking := &domain.Booking{
			ShopID:    snapshot.Staff.ShopID,
			StaffID:   req.StaffID,
			ClientID:  req.ClientID,
			Date:      domain.DateOnly(req.Date),
			StartTime: req.StartTime,
			Services:  services,
			Notes:     req.Notes,
		}

		// 3.4. Бронирования мастера на этот день с блокировкой (FOR UPDATE)
		existing, err := uc.bookingRepo.GetStaffBookingsForDate(txCtx, req.StaffID, booking.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 3.5. Запрошенное время должно быть среди доступных слотов
		available := availability.Compute(snapshot, booking.Date, booking.TotalDurationMinutes(), existing, now)
		if !available.HasSchedule() {
			uc.logger.Warn("CreateBooking: staff id=%d does not work on %s",
				req.StaffID, booking.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		start, err := req.StartTime.On(booking.Date, available.Schedule.Location)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if !available.Contains(start) {
			uc.logger.Warn("CreateBooking: slot %s on %s is not available for staff id=%d (%d free slots)",
				req.StartTime, booking.Date.Format(domain.DateFormat), req.StaffID, len(available.Slots))
			return ErrSlotNotAvailable
		}

		// 3.6. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotAlreadyBooked) {
				uc.logger.Warn("CreateBooking: slot %s on %s was taken concurrently", req.StartTime,
					booking.Date.Format(domain.DateFormat))
				return ErrSlotNotAvailable
			}
			// Конфликт сериализации отдаем менеджеру транзакций как есть, он повторит транзакцию
			if errors.Is(err, bookingRepo.ErrSerializationFailure) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		startsAt = start
		return nil
	})

	if err != nil {
		if isUseCaseError(err) {
			return nil, err
		}
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: slot %s on %s was taken by a concurrent transaction: %v",
				req.StartTime, req.Date.Format(domain.DateFormat), err)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		ShopID:          result.ShopID,
		StaffID:         result.StaffID,
		ClientID:        result.ClientID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		StartsAt:        startsAt,
		DurationMinutes: result.TotalDurationMinutes(),
		Services:        result.Services,
		Status:          result.Status(),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

func isUseCaseError(err error) bool {
	for _, target := range []error{
		ErrStaffNotFound,
		ErrServiceNotOffered,
		ErrInvalidDate,
		ErrSlotNotAvailable,
		ErrInvalidInput,
		ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
