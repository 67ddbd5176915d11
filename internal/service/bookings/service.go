package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking-service/internal/domain"
	bookingRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	shopRepo     ShopRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	shopRepo ShopRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		shopRepo:     shopRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может клиент, который его создал, и менеджер салона
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetStaffBookings получает бронирования мастера на дату, включая завершенные
// Доступно только менеджеру салона мастера
func (s *Service) GetStaffBookings(ctx context.Context, userID, staffID int64, date time.Time) (*models.BookingListResponse, error) {
	if staffID <= 0 || date.IsZero() {
		return nil, fmt.Errorf("%w: staffID and date are required", ErrInvalidInput)
	}

	s.logger.Info("GetStaffBookings: user=%d fetching bookings for staff=%d, date=%s",
		userID, staffID, date.Format(domain.DateFormat))

	staff, err := s.shopRepo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrStaffNotFound) {
			s.logger.Warn("GetStaffBookings: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaffBookings: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - failed to get staff: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, "GetStaffBookings", staff.ShopID, userID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetStaffBookingsForDate(ctx, staffID, domain.DateOnly(date))
	if err != nil {
		s.logger.Error("GetStaffBookings: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffBookings: successfully fetched %d bookings for staff=%d", len(bookings), staffID)
	return models.FromDomainBookingList(bookings), nil
}

// GetClientBookings получает историю бронирований клиента
func (s *Service) GetClientBookings(ctx context.Context, clientID int64) (*models.BookingListResponse, error) {
	if clientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	s.logger.Info("GetClientBookings: fetching bookings for client=%d", clientID)

	bookings, err := s.bookingRepo.GetByClientID(ctx, clientID)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), clientID)
	return models.FromDomainBookingList(bookings), nil
}

// Complete отмечает бронирование как оказанное
// Доступно только менеджеру салона
func (s *Service) Complete(ctx context.Context, userID, id int64) (*models.BookingResponse, error) {
	return s.finalize(ctx, "Complete", userID, id, false)
}

// MarkNoShow отмечает неявку клиента
// Бронирование продолжает занимать время мастера
func (s *Service) MarkNoShow(ctx context.Context, userID, id int64) (*models.BookingResponse, error) {
	return s.finalize(ctx, "MarkNoShow", userID, id, true)
}

func (s *Service) finalize(ctx context.Context, op string, userID, id int64, noShow bool) (*models.BookingResponse, error) {
	s.logger.Info("%s: user=%d finalizing booking id=%d", op, userID, id)

	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой строки
		booking, err := s.getBooking(txCtx, op, id)
		if err != nil {
			return err
		}

		// 2. Завершать бронирования может только менеджер салона
		if err := s.checkManagerAccess(txCtx, op, booking.ShopID, userID); err != nil {
			return err
		}

		// 3. Завершить можно только один раз
		if booking.IsFinalized() {
			s.logger.Warn("%s: booking id=%d is already finalized with status=%s", op, id, booking.Status())
			return ErrAlreadyFinalized
		}

		// 4. Сохраняем
		now := s.timeProvider.Now().UTC()
		if err := s.bookingRepo.Finalize(txCtx, id, noShow, now); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		booking.Confirmed = true
		booking.NoShow = noShow
		booking.CompletedAt = &now
		result = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrAlreadyFinalized) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("%s: transaction failed for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - transaction failed: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: booking id=%d finalized with status=%s", op, id, result.Status())
	return models.FromDomainBooking(result), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkUserAccess клиент видит свое бронирование, менеджер - бронирования своего салона
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.ClientID == userID {
		return nil
	}
	return s.checkManagerAccess(ctx, "GetByID", booking.ShopID, userID)
}

// checkManagerAccess проверяет, что пользователь является менеджером салона
func (s *Service) checkManagerAccess(ctx context.Context, op string, shopID, userID int64) error {
	managerIDs, err := s.shopRepo.GetShopManagerIDs(ctx, shopID)
	if err != nil {
		s.logger.Error("%s: failed to get managers of shop=%d: %v", op, shopID, err)
		return fmt.Errorf("%w: %s - failed to get shop managers: %v", ErrInternal, op, err)
	}

	for _, managerID := range managerIDs {
		if managerID == userID {
			s.logger.Info("%s: user=%d is manager of shop=%d", op, userID, shopID)
			return nil
		}
	}

	s.logger.Warn("%s: user=%d is not a manager of shop=%d", op, userID, shopID)
	return ErrAccessDenied
}
