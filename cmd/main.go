package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/create_booking"
	deleteDateExceptionHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/delete_date_exception"
	finalizeBookingHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/finalize_booking"
	getAvailableSlotsHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/get_client_bookings"
	getShopSchedulingHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/get_shop_scheduling"
	getStaffBookingsHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/get_staff_bookings"
	getStaffScheduleHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/get_staff_schedule"
	updateShopSchedulingHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/update_shop_scheduling"
	updateStaffSettingsHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/update_staff_settings"
	upsertDateExceptionHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/upsert_date_exception"
	upsertWeeklyEntryHandler "github.com/m04kA/salon-booking-service/internal/api/handlers/upsert_weekly_entry"
	"github.com/m04kA/salon-booking-service/internal/api/middleware"
	"github.com/m04kA/salon-booking-service/internal/availability"
	"github.com/m04kA/salon-booking-service/internal/config"
	"github.com/m04kA/salon-booking-service/internal/domain"
	scheduleCache "github.com/m04kA/salon-booking-service/internal/infra/cache/schedule"
	bookingRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/salon-booking-service/internal/infra/storage/schedule"
	bookingsService "github.com/m04kA/salon-booking-service/internal/service/bookings"
	scheduleService "github.com/m04kA/salon-booking-service/internal/service/schedule"
	createBookingUC "github.com/m04kA/salon-booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/salon-booking-service/internal/usecase/get_available_slots"
	"github.com/m04kA/salon-booking-service/pkg/dbmetrics"
	"github.com/m04kA/salon-booking-service/pkg/logger"
	"github.com/m04kA/salon-booking-service/pkg/metrics"
	"github.com/m04kA/salon-booking-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting salon-booking-service...")

	// Метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	shopDefaults := domain.ShopSchedulingDefaults{
		GranularityMinutes: cfg.Scheduling.DefaultGranularityMinutes,
		TimezoneName:       cfg.Scheduling.DefaultTimezone,
	}
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB, shopDefaults)

	// Кеш снимков расписаний (опционально)
	var (
		snapshotSource getAvailableSlotsUC.ScheduleRepository = scheduleRepository
		invalidator    scheduleService.CacheInvalidator       = scheduleService.NopInvalidator{}
	)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		cache := scheduleCache.NewCache(rdb, scheduleRepository, cfg.Redis.TTL(), metricsCollector, log)
		snapshotSource = cache
		invalidator = cache
		log.Info("Schedule cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	// Сервисы и use cases
	engine := availability.NewEngine(bookingRepository, nil)

	bookingSvc := bookingsService.NewService(bookingRepository, scheduleRepository, txMgr, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, invalidator, log)

	// Бронирование всегда читает расписание из БД внутри транзакции
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		snapshotSource,
		catalogRepository,
		engine,
		cfg.Scheduling.MaxDurationMinutes,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := finalizeBookingHandler.NewCompleteHandler(bookingSvc, log)
	markNoShow := finalizeBookingHandler.NewNoShowHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(scheduleSvc, log)
	upsertWeeklyEntry := upsertWeeklyEntryHandler.NewHandler(scheduleSvc, log)
	upsertDateException := upsertDateExceptionHandler.NewHandler(scheduleSvc, log)
	deleteDateException := deleteDateExceptionHandler.NewHandler(scheduleSvc, log)
	updateStaffSettings := updateStaffSettingsHandler.NewHandler(scheduleSvc, log)
	getShopScheduling := getShopSchedulingHandler.NewHandler(scheduleSvc, log)
	updateShopScheduling := updateShopSchedulingHandler.NewHandler(scheduleSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Failed to create rate limiter: %v", err)
		}
		public.Use(limiter.Middleware)
		log.Info("Rate limit on public routes: %.1f rps, burst %d, trusted proxies %v",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)
	}

	public.HandleFunc("/staff/{staffId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/staff/{staffId}/schedule", getStaffSchedule.Handle).Methods(http.MethodGet)
	public.HandleFunc("/shops/{shopId}/scheduling", getShopScheduling.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/no-show", markNoShow.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/clients/me/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Расписание мастера ---
	protected.HandleFunc("/staff/{staffId}/schedule/weekly/{weekday}", upsertWeeklyEntry.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/staff/{staffId}/schedule/exceptions/{date}", upsertDateException.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/staff/{staffId}/schedule/exceptions/{date}", deleteDateException.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/staff/{staffId}/settings", updateStaffSettings.Handle).Methods(http.MethodPut)

	// --- Настройки салона ---
	protected.HandleFunc("/shops/{shopId}/scheduling", updateShopScheduling.Handle).Methods(http.MethodPut)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
