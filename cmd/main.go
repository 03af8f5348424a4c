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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	finishBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/finish_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getEmployeeBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_employee_bookings"
	getSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_settings"
	rescheduleBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_booking"
	updateSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/ratelimit"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	profileRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/profile"
	calendarSyncClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/calendarsync"
	captchaClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/captcha"
	notifierClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	staffServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
	"github.com/m04kA/SMC-AppointmentService/internal/tokens"
	cancelBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_booking"
	confirmBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// memoryLimiterCleanupInterval период очистки протухших окон in-memory rate limiter
const memoryLimiterCleanupInterval = 5 * time.Minute

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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Локальная таймзона расписаний: фиксированное смещение, без DST
	location := time.FixedZone("booking", cfg.Booking.TimezoneOffsetMinutes*60)

	// Инициализируем rate limiter: Redis для multi-instance, иначе in-memory
	stopCleanupCh := make(chan struct{})
	rateLimitWindow := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute

	var rateLimiter ratelimit.Limiter
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		rateLimiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.CreateLimit, rateLimitWindow)
		log.Info("Rate limiter: redis (addr=%s, limit=%d per %dm)",
			cfg.Redis.Addr, cfg.RateLimit.CreateLimit, cfg.RateLimit.WindowMinutes)
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.CreateLimit, rateLimitWindow)
		go func() {
			ticker := time.NewTicker(memoryLimiterCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					memLimiter.Cleanup()
				case <-stopCleanupCh:
					return
				}
			}
		}()

		rateLimiter = memLimiter
		log.Info("Rate limiter: in-memory (limit=%d per %dm)",
			cfg.RateLimit.CreateLimit, cfg.RateLimit.WindowMinutes)
	}

	// Инициализируем интеграционных клиентов
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	calendarClient := calendarSyncClient.NewClient(
		cfg.CalendarSync.URL,
		time.Duration(cfg.CalendarSync.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	captcha := captchaClient.NewClient(
		cfg.Captcha.VerifyURL,
		cfg.Captcha.Secret,
		cfg.Captcha.Enabled,
		time.Duration(cfg.Captcha.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s, CalendarSync=%s, Notifier=%s, captcha enabled=%v)",
		cfg.StaffService.URL, cfg.CalendarSync.URL, cfg.Notifier.URL, cfg.Captcha.Enabled)

	// Инициализируем репозитории и транзакционный менеджер
	bookingRepository := bookingRepo.NewRepository(db)
	profileRepository := profileRepo.NewRepository(db)
	txManager := txmanager.NewManager(db)

	// Инициализируем сервисы
	tokenAuthority := tokens.NewAuthority()
	profileSvc := profileService.NewService(profileRepository, staffClient, txManager, log)
	bookingSvc := bookingsService.NewService(bookingRepository, &bookingsService.RealTimeProvider{}, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		profileSvc,
		bookingRepository,
		calendarClient,
		location,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		profileSvc,
		tokenAuthority,
		rateLimiter,
		captcha,
		calendarClient,
		notifier,
		location,
		log,
	)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		tokenAuthority,
		notifier,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		tokenAuthority,
		notifier,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		profileSvc,
		tokenAuthority,
		txManager,
		calendarClient,
		notifier,
		location,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, cfg.Booking.PublicBaseURL, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, cfg.Booking.PublicBaseURL, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getEmployeeBookings := getEmployeeBookingsHandler.NewHandler(bookingSvc, log)
	finishBooking := finishBookingHandler.NewHandler(bookingSvc, log)
	getSettings := getSettingsHandler.NewHandler(profileSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(profileSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентские, без аутентификации)
	// ============================================================

	// Доступные слоты сотрудника (по числовому ID или публичному алиасу)
	api.HandleFunc("/staff/{idOrAlias}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Действия клиента по capability-токену из письма
	api.HandleFunc("/bookings/{id}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (требуют X-Employee-ID header от гейтвея)
	// ============================================================

	staff := api.PathPrefix("/staff").Subrouter()
	staff.Use(middleware.EmployeeAuth)

	// --- Бронирования сотрудника ---
	staff.HandleFunc("/bookings", getEmployeeBookings.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/bookings/{id}/complete", finishBooking.HandleComplete).Methods(http.MethodPatch)
	staff.HandleFunc("/bookings/{id}/no-show", finishBooking.HandleNoShow).Methods(http.MethodPatch)
	staff.HandleFunc("/bookings/{id}/cancel", finishBooking.HandleCancel).Methods(http.MethodPost)

	// --- Настройки расписания ---
	staff.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
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
	close(stopCleanupCh)

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
