package main

import (
	"context"
	"database/sql"
	"errors"
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
	"github.com/spf13/cobra"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	chatMessageHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/chat_message"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	createStaffBreakHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_staff_break"
	createStaffLeaveHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_staff_leave"
	deleteStaffBreakHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_staff_break"
	deleteStaffLeaveHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_staff_leave"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_customer_appointments"
	getQualifiedStaffHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_qualified_staff"
	getStaffAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_staff_appointments"
	getStaffScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_staff_schedule"
	healthHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/health"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/session"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
	chatBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/chat_booking"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	getQualifiedStaffUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/tracing"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

func newServeCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, *cfgPath)
		},
	}
}

// redisPinger адаптер redis-клиента для health-check
type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) PingContext(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, cfg *config.Config, cfgPath string) error {
	// Инициализируем логгер
	log, err := logger.NewWithOptions(logger.Options{
		File:       cfg.Logs.File,
		Level:      cfg.Logs.Level,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   cfg.Logs.Compress,
		Stdout:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s (timezone=%s, step=%dm)",
		cfgPath, cfg.Scheduling.Timezone, cfg.Scheduling.SlotStepMinutes)

	// Трейсинг
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Метрики (nil, если выключены: все методы nil-safe)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	rawDB, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer rawDB.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopStats := make(chan struct{})
	defer close(stopStats)
	db := dbmetrics.WrapWithDefault(rawDB, metricsCollector, stopStats)

	// Redis: сессии диалогов и rate limit
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
	}

	// Репозитории
	staffRepository := staffRepo.NewRepository(db)
	scheduleRepository := scheduleRepo.NewRepository(db)
	appointmentRepository := appointmentRepo.NewRepository(db)
	serviceRepository := serviceRepo.NewRepository(db)
	customerRepository := customerRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Движок расписания
	loader := scheduling.NewLoader(staffRepository, scheduleRepository, scheduleRepository, appointmentRepository)
	calculator := scheduling.NewCalculator(loader)
	dispatcher := scheduling.NewDispatcher(staffRepository, loader, log)

	dayStart, dayEnd := cfg.Scheduling.Window()
	window := scheduling.Interval{Start: dayStart, End: dayEnd}
	location := cfg.Scheduling.Location()

	// Уведомления о записи
	notifyTimeout := time.Duration(cfg.Notifications.TimeoutSeconds) * time.Second
	var channels []notification.Channel
	if cfg.Notifications.Kafka.Enabled {
		publisher := notification.NewKafkaPublisher(cfg.Notifications.Kafka.Brokers, cfg.Notifications.Kafka.Topic)
		defer publisher.Close()
		channels = append(channels, publisher)
		log.Info("Kafka notifications enabled (topic=%s)", cfg.Notifications.Kafka.Topic)
	}
	if cfg.Notifications.SMTP.Enabled {
		channels = append(channels, notification.NewEmailSender(notification.EmailConfig{
			Host:     cfg.Notifications.SMTP.Host,
			Port:     cfg.Notifications.SMTP.Port,
			Username: cfg.Notifications.SMTP.Username,
			Password: cfg.Notifications.SMTP.Password,
			From:     cfg.Notifications.SMTP.From,
			UseTLS:   cfg.Notifications.SMTP.UseTLS,
			Timeout:  notifyTimeout,
		}))
		log.Info("Email notifications enabled (host=%s)", cfg.Notifications.SMTP.Host)
	}
	if cfg.Notifications.Webhook.Enabled {
		channels = append(channels, notification.NewWebhookClient(
			cfg.Notifications.Webhook.URL, cfg.Notifications.Webhook.Token, notifyTimeout, log))
		log.Info("Webhook notifications enabled (url=%s)", cfg.Notifications.Webhook.URL)
	}
	var channel notification.Channel
	if len(channels) > 0 {
		channel = notification.NewMulti(metricsCollector, channels...)
	} else {
		log.Warn("No notification channel enabled, booking confirmations are not sent")
	}
	notifier := notification.NewAsync(channel, notifyTimeout, log, metricsCollector)

	// Сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, staffRepository, txMgr, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, staffRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		serviceRepository,
		staffRepository,
		appointmentRepository,
		customerRepository,
		loader,
		dispatcher,
		notifier,
		txMgr,
		metricsCollector,
		log,
		createBookingUC.Config{
			PhoneRegion: cfg.Scheduling.DefaultRegion,
			Timeout:     cfg.Scheduling.BookingTimeout(),
		},
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(calculator, log, getAvailableSlotsUC.Config{
		StepMinutes: cfg.Scheduling.SlotStepMinutes,
		Window:      window,
	})
	getQualifiedStaffUseCase := getQualifiedStaffUC.NewUseCase(serviceRepository, staffRepository, loader, log,
		getQualifiedStaffUC.Config{
			StepMinutes: cfg.Scheduling.SlotStepMinutes,
			Window:      window,
		})

	var sessions chatBookingUC.SessionStore
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, cfg.Chat.KeyPrefix, cfg.Chat.SessionTTL())
		log.Info("Chat sessions stored in Redis (prefix=%s, ttl=%s)", cfg.Chat.KeyPrefix, cfg.Chat.SessionTTL())
	} else {
		sessions = session.NewMemoryStore(cfg.Chat.SessionTTL())
		log.Warn("Redis disabled, chat sessions are kept in memory")
	}
	chatUseCase := chatBookingUC.NewUseCase(
		sessions,
		serviceRepository,
		createBookingUseCase,
		getAvailableSlotsUseCase,
		getQualifiedStaffUseCase,
		log,
		chatBookingUC.Config{
			Location:    location,
			PhoneRegion: cfg.Scheduling.DefaultRegion,
		},
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getQualifiedStaff := getQualifiedStaffHandler.NewHandler(getQualifiedStaffUseCase, location, log)
	chatMessage := chatMessageHandler.NewHandler(chatUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getStaffAppointments := getStaffAppointmentsHandler.NewHandler(appointmentSvc, location, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(scheduleSvc, location, log)
	createStaffBreak := createStaffBreakHandler.NewHandler(scheduleSvc, log)
	deleteStaffBreak := deleteStaffBreakHandler.NewHandler(scheduleSvc, log)
	createStaffLeave := createStaffLeaveHandler.NewHandler(scheduleSvc, location, log)
	deleteStaffLeave := deleteStaffLeaveHandler.NewHandler(scheduleSvc, log)

	healthChecks := map[string]healthHandler.Pinger{"postgres": db}
	if rdb != nil {
		healthChecks["redis"] = redisPinger{rdb: rdb}
	}
	health := healthHandler.NewHandler(healthChecks, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log))

	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Observe(metricsCollector, log))
	if cfg.RateLimit.Enabled && rdb != nil {
		limiter := middleware.NewRateLimiter(
			middleware.NewRedisCounter(rdb),
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			cfg.RateLimit.Prefix,
			cfg.RateLimit.FailOpen,
			log,
		)
		if err := limiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		api.Use(limiter.Middleware())
		log.Info("Rate limit enabled: %d requests per %ds", cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds)
	}

	// --- Доступность ---
	api.HandleFunc("/staff/{staffId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/staff-availability", getQualifiedStaff.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Расписание мастеров (для администраторов салона) ---
	api.HandleFunc("/staff/{staffId}/appointments", getStaffAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/schedule", getStaffSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/breaks", createStaffBreak.Handle).Methods(http.MethodPost)
	api.HandleFunc("/staff/{staffId}/breaks/{breakId}", deleteStaffBreak.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/staff/{staffId}/leaves", createStaffLeave.Handle).Methods(http.MethodPost)
	api.HandleFunc("/staff/{staffId}/leaves/{leaveId}", deleteStaffLeave.Handle).Methods(http.MethodDelete)

	// --- Диалоговая запись ---
	api.HandleFunc("/chat/{conversationId}/messages", chatMessage.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		return err
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	if err := notifier.Wait(shutdownCtx); err != nil {
		log.Warn("Pending notifications not delivered before shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
