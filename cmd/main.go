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

	cancelBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/create_booking"
	createPriceRuleHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/create_price_rule"
	deletePriceRuleHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/delete_price_rule"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_booking"
	getClubBookingsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_club_bookings"
	getPriceHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_price"
	getPriceTimelineHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_price_timeline"
	getUserBookingsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_user_bookings"
	listPriceRulesHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/list_price_rules"
	suggestSlotsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/suggest_slots"
	updateBookingStatusHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_booking_status"
	updatePriceRuleHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_price_rule"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/config"
	"github.com/m04kA/SMC-CourtBookingService/internal/engine"
	rulesCache "github.com/m04kA/SMC-CourtBookingService/internal/infra/cache/rules"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/court"
	holidayRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/holiday"
	priceRuleRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/pricerule"
	clubServiceClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/clubservice"
	trainerServiceClient "github.com/m04kA/SMC-CourtBookingService/internal/integrations/trainerservice"
	bookingsService "github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	priceRulesService "github.com/m04kA/SMC-CourtBookingService/internal/service/pricerules"
	createBookingUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
	getPriceTimelineUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_price_timeline"
	suggestSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/suggest_slots"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/events"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

// Publisher публикация событий с закрытием соединения при остановке
type Publisher interface {
	Publish(ctx context.Context, eventType string, key string, payload interface{}) error
	Close() error
}

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

	log.Info("Starting SMC-CourtBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics безопасен: все методы проверяют nil
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

	// Обёртка над БД нужна всегда: transaction manager кладет транзакцию в контекст
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	courtRepository := courtRepo.NewRepository(wrappedDB)
	holidayRepository := holidayRepo.NewRepository(wrappedDB)
	ruleRepository := priceRuleRepo.NewRepository(wrappedDB)

	// Кэш правил цены (Redis или пустое хранилище)
	var cacheStore rulesCache.Store = rulesCache.NopStore{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш не критичен: при недоступном Redis читаем правила из БД
			log.Warn("Redis is not available at %s, rules will be read from database: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		cacheStore = rulesCache.NewRedisStore(redisClient)
		log.Info("Price rules cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.RulesTTL)
	}
	ruleCache := rulesCache.NewCache(
		ruleRepository,
		cacheStore,
		time.Duration(cfg.Redis.RulesTTL)*time.Second,
		log,
		metricsCollector,
	)

	// Публикация событий (Kafka или заглушка)
	var publisher Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("Kafka publisher enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем интеграционных клиентов
	clubClient := clubServiceClient.NewClient(
		cfg.ClubService.URL,
		time.Duration(cfg.ClubService.Timeout)*time.Second,
		log,
	)
	trainerClient := trainerServiceClient.NewClient(
		cfg.TrainerService.URL,
		time.Duration(cfg.TrainerService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ClubService=%s timeout=%ds, TrainerService=%s timeout=%ds)",
		cfg.ClubService.URL, cfg.ClubService.Timeout, cfg.TrainerService.URL, cfg.TrainerService.Timeout)

	suggester := engine.NewSuggester(engine.SuggesterConfig{
		Limit:       cfg.Booking.SuggestionLimit,
		StepMinutes: cfg.Booking.SuggestionStepMinutes,
		HorizonDays: cfg.Booking.SuggestionHorizonDays,
	})

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		courtRepository,
		clubClient,
		publisher,
		log,
	)
	priceRuleSvc := priceRulesService.NewService(
		ruleRepository,
		ruleCache,
		courtRepository,
		holidayRepository,
		clubClient,
		publisher,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	suggestSlotsUseCase := suggestSlotsUC.NewUseCase(
		courtRepository,
		bookingRepository,
		ruleCache,
		holidayRepository,
		trainerClient,
		suggester,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		courtRepository,
		ruleCache,
		holidayRepository,
		trainerClient,
		suggestSlotsUseCase,
		publisher,
		txMgr,
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		courtRepository,
		ruleCache,
		holidayRepository,
		cfg.Booking.SlotStepMinutes,
		cfg.Booking.AdvanceBookingDays,
		log,
	)

	priceTimelineUseCase := getPriceTimelineUC.NewUseCase(
		courtRepository,
		ruleCache,
		holidayRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	suggestSlots := suggestSlotsHandler.NewHandler(suggestSlotsUseCase, log)
	getPriceTimeline := getPriceTimelineHandler.NewHandler(priceTimelineUseCase, log)
	getPrice := getPriceHandler.NewHandler(priceTimelineUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getClubBookings := getClubBookingsHandler.NewHandler(bookingSvc, log)
	listPriceRules := listPriceRulesHandler.NewHandler(priceRuleSvc, log)
	createPriceRule := createPriceRuleHandler.NewHandler(priceRuleSvc, log)
	updatePriceRule := updatePriceRuleHandler.NewHandler(priceRuleSvc, log)
	deletePriceRule := deletePriceRuleHandler.NewHandler(priceRuleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты корта на дату с ценами
	api.HandleFunc("/courts/{courtId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Альтернативные свободные слоты
	api.HandleFunc("/courts/{courtId}/suggestions", suggestSlots.Handle).Methods(http.MethodGet)

	// Цена бронирования и разбивка окна по ставкам
	api.HandleFunc("/courts/{courtId}/price", getPrice.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/price-timeline", getPriceTimeline.Handle).Methods(http.MethodGet)

	// Правила цены корта
	api.HandleFunc("/courts/{courtId}/price-rules", listPriceRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление клубом (для менеджеров) ---
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clubs/{clubId}/bookings", getClubBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/courts/{courtId}/price-rules", createPriceRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/price-rules/{ruleId}", updatePriceRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/price-rules/{ruleId}", deletePriceRule.Handle).Methods(http.MethodDelete)

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

	// Останавливаем сбор метрик connection pool
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
