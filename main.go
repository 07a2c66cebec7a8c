package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"github.com/FacundoLlamas/sme-booking-app-sub002/config"
	"github.com/FacundoLlamas/sme-booking-app-sub002/cron"
	"github.com/FacundoLlamas/sme-booking-app-sub002/database"
	expertRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/expert"
	schedulerRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/scheduler"
	"github.com/FacundoLlamas/sme-booking-app-sub002/handlers"
	"github.com/FacundoLlamas/sme-booking-app-sub002/middleware"
	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
	"github.com/FacundoLlamas/sme-booking-app-sub002/routes"
	"github.com/FacundoLlamas/sme-booking-app-sub002/services/booking"
	"github.com/FacundoLlamas/sme-booking-app-sub002/services/notification"
	"github.com/FacundoLlamas/sme-booking-app-sub002/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	mongoClient, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	sessionCache, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSessionDB)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	calendarCache, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// repositories.
	experts := expertRepo.NewMongoExpertRepo(mongoClient, cfg.DatabaseName)
	scheduler := schedulerRepo.NewMongoSchedulerRepo(mongoClient, cfg.DatabaseName)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	if err := experts.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := scheduler.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	cancelIndex()

	// task queue.
	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	queueClient := asynq.NewClient(redisOpts)
	defer queueClient.Close()

	// services.
	catalog := models.DefaultServiceCatalog()
	clock := utils.SystemClock()
	hours := booking.NewBusinessHours(
		cfg.BusinessOpenMinute, cfg.BusinessCloseMinute,
		cfg.SlotStartOffsets, cfg.ClosedWeekdays,
	)

	grid := &booking.SlotGridSource{
		Repo:    scheduler,
		Hours:   hours,
		Catalog: catalog,
		Clock:   clock,
		Logger:  logger,
	}
	var source booking.AvailabilitySource = grid
	if cfg.AvailabilitySource == "calendar" {
		source = &booking.ExternalCalendarSource{Grid: grid, Cache: calendarCache, Logger: logger}
	}

	bookingService := &booking.DefaultBookingService{
		Experts:   experts,
		Scheduler: scheduler,
		Matcher:   booking.NewSkillMatcher(catalog),
		Suggester: &booking.SlotSuggester{
			Source:    source,
			Clock:     clock,
			DaysAhead: cfg.DefaultDaysAhead,
			Logger:    logger,
		},
		Conflicts: booking.NewConflictChecker(scheduler, cfg.ReserveMaxAttempts, logger),
		Events:    notification.NewAsynqEmitter(queueClient, logger),
		Catalog:   catalog,
		Clock:     clock,
		Logger:    logger,
	}

	sessionService := &booking.BookingSessionService{
		Bookings: bookingService,
		Cache:    sessionCache,
		TTL:      time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		Logger:   logger,
	}

	// background workers.
	cron.InitBookingWorker(redisOpts, logger)
	cron.StartPendingExpirySweep(scheduler, time.Duration(cfg.PendingExpiryMinutes)*time.Minute, logger)
	utils.StartHealthMonitor([]*redis.Client{sessionCache, calendarCache}, mongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	bundle := &routes.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService, sessionService, logger),
		Expert:  handlers.NewExpertHandler(experts, logger),
	}
	routes.RegisterRoutes(router, bundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
