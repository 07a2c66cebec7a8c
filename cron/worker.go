package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	schedulerRepo "github.com/FacundoLlamas/sme-booking-app-sub002/database/repository/scheduler"
	"github.com/FacundoLlamas/sme-booking-app-sub002/services/notification"
)

// InitBookingWorker runs the async worker in background. It consumes booking
// lifecycle tasks and hands them to the downstream delivery collaborators;
// delivery itself (email/SMS templates, retries) is not implemented here.
func InitBookingWorker(redisOpts asynq.RedisClientOpt, logger *zap.Logger) {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingCreated, handleBookingCreated(logger))
	mux.HandleFunc(notification.TypeBookingReminder, handleBookingReminder(logger))

	// Start async worker with retry logic
	go func() {
		logger.Info("starting booking queue worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("booking worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("booking worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleBookingCreated(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.BookingEventPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid booking created payload", zap.Error(err))
			return err
		}
		// Handoff point for the delivery pipeline.
		logger.Info("booking created event consumed",
			zap.String("bookingID", p.BookingID),
			zap.Int("expertID", p.ExpertID),
			zap.String("category", p.Category),
			zap.Time("start", p.Start))
		return nil
	}
}

func handleBookingReminder(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.BookingEventPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}
		logger.Info("visit reminder due",
			zap.String("bookingID", p.BookingID),
			zap.String("customer", p.CustomerName),
			zap.Time("start", p.Start))
		return nil
	}
}

// StartPendingExpirySweep cancels pending bookings that were never confirmed
// within the TTL, so abandoned confirmations stop occupying expert calendars.
func StartPendingExpirySweep(repo schedulerRepo.SchedulerRepository, ttl time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := repo.ExpirePendingOlderThan(ctx, time.Now().Add(-ttl))
			cancel()
			if err != nil {
				logger.Error("pending booking sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired stale pending bookings", zap.Int64("count", n))
			}
		}
	}()
}
