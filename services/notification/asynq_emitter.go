package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// Task type names shared with the queue worker.
const (
	TypeBookingCreated  = "booking:created"
	TypeBookingReminder = "booking:reminder"
)

// BookingEventPayload is the wire payload for booking lifecycle tasks.
type BookingEventPayload struct {
	BookingID        string    `json:"bookingId"`
	ExpertID         int       `json:"expertId"`
	CustomerName     string    `json:"customerName"`
	CustomerContact  string    `json:"customerContact,omitempty"`
	Category         string    `json:"category"`
	Start            time.Time `json:"start"`
	ConfirmationCode string    `json:"confirmationCode,omitempty"`
}

func payloadFor(booking models.Booking) BookingEventPayload {
	return BookingEventPayload{
		BookingID:        booking.ID,
		ExpertID:         booking.ExpertID,
		CustomerName:     booking.CustomerName,
		CustomerContact:  booking.CustomerContact,
		Category:         booking.Category,
		Start:            booking.Start,
		ConfirmationCode: booking.ConfirmationCode,
	}
}

// AsynqEmitter implements EventEmitter on the asynq task queue.
type AsynqEmitter struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewAsynqEmitter constructs an emitter over the given queue client.
func NewAsynqEmitter(client *asynq.Client, logger *zap.Logger) *AsynqEmitter {
	return &AsynqEmitter{Client: client, Logger: logger}
}

func (e *AsynqEmitter) BookingCreated(ctx context.Context, booking models.Booking) error {
	b, err := json.Marshal(payloadFor(booking))
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}
	task := asynq.NewTask(TypeBookingCreated, b)
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue booking created event: %w", err)
	}
	e.Logger.Info("booking created event emitted", zap.String("bookingID", booking.ID))
	return nil
}

func (e *AsynqEmitter) ScheduleReminder(ctx context.Context, booking models.Booking, fireAt time.Time) error {
	b, err := json.Marshal(payloadFor(booking))
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	if _, err := e.Client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	e.Logger.Info("visit reminder scheduled",
		zap.String("bookingID", booking.ID), zap.Time("fireAt", fireAt))
	return nil
}
