package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// ReserveTransactionally performs the check-and-reserve as one transaction:
// read active bookings inside [windowStart, windowEnd] for the booking's
// expert, and insert the new booking only when none exist. The transaction
// also bumps a schedule version on the expert document, so two concurrent
// reservations against the same expert always write-conflict and one of them
// aborts with a transient error instead of both committing.
//
// Returns the competing booking when the window is occupied; nothing is
// written in that case.
func (repo *MongoSchedulerRepo) ReserveTransactionally(
	ctx context.Context,
	windowStart, windowEnd time.Time,
	booking *models.Booking,
) (*models.Booking, error) {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	var conflict *models.Booking

	txnFn := func(sc mongo.SessionContext) error {
		conflict = nil

		filter := bson.M{
			"expert_id": booking.ExpertID,
			"status":    bson.M{"$in": models.ActiveBookingStatuses},
			"start":     bson.M{"$gte": windowStart, "$lte": windowEnd},
		}
		findOpts := options.FindOne().SetSort(bson.D{{Key: "start", Value: 1}})

		var existing models.Booking
		err := repo.bookingColl.FindOne(sc, filter, findOpts).Decode(&existing)
		switch {
		case err == nil:
			conflict = &existing
			return nil
		case errors.Is(err, mongo.ErrNoDocuments):
			// window is free
		default:
			return fmt.Errorf("conflict check failed: %w", err)
		}

		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		res, err := repo.expertColl.UpdateOne(sc,
			bson.M{"id": booking.ExpertID},
			bson.M{"$inc": bson.M{"schedule_version": 1}},
		)
		if err != nil {
			return fmt.Errorf("schedule version bump failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("expert %d not found", booking.ExpertID)
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(txnOpts); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		if conflict != nil {
			// Nothing was written; no need to hold the transaction open.
			_ = sc.AbortTransaction(sc)
			return nil
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, fmt.Errorf("reserve transaction failed: %w", err)
	}

	return conflict, nil
}

// IsTransientTxnError reports whether the error is a retryable transaction
// failure (write conflict, commit uncertainty) rather than a hard failure.
func IsTransientTxnError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	var labeled mongo.ServerError
	if errors.As(err, &labeled) {
		return labeled.HasErrorLabel("TransientTransactionError") ||
			labeled.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
