package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FacundoLlamas/sme-booking-app-sub002/models"
)

// ErrBookingNotFound is returned when a booking id matches nothing, or when a
// status transition is attempted from a disallowed state.
var ErrBookingNotFound = errors.New("booking not found or not in an allowed state")

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	bookingColl *mongo.Collection
	expertColl  *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(client *mongo.Client, dbName string) *MongoSchedulerRepo {
	db := client.Database(dbName)
	return &MongoSchedulerRepo{
		bookingColl: db.Collection("bookings"),
		expertColl:  db.Collection("experts"),
	}
}

// EnsureIndexes creates the indexes the booking queries rely on.
func (repo *MongoSchedulerRepo) EnsureIndexes(ctx context.Context) error {
	_, err := repo.bookingColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "expert_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (repo *MongoSchedulerRepo) ListBookingsInWindow(ctx context.Context, expertID int, from, to time.Time, statuses []string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"expert_id": expertID,
		"status":    bson.M{"$in": statuses},
		"start":     bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for expert %d: %w", expertID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (repo *MongoSchedulerRepo) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoSchedulerRepo) UpdateBookingStatus(ctx context.Context, id string, allowedFrom []string, to string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": allowedFrom}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return fmt.Errorf("failed to update status for booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (repo *MongoSchedulerRepo) ExpirePendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"status": models.BookingPending, "created_at": bson.M{"$lt": cutoff}}
	res, err := repo.bookingColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.BookingCancelled}})
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale pending bookings: %w", err)
	}
	return res.ModifiedCount, nil
}
