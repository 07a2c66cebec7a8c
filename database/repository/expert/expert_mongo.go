package expertRepo

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

// ErrExpertNotFound is returned when an expert id matches nothing. Callers
// use it to tell a bad reference apart from a storage failure.
var ErrExpertNotFound = errors.New("expert not found")

// MongoExpertRepo implements ExpertRepository using MongoDB.
type MongoExpertRepo struct {
	coll *mongo.Collection
}

// NewMongoExpertRepo constructs a new instance of MongoExpertRepo.
func NewMongoExpertRepo(client *mongo.Client, dbName string) *MongoExpertRepo {
	return &MongoExpertRepo{
		coll: client.Database(dbName).Collection("experts"),
	}
}

// EnsureIndexes creates the indexes the expert queries rely on.
func (repo *MongoExpertRepo) EnsureIndexes(ctx context.Context) error {
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create expert indexes: %w", err)
	}
	return nil
}

func (repo *MongoExpertRepo) ListAvailable(ctx context.Context, businessID string) ([]models.Expert, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"status": models.ExpertAvailable}
	if businessID != "" {
		filter["business_id"] = businessID
	}

	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching available experts: %w", err)
	}
	defer cursor.Close(ctx)

	var experts []models.Expert
	if err := cursor.All(ctx, &experts); err != nil {
		return nil, fmt.Errorf("error decoding experts: %w", err)
	}
	return experts, nil
}

func (repo *MongoExpertRepo) GetByID(ctx context.Context, id int) (*models.Expert, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var expert models.Expert
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&expert); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExpertNotFound
		}
		return nil, fmt.Errorf("error fetching expert with id %d: %w", id, err)
	}
	return &expert, nil
}

func (repo *MongoExpertRepo) Upsert(ctx context.Context, expert *models.Expert) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	expert.EmergencyCapable = models.DeriveEmergencyCapable(expert.Skills)

	opts := options.Replace().SetUpsert(true)
	if _, err := repo.coll.ReplaceOne(ctx, bson.M{"id": expert.ID}, expert, opts); err != nil {
		return fmt.Errorf("failed to upsert expert %d: %w", expert.ID, err)
	}
	return nil
}

func (repo *MongoExpertRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update status for expert %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrExpertNotFound
	}
	return nil
}
