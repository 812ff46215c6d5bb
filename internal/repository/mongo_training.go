package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mansoorceksport/coachbook/internal/domain"
)

const TrainingCollection = "trainings"

type MongoTrainingRepository struct {
	collection *mongo.Collection
}

func NewMongoTrainingRepository(db *mongo.Database) *MongoTrainingRepository {
	return &MongoTrainingRepository{
		collection: db.Collection(TrainingCollection),
	}
}

func (r *MongoTrainingRepository) Create(ctx context.Context, training *domain.Training) error {
	training.DateTime = training.DateTime.UTC()

	result, err := r.collection.InsertOne(ctx, training)
	if err != nil {
		return fmt.Errorf("failed to create training: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		training.ID = oid.Hex()
	}
	return nil
}

func (r *MongoTrainingRepository) GetByID(ctx context.Context, id string) (*domain.Training, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var training domain.Training
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTrainingNotFound
		}
		return nil, err
	}
	return &training, nil
}

// Replace rewrites the whole document. Concurrent replaces are last-write-wins.
func (r *MongoTrainingRepository) Replace(ctx context.Context, training *domain.Training) error {
	oid, err := primitive.ObjectIDFromHex(training.ID)
	if err != nil {
		return domain.ErrInvalidID
	}
	training.DateTime = training.DateTime.UTC()

	update := bson.M{
		"$set": bson.M{
			"category":  training.Category,
			"date_time": training.DateTime,
			"place":     training.Place,
			"nb_stages": training.NbStages,
			"stages":    training.Stages,
			"tags":      training.Tags,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to replace training: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTrainingNotFound
	}
	return nil
}

func (r *MongoTrainingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete training: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTrainingNotFound
	}
	return nil
}

func (r *MongoTrainingRepository) Find(ctx context.Context, query domain.TrainingQuery) ([]*domain.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_time", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, trainingFilter(query), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trainings := make([]*domain.Training, 0)
	if err := cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

func (r *MongoTrainingRepository) Scan(ctx context.Context, query domain.TrainingQuery, fn func(*domain.Training) error) error {
	cursor, err := r.collection.Find(ctx, trainingFilter(query))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var training domain.Training
		if err := cursor.Decode(&training); err != nil {
			return err
		}
		if err := fn(&training); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// EnsureTrainingIndexes creates the compound index backing category/date queries.
func EnsureTrainingIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(TrainingCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "date_time", Value: 1}},
	})
	return err
}
