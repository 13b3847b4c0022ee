package mongo

import (
	"context"
	"errors"
	"time"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recordCollectionName = "one_rep_maxes"

// mongoRecordRepository implements repository.RecordRepository.
type mongoRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoRecordRepository creates a new one-rep-max ledger repository.
func NewMongoRecordRepository(db *mongo.Database) repository.RecordRepository {
	return &mongoRecordRepository{
		collection: db.Collection(recordCollectionName),
	}
}

// Create inserts a new record. The unique compound index on
// (user_id, exercise_id, record_date, weight) turns duplicates into
// ErrDuplicate regardless of request interleaving.
func (r *mongoRecordRepository) Create(ctx context.Context, record *domain.OneRepMaxRecord) (primitive.ObjectID, error) {
	if record.UserID == primitive.NilObjectID || record.ExerciseID == primitive.NilObjectID || record.RecordDate == "" {
		return primitive.NilObjectID, errors.New("record requires userId, exerciseId and recordDate")
	}
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted record ID")
	}
	return insertedID, nil
}

// ListByUser returns the caller's records oldest-first, optionally for one
// exercise.
func (r *mongoRecordRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, exerciseID *primitive.ObjectID) ([]domain.OneRepMaxRecord, error) {
	filter := bson.M{"user_id": userID}
	if exerciseID != nil {
		filter["exercise_id"] = *exerciseID
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "record_date", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.OneRepMaxRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the record when it belongs to userID. Deleting someone
// else's record (or a missing one) matches zero documents and reports
// success; that silent no-op is part of the API contract.
func (r *mongoRecordRepository) Delete(ctx context.Context, recordID, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": recordID, "user_id": userID})
	return err
}

// EnsureRecordIndexes creates necessary indexes. Call during startup.
func EnsureRecordIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// The uniqueness tuple for 1RM entries.
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "exercise_id", Value: 1},
				{Key: "record_date", Value: 1},
				{Key: "weight", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
