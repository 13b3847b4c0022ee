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

const workoutSetCollectionName = "workout_sets"

// mongoWorkoutSetRepository implements repository.WorkoutSetRepository.
type mongoWorkoutSetRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutSetRepository creates a new set repository.
func NewMongoWorkoutSetRepository(db *mongo.Database) repository.WorkoutSetRepository {
	return &mongoWorkoutSetRepository{
		collection: db.Collection(workoutSetCollectionName),
	}
}

// Create inserts a new set.
func (r *mongoWorkoutSetRepository) Create(ctx context.Context, set *domain.WorkoutSet) (primitive.ObjectID, error) {
	if set.WorkoutExerciseID == primitive.NilObjectID || set.WorkoutID == primitive.NilObjectID || set.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("set requires workoutExerciseId, workoutId and userId")
	}
	set.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	set.CreatedAt = now
	set.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, set)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted set ID")
	}
	return insertedID, nil
}

// GetOwned retrieves a set belonging to userID.
func (r *mongoWorkoutSetRepository) GetOwned(ctx context.Context, setID, userID primitive.ObjectID) (*domain.WorkoutSet, error) {
	var set domain.WorkoutSet
	err := r.collection.FindOne(ctx, bson.M{"_id": setID, "user_id": userID}).Decode(&set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// ListByWorkout returns every set under the workout, ordered by set number.
func (r *mongoWorkoutSetRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutSet, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "set_number", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"workout_id": workoutID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sets []domain.WorkoutSet
	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// Update overwrites the recorded numbers. Lock guards run in the service;
// ownership is still pinned here.
func (r *mongoWorkoutSetRepository) Update(ctx context.Context, set *domain.WorkoutSet) error {
	if set.ID == primitive.NilObjectID || set.UserID == primitive.NilObjectID {
		return errors.New("set ID and user ID are required for update")
	}

	filter := bson.M{"_id": set.ID, "user_id": set.UserID}
	updateDoc := bson.M{
		"$set": bson.M{
			"set_number":   set.SetNumber,
			"reps":         set.Reps,
			"weight":       set.Weight,
			"rest_seconds": set.RestSeconds,
			"updated_at":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes one set.
func (r *mongoWorkoutSetRepository) Delete(ctx context.Context, setID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": setID, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByWorkout removes all sets under a workout (cascade path).
func (r *mongoWorkoutSetRepository) DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workout_id": workoutID})
	return err
}

// CountByWorkouts counts the user's sets within the given workouts; used by
// the stats window query.
func (r *mongoWorkoutSetRepository) CountByWorkouts(ctx context.Context, userID primitive.ObjectID, workoutIDs []primitive.ObjectID) (int64, error) {
	if len(workoutIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"user_id":    userID,
		"workout_id": bson.M{"$in": workoutIDs},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureWorkoutSetIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutSetIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workout_exercise_id", Value: 1}, {Key: "set_number", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "workout_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
