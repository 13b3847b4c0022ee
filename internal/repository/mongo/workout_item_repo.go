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

const workoutItemCollectionName = "workout_exercises"

// mongoWorkoutItemRepository implements repository.WorkoutItemRepository.
// Items carry a denormalized user_id so ownership lives in every filter
// instead of requiring a join back to the workout.
type mongoWorkoutItemRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutItemRepository creates a new exercise-item repository.
func NewMongoWorkoutItemRepository(db *mongo.Database) repository.WorkoutItemRepository {
	return &mongoWorkoutItemRepository{
		collection: db.Collection(workoutItemCollectionName),
	}
}

// Create inserts a new item with the lock cleared and no completion stamp.
func (r *mongoWorkoutItemRepository) Create(ctx context.Context, item *domain.WorkoutExerciseItem) (primitive.ObjectID, error) {
	if item.WorkoutID == primitive.NilObjectID || item.UserID == primitive.NilObjectID || item.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("item requires workoutId, userId and exerciseId")
	}
	item.ID = primitive.NewObjectID()
	item.Locked = false
	item.CompletedAt = nil
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted item ID")
	}
	return insertedID, nil
}

// GetOwned retrieves an item belonging to userID, wherever it lives.
func (r *mongoWorkoutItemRepository) GetOwned(ctx context.Context, itemID, userID primitive.ObjectID) (*domain.WorkoutExerciseItem, error) {
	return r.findOne(ctx, bson.M{"_id": itemID, "user_id": userID})
}

// GetOwnedInWorkout additionally pins the item to a specific workout,
// mirroring routes that carry both IDs.
func (r *mongoWorkoutItemRepository) GetOwnedInWorkout(ctx context.Context, itemID, workoutID, userID primitive.ObjectID) (*domain.WorkoutExerciseItem, error) {
	return r.findOne(ctx, bson.M{"_id": itemID, "workout_id": workoutID, "user_id": userID})
}

func (r *mongoWorkoutItemRepository) findOne(ctx context.Context, filter bson.M) (*domain.WorkoutExerciseItem, error) {
	var item domain.WorkoutExerciseItem
	err := r.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListByWorkout returns the workout's items in display order.
func (r *mongoWorkoutItemRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExerciseItem, error) {
	return r.find(ctx, bson.M{"workout_id": workoutID})
}

// ListByWorkouts fetches the items of several workouts in one query.
func (r *mongoWorkoutItemRepository) ListByWorkouts(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.WorkoutExerciseItem, error) {
	if len(workoutIDs) == 0 {
		return []domain.WorkoutExerciseItem{}, nil
	}
	return r.find(ctx, bson.M{"workout_id": bson.M{"$in": workoutIDs}})
}

func (r *mongoWorkoutItemRepository) find(ctx context.Context, filter bson.M) ([]domain.WorkoutExerciseItem, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "order_index", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []domain.WorkoutExerciseItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes one item. Lock guards are checked by the service before
// this runs; the filter still pins ownership.
func (r *mongoWorkoutItemRepository) Delete(ctx context.Context, itemID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": itemID, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByWorkout removes all items under a workout (cascade path).
func (r *mongoWorkoutItemRepository) DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workout_id": workoutID})
	return err
}

// Lock flips locked false->true and stamps completed_at in one conditional
// update, so concurrent lock attempts cannot both succeed.
func (r *mongoWorkoutItemRepository) Lock(ctx context.Context, itemID, userID primitive.ObjectID, completedAt time.Time) error {
	filter := bson.M{"_id": itemID, "user_id": userID, "locked": false}
	update := bson.M{
		"$set": bson.M{
			"locked":       true,
			"completed_at": completedAt.UTC(),
			"updated_at":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		err := r.collection.FindOne(ctx, bson.M{"_id": itemID, "user_id": userID}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		return repository.ErrLocked
	}
	return nil
}

// EnsureWorkoutItemIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutItemIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workout_id", Value: 1}, {Key: "order_index", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
