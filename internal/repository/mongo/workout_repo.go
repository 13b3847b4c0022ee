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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout with the lock cleared.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || workout.Title == "" || workout.WorkoutDate == "" {
		return primitive.NilObjectID, errors.New("workout requires userId, title and workoutDate")
	}
	workout.ID = primitive.NewObjectID()
	workout.Locked = false
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetOwned retrieves a workout only when it belongs to userID. Anything
// else is ErrNotFound so ownership never leaks.
func (r *mongoWorkoutRepository) GetOwned(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": workoutID, "user_id": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListByUser returns the user's workouts, newest date first, newest id
// first on date ties. Date bounds are inclusive and lexical; the stored
// YYYY-MM-DD format makes lexical order calendar order.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, dateFrom, dateTo string) ([]domain.Workout, error) {
	filter := bson.M{"user_id": userID}
	dateRange := bson.M{}
	if dateFrom != "" {
		dateRange["$gte"] = dateFrom
	}
	if dateTo != "" {
		dateRange["$lte"] = dateTo
	}
	if len(dateRange) > 0 {
		filter["workout_date"] = dateRange
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "workout_date", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// classify distinguishes "absent or not owned" from "present but locked"
// after a guarded write matched nothing.
func (r *mongoWorkoutRepository) classify(ctx context.Context, workoutID, userID primitive.ObjectID) error {
	err := r.collection.FindOne(ctx, bson.M{"_id": workoutID, "user_id": userID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return repository.ErrLocked
}

// UpdateUnlocked overwrites title, date and notes. The is_locked=false
// predicate makes the guard and the write one atomic step.
func (r *mongoWorkoutRepository) UpdateUnlocked(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID || workout.UserID == primitive.NilObjectID {
		return errors.New("workout ID and user ID are required for update")
	}

	filter := bson.M{"_id": workout.ID, "user_id": workout.UserID, "is_locked": false}
	updateDoc := bson.M{
		"$set": bson.M{
			"title":        workout.Title,
			"workout_date": workout.WorkoutDate,
			"notes":        workout.Notes,
			"updated_at":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, workout.ID, workout.UserID)
	}
	return nil
}

// DeleteUnlocked removes the workout document. Children are cascaded by
// the service after this succeeds.
func (r *mongoWorkoutRepository) DeleteUnlocked(ctx context.Context, workoutID, userID primitive.ObjectID) error {
	filter := bson.M{"_id": workoutID, "user_id": userID, "is_locked": false}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return r.classify(ctx, workoutID, userID)
	}
	return nil
}

// Lock is a compare-and-swap on the is_locked flag: of two racing lock
// requests exactly one matches the false state.
func (r *mongoWorkoutRepository) Lock(ctx context.Context, workoutID, userID primitive.ObjectID) error {
	filter := bson.M{"_id": workoutID, "user_id": userID, "is_locked": false}
	update := bson.M{
		"$set": bson.M{
			"is_locked":  true,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.classify(ctx, workoutID, userID)
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Listing is always per user, ordered by date.
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "workout_date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
