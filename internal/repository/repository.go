package repository

import (
	"context"
	"time"

	"jbarisic/gymtrack/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	ErrLocked    = RepositoryError("locked")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateProfile overwrites only the fields that are non-nil.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, username, email *string) error
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// ExerciseRepository defines the interface for the shared exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// List returns exercises newest-first, optionally filtered by body part.
	List(ctx context.Context, bodyPart string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SetVideoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for workout documents. Every
// method that touches an existing workout takes the owning user's ID and
// folds it into the query filter; a workout owned by someone else is
// indistinguishable from a missing one (ErrNotFound).
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetOwned(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.Workout, error)
	// ListByUser returns the user's workouts ordered by workout_date
	// descending, then _id descending. dateFrom/dateTo bound the workout
	// date inclusively when non-empty.
	ListByUser(ctx context.Context, userID primitive.ObjectID, dateFrom, dateTo string) ([]domain.Workout, error)
	// UpdateUnlocked overwrites title, date and notes. The filter requires
	// is_locked=false; ErrLocked is returned when the workout exists but is
	// locked, ErrNotFound when it is absent or not owned.
	UpdateUnlocked(ctx context.Context, workout *domain.Workout) error
	// DeleteUnlocked removes the workout document itself (children are
	// cascaded by the caller). Same error contract as UpdateUnlocked.
	DeleteUnlocked(ctx context.Context, workoutID, userID primitive.ObjectID) error
	// Lock flips is_locked false->true as a single conditional update so two
	// concurrent lock attempts cannot both succeed. ErrLocked when already
	// locked, ErrNotFound when absent or not owned.
	Lock(ctx context.Context, workoutID, userID primitive.ObjectID) error
}

// WorkoutItemRepository defines the interface for exercise items nested
// under a workout.
type WorkoutItemRepository interface {
	Create(ctx context.Context, item *domain.WorkoutExerciseItem) (primitive.ObjectID, error)
	GetOwned(ctx context.Context, itemID, userID primitive.ObjectID) (*domain.WorkoutExerciseItem, error)
	GetOwnedInWorkout(ctx context.Context, itemID, workoutID, userID primitive.ObjectID) (*domain.WorkoutExerciseItem, error)
	// ListByWorkout orders by order_index ascending, then _id ascending.
	ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExerciseItem, error)
	// ListByWorkouts fetches the items of several workouts at once, for
	// composing body-part summaries over a listing page.
	ListByWorkouts(ctx context.Context, workoutIDs []primitive.ObjectID) ([]domain.WorkoutExerciseItem, error)
	Delete(ctx context.Context, itemID, userID primitive.ObjectID) error
	DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error
	// Lock flips locked false->true and stamps completed_at in the same
	// conditional update. ErrLocked when already locked, ErrNotFound when
	// absent or not owned.
	Lock(ctx context.Context, itemID, userID primitive.ObjectID, completedAt time.Time) error
}

// WorkoutSetRepository defines the interface for individual sets.
type WorkoutSetRepository interface {
	Create(ctx context.Context, set *domain.WorkoutSet) (primitive.ObjectID, error)
	GetOwned(ctx context.Context, setID, userID primitive.ObjectID) (*domain.WorkoutSet, error)
	// ListByWorkout returns every set under the workout ordered by
	// set_number ascending; callers group them per item.
	ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutSet, error)
	Update(ctx context.Context, set *domain.WorkoutSet) error
	Delete(ctx context.Context, setID, userID primitive.ObjectID) error
	DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error
	// CountByWorkouts counts the user's sets belonging to the given workouts.
	CountByWorkouts(ctx context.Context, userID primitive.ObjectID, workoutIDs []primitive.ObjectID) (int64, error)
}

// RecordRepository defines the interface for the one-rep-max ledger.
type RecordRepository interface {
	// Create returns ErrDuplicate when the (user, exercise, date, weight)
	// tuple already exists.
	Create(ctx context.Context, record *domain.OneRepMaxRecord) (primitive.ObjectID, error)
	// ListByUser orders by record_date ascending, then _id ascending;
	// exerciseID narrows to one exercise when non-nil.
	ListByUser(ctx context.Context, userID primitive.ObjectID, exerciseID *primitive.ObjectID) ([]domain.OneRepMaxRecord, error)
	// Delete is scoped to the owner and is a no-op when nothing matches.
	Delete(ctx context.Context, recordID, userID primitive.ObjectID) error
}
