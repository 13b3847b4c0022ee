package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire and storage format for workout and record dates.
// Dates are compared lexically, so calendar order equals string order.
const DateLayout = "2006-01-02"

// Workout is a dated training session owned by exactly one user. Once
// Locked flips to true the workout and everything under it is frozen;
// the flag itself never goes back to false.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	WorkoutDate string             `bson:"workout_date" json:"workout_date"` // YYYY-MM-DD
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Locked      bool               `bson:"is_locked" json:"is_locked"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// WorkoutExerciseItem is one exercise's occurrence within a workout.
// It has its own lock flag, but a locked parent workout freezes the item
// regardless of that flag. UserID is denormalized from the parent workout
// so ownership can sit directly in every query filter.
type WorkoutExerciseItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workout_id" json:"workout_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"-"`
	ExerciseID  primitive.ObjectID `bson:"exercise_id" json:"exercise_id"`
	OrderIndex  int                `bson:"order_index" json:"order_index"`
	PlannedSets int                `bson:"planned_sets" json:"planned_sets"`
	PlannedReps int                `bson:"planned_reps" json:"planned_reps"`
	Locked      bool               `bson:"locked" json:"locked"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// WorkoutSet is one recorded unit of work under an exercise item.
// WorkoutID and UserID are denormalized for ownership filters and for the
// stats window count.
type WorkoutSet struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutExerciseID primitive.ObjectID `bson:"workout_exercise_id" json:"workout_exercise_id"`
	WorkoutID         primitive.ObjectID `bson:"workout_id" json:"-"`
	UserID            primitive.ObjectID `bson:"user_id" json:"-"`
	SetNumber         int                `bson:"set_number" json:"set_number"`
	Reps              int                `bson:"reps" json:"reps"`
	Weight            *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	RestSeconds       *int               `bson:"rest_seconds,omitempty" json:"rest_seconds,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
