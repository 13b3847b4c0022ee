package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OneRepMaxRecord is a dated personal-best entry for one exercise,
// independent of the workout log. No two records may share the same
// (user, exercise, date, weight) tuple; a unique compound index enforces it.
type OneRepMaxRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"-"`
	ExerciseID primitive.ObjectID `bson:"exercise_id" json:"exercise_id"`
	Weight     float64            `bson:"weight" json:"weight"`
	RecordDate string             `bson:"record_date" json:"record_date"` // YYYY-MM-DD, past dates allowed
	Note       string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
