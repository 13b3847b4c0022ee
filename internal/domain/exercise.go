package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a catalog entry shared by all users. Only admins may create
// or change entries; everyone can read them.
type Exercise struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	BodyPart string             `bson:"body_part" json:"body_part"` // e.g. "Chest", "Legs", "Back"

	ShortDesc  string `bson:"short_desc,omitempty" json:"short_desc,omitempty"`
	HowTo      string `bson:"how_to,omitempty" json:"how_to,omitempty"`
	YoutubeURL string `bson:"youtube_url,omitempty" json:"youtube_url,omitempty"`

	// Key of an uploaded demo video in object storage, if one exists.
	VideoObjectKey string `bson:"video_object_key,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
