package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review" validate:"required"`
	Rating    float64            `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour" validate:"required"`
	User      primitive.ObjectID `json:"user" bson:"user" validate:"required"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// RatingStats is the aggregate of all reviews for a single tour.
type RatingStats struct {
	AvgRating float64 `bson:"avg_rating"`
	NumRating int64   `bson:"num_rating"`
}
