package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// Defaults applied to tours with no reviews yet.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// Location is a GeoJSON point with optional itinerary metadata.
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

type Tour struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name" validate:"required,min=10,max=30"`
	Slug            string               `json:"slug" bson:"slug"`
	Duration        int                  `json:"duration" bson:"duration" validate:"required,min=1"`
	MaxGroupSize    int                  `json:"max_group_size" bson:"max_group_size" validate:"required,min=1"`
	Difficulty      Difficulty           `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64              `json:"ratings_average" bson:"ratings_average"`
	RatingsQuantity int64                `json:"ratings_quantity" bson:"ratings_quantity"`
	Price           float64              `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64              `json:"price_discount,omitempty" bson:"price_discount,omitempty"`
	Summary         string               `json:"summary" bson:"summary" validate:"required"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"image_cover" bson:"image_cover" validate:"required"`
	Images          []string             `json:"images,omitempty" bson:"images,omitempty"`
	StartDates      []time.Time          `json:"start_dates,omitempty" bson:"start_dates,omitempty"`
	StartLocation   *Location            `json:"start_location,omitempty" bson:"start_location,omitempty"`
	Locations       []Location           `json:"locations,omitempty" bson:"locations,omitempty"`
	Guides          []primitive.ObjectID `json:"guides,omitempty" bson:"guides,omitempty"`
	Secret          bool                 `json:"-" bson:"secret"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`

	// Populated on single-tour reads, never persisted.
	Reviews []*Review `json:"reviews,omitempty" bson:"-"`
}

// MarshalJSON adds the derived duration_weeks field to serialized tours.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour
	out := struct {
		alias
		DurationWeeks float64 `json:"duration_weeks,omitempty"`
	}{alias: alias(t)}

	if t.Duration > 0 {
		out.DurationWeeks = float64(t.Duration) / 7
	}

	return json.Marshal(out)
}

// TourStats is one aggregation bucket of the tour statistics pipeline,
// grouped by difficulty.
type TourStats struct {
	Difficulty Difficulty `json:"difficulty" bson:"_id"`
	NumTours   int64      `json:"num_tours" bson:"num_tours"`
	NumRatings int64      `json:"num_ratings" bson:"num_ratings"`
	AvgRating  float64    `json:"avg_rating" bson:"avg_rating"`
	AvgPrice   float64    `json:"avg_price" bson:"avg_price"`
	MinPrice   float64    `json:"min_price" bson:"min_price"`
	MaxPrice   float64    `json:"max_price" bson:"max_price"`
}

// MonthlyPlanEntry is one month of tour starts for a given year.
type MonthlyPlanEntry struct {
	Month     int      `json:"month" bson:"month"`
	NumStarts int64    `json:"num_starts" bson:"num_starts"`
	Tours     []string `json:"tours" bson:"tours"`
}
