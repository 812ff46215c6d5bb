package domain

import (
	"context"
	"fmt"
	"time"
)

var ErrTrainingNotFound = fmt.Errorf("training %w", ErrNotFound)

// Stage is an ordered block of a training. Duration and NbExercises are
// computed from Exercises when the training is written and never on read.
type Stage struct {
	Duration    int      `json:"duration" bson:"duration"`
	NbExercises int      `json:"nb_exercises" bson:"nb_exercises"`
	Exercises   []string `json:"exercises" bson:"exercises"`
}

// Training is a scheduled session for a category.
type Training struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	Category string    `json:"category" bson:"category"`
	DateTime time.Time `json:"date_time" bson:"date_time"`
	Place    string    `json:"place" bson:"place"`
	NbStages int       `json:"nb_stages" bson:"nb_stages"`
	Stages   []Stage   `json:"stages" bson:"stages"`
	Tags     []string  `json:"tags" bson:"tags"`
}

// ResumedTraining is the projection returned by list and next queries.
type ResumedTraining struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	Category string    `json:"category" bson:"category"`
	DateTime time.Time `json:"date_time" bson:"date_time"`
	Place    string    `json:"place" bson:"place"`
}

func (t *Training) Resume() ResumedTraining {
	return ResumedTraining{
		ID:       t.ID,
		Category: t.Category,
		DateTime: t.DateTime,
		Place:    t.Place,
	}
}

// TrainingQuery selects trainings. Zero values mean "no constraint".
// From is inclusive, To and After are exclusive.
type TrainingQuery struct {
	Category string
	From     *time.Time
	To       *time.Time
	After    *time.Time
}

type TrainingRepository interface {
	Create(ctx context.Context, training *Training) error
	GetByID(ctx context.Context, id string) (*Training, error)
	// Replace overwrites every stored field of the training with the given ID.
	Replace(ctx context.Context, training *Training) error
	Delete(ctx context.Context, id string) error
	// Find returns matching trainings sorted by date_time ascending.
	Find(ctx context.Context, query TrainingQuery) ([]*Training, error)
	// Scan streams matching trainings in store order.
	Scan(ctx context.Context, query TrainingQuery, fn func(*Training) error) error
}
