package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

var ErrExerciseNotFound = fmt.Errorf("exercise %w", ErrNotFound)

// Exercise is a reusable drill in the library.
type Exercise struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Section      string    `json:"section" bson:"section"`       // e.g. "infield", "outfield", "pitching"
	Difficulty   int       `json:"difficulty" bson:"difficulty"` // 0-5
	Duration     int       `json:"duration" bson:"duration"`     // minutes
	Description  string    `json:"description" bson:"description"`
	CreationDate time.Time `json:"creation_date" bson:"creation_date"`
	Video        string    `json:"video,omitempty" bson:"video,omitempty"`
}

// ExerciseFilter narrows an exercise listing. Empty fields match everything.
type ExerciseFilter struct {
	Section string
	Name    string
}

// PageRequest is an offset page, 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// MaxPage is the last page whose offset fits in an int64 for the given size.
func MaxPage(pageSize int) int {
	if pageSize < 1 {
		return math.MaxInt
	}
	last := math.MaxInt64 / int64(pageSize)
	if last >= math.MaxInt {
		return math.MaxInt
	}
	return int(last) + 1
}

// Skip is the document offset of the page, saturating at math.MaxInt64.
func (p PageRequest) Skip() int64 {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page > MaxPage(p.PageSize) {
		return math.MaxInt64
	}
	return int64(p.Page-1) * int64(p.PageSize)
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	// GetByIDs returns the exercises found among ids, keyed by their lowercase hex id.
	// Missing ids are absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Exercise, error)
	List(ctx context.Context, filter ExerciseFilter, page PageRequest) ([]*Exercise, error)
	Count(ctx context.Context, filter ExerciseFilter) (int64, error)
	Delete(ctx context.Context, id string) error
}
