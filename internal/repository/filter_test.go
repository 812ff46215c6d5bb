package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mansoorceksport/coachbook/internal/domain"
)

func TestFilterBuilder_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, NewFilterBuilder().Build())
	assert.Equal(t, bson.M{}, NewFilterBuilder().Eq("category", "").Range("date_time", nil, nil).After("date_time", nil).Build())
}

func TestFilterBuilder_SinglePredicate(t *testing.T) {
	got := NewFilterBuilder().Eq("section", "outfield").Build()
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"section": "outfield"}}}, got)
}

func TestFilterBuilder_Combined(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	to := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	got := trainingFilter(domain.TrainingQuery{Category: "18U", From: &from, To: &to})

	want := bson.M{"$and": bson.A{
		bson.M{"category": "18U"},
		bson.M{"date_time": bson.M{
			"$gte": time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
			"$lt":  to,
		}},
	}}
	assert.Equal(t, want, got)
}

func TestFilterBuilder_After(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	got := trainingFilter(domain.TrainingQuery{Category: "15U", After: &now})

	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"category": "15U"},
		bson.M{"date_time": bson.M{"$gt": now}},
	}}, got)
}

func TestExerciseFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, exerciseFilter(domain.ExerciseFilter{}))
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"section": "infield"}}}, exerciseFilter(domain.ExerciseFilter{Section: "infield"}))
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"section": "infield"}, bson.M{"name": "Rundown"}}},
		exerciseFilter(domain.ExerciseFilter{Section: "infield", Name: "Rundown"}))
}
