package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mansoorceksport/coachbook/internal/domain"
)

// FilterBuilder accumulates independent predicates and joins them with $and.
type FilterBuilder struct {
	predicates []bson.M
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Eq adds field == value. Empty strings are ignored.
func (b *FilterBuilder) Eq(field string, value string) *FilterBuilder {
	if value == "" {
		return b
	}
	b.predicates = append(b.predicates, bson.M{field: value})
	return b
}

// Range adds from <= field < to. A nil bound is left open.
func (b *FilterBuilder) Range(field string, from, to *time.Time) *FilterBuilder {
	cond := bson.M{}
	if from != nil {
		cond["$gte"] = from.UTC()
	}
	if to != nil {
		cond["$lt"] = to.UTC()
	}
	if len(cond) > 0 {
		b.predicates = append(b.predicates, bson.M{field: cond})
	}
	return b
}

// After adds field > t.
func (b *FilterBuilder) After(field string, t *time.Time) *FilterBuilder {
	if t != nil {
		b.predicates = append(b.predicates, bson.M{field: bson.M{"$gt": t.UTC()}})
	}
	return b
}

// Build returns the combined filter; without predicates it matches everything.
func (b *FilterBuilder) Build() bson.M {
	if len(b.predicates) == 0 {
		return bson.M{}
	}
	and := make(bson.A, 0, len(b.predicates))
	for _, p := range b.predicates {
		and = append(and, p)
	}
	return bson.M{"$and": and}
}

func trainingFilter(q domain.TrainingQuery) bson.M {
	return NewFilterBuilder().
		Eq("category", q.Category).
		Range("date_time", q.From, q.To).
		After("date_time", q.After).
		Build()
}

func exerciseFilter(f domain.ExerciseFilter) bson.M {
	return NewFilterBuilder().
		Eq("section", f.Section).
		Eq("name", f.Name).
		Build()
}
