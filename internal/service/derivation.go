package service

import (
	"context"
	"fmt"

	"github.com/mansoorceksport/coachbook/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLookup resolves exercise ids in bulk.
type ExerciseLookup interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Exercise, error)
}

// DeriveStages builds stages from ordered exercise id lists. Every reference
// must resolve, otherwise ErrExerciseNotFound is returned wrapping the first
// missing id. Duplicate references are counted individually. References are
// stored in their canonical lowercase hex form.
func DeriveStages(ctx context.Context, lookup ExerciseLookup, requested [][]string) ([]domain.Stage, error) {
	canonical := make([][]string, len(requested))
	var ids []string
	for i, refs := range requested {
		canonical[i] = make([]string, len(refs))
		for j, id := range refs {
			canonical[i][j] = canonicalID(id)
		}
		ids = append(ids, canonical[i]...)
	}

	found := map[string]*domain.Exercise{}
	if len(ids) > 0 {
		var err error
		found, err = lookup.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve exercises: %w", err)
		}
	}

	stages := make([]domain.Stage, 0, len(requested))
	for _, refs := range canonical {
		stage := domain.Stage{
			NbExercises: len(refs),
			Exercises:   make([]string, 0, len(refs)),
		}
		for _, id := range refs {
			ex, ok := found[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrExerciseNotFound, id)
			}
			if ex.Duration > stage.Duration {
				stage.Duration = ex.Duration
			}
			stage.Exercises = append(stage.Exercises, id)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// canonicalID lowers a valid ObjectID hex so it matches the stored form.
// Anything else is returned untouched and fails the lookup.
func canonicalID(id string) string {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id
	}
	return oid.Hex()
}
