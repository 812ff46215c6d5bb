package handler

import (
	"context"
	"sort"

	"github.com/mansoorceksport/coachbook/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memExercises struct {
	order []string
	items map[string]*domain.Exercise
}

func newMemExercises() *memExercises {
	return &memExercises{items: map[string]*domain.Exercise{}}
}

func (m *memExercises) Create(_ context.Context, e *domain.Exercise) error {
	e.ID = primitive.NewObjectID().Hex()
	m.items[e.ID] = e
	m.order = append(m.order, e.ID)
	return nil
}

func (m *memExercises) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, domain.ErrInvalidID
	}
	if e, ok := m.items[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExerciseNotFound
}

func (m *memExercises) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Exercise, error) {
	out := map[string]*domain.Exercise{}
	for _, id := range ids {
		if e, ok := m.items[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (m *memExercises) matching(f domain.ExerciseFilter) []*domain.Exercise {
	out := []*domain.Exercise{}
	for _, id := range m.order {
		if e, ok := m.items[id]; ok && (f.Section == "" || e.Section == f.Section) {
			out = append(out, e)
		}
	}
	return out
}

func (m *memExercises) List(_ context.Context, f domain.ExerciseFilter, p domain.PageRequest) ([]*domain.Exercise, error) {
	all := m.matching(f)
	start := int(p.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *memExercises) Count(_ context.Context, f domain.ExerciseFilter) (int64, error) {
	return int64(len(m.matching(f))), nil
}

func (m *memExercises) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrExerciseNotFound
	}
	delete(m.items, id)
	return nil
}

type memTrainings struct {
	items []*domain.Training
}

func (m *memTrainings) index(id string) int {
	for i, t := range m.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *memTrainings) Create(_ context.Context, t *domain.Training) error {
	t.ID = primitive.NewObjectID().Hex()
	m.items = append(m.items, t)
	return nil
}

func (m *memTrainings) GetByID(_ context.Context, id string) (*domain.Training, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, domain.ErrInvalidID
	}
	if i := m.index(id); i >= 0 {
		return m.items[i], nil
	}
	return nil, domain.ErrTrainingNotFound
}

func (m *memTrainings) Replace(_ context.Context, t *domain.Training) error {
	i := m.index(t.ID)
	if i < 0 {
		return domain.ErrTrainingNotFound
	}
	m.items[i] = t
	return nil
}

func (m *memTrainings) Delete(_ context.Context, id string) error {
	i := m.index(id)
	if i < 0 {
		return domain.ErrTrainingNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *memTrainings) Find(ctx context.Context, q domain.TrainingQuery) ([]*domain.Training, error) {
	var out []*domain.Training
	err := m.Scan(ctx, q, func(t *domain.Training) error {
		out = append(out, t)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, err
}

func (m *memTrainings) Scan(_ context.Context, q domain.TrainingQuery, fn func(*domain.Training) error) error {
	for _, t := range m.items {
		switch {
		case q.Category != "" && t.Category != q.Category:
		case q.From != nil && t.DateTime.Before(*q.From):
		case q.To != nil && !t.DateTime.Before(*q.To):
		case q.After != nil && !t.DateTime.After(*q.After):
		default:
			if err := fn(t); err != nil {
				return err
			}
		}
	}
	return nil
}
