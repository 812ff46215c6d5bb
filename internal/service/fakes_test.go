package service

import (
	"context"
	"errors"
	"sort"

	"github.com/mansoorceksport/coachbook/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeExerciseRepo struct {
	items   map[string]*domain.Exercise
	order   []string
	lookups int
	err     error
}

func newFakeExerciseRepo(exercises ...*domain.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{items: map[string]*domain.Exercise{}}
	for _, e := range exercises {
		_ = r.Create(context.Background(), e)
	}
	return r
}

func (r *fakeExerciseRepo) Create(_ context.Context, e *domain.Exercise) error {
	if r.err != nil {
		return r.err
	}
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	r.items[e.ID] = e
	r.order = append(r.order, e.ID)
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	if e, ok := r.items[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExerciseNotFound
}

func (r *fakeExerciseRepo) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Exercise, error) {
	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]*domain.Exercise{}
	for _, id := range ids {
		if e, ok := r.items[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) filtered(filter domain.ExerciseFilter) []*domain.Exercise {
	var out []*domain.Exercise
	for _, id := range r.order {
		e, ok := r.items[id]
		if !ok {
			continue
		}
		if filter.Section != "" && e.Section != filter.Section {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *fakeExerciseRepo) List(_ context.Context, filter domain.ExerciseFilter, page domain.PageRequest) ([]*domain.Exercise, error) {
	if r.err != nil {
		return nil, r.err
	}
	all := r.filtered(filter)
	start := int(page.Skip())
	if start >= len(all) {
		return nil, nil
	}
	end := start + page.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *fakeExerciseRepo) Count(_ context.Context, filter domain.ExerciseFilter) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrExerciseNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeTrainingRepo struct {
	items []*domain.Training
	err   error
}

func (r *fakeTrainingRepo) find(id string) int {
	for i, t := range r.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *fakeTrainingRepo) Create(_ context.Context, t *domain.Training) error {
	if r.err != nil {
		return r.err
	}
	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	r.items = append(r.items, t)
	return nil
}

func (r *fakeTrainingRepo) GetByID(_ context.Context, id string) (*domain.Training, error) {
	if i := r.find(id); i >= 0 {
		return r.items[i], nil
	}
	return nil, domain.ErrTrainingNotFound
}

func (r *fakeTrainingRepo) Replace(_ context.Context, t *domain.Training) error {
	if r.err != nil {
		return r.err
	}
	i := r.find(t.ID)
	if i < 0 {
		return domain.ErrTrainingNotFound
	}
	r.items[i] = t
	return nil
}

func (r *fakeTrainingRepo) Delete(_ context.Context, id string) error {
	i := r.find(id)
	if i < 0 {
		return domain.ErrTrainingNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *fakeTrainingRepo) matches(t *domain.Training, q domain.TrainingQuery) bool {
	if q.Category != "" && t.Category != q.Category {
		return false
	}
	if q.From != nil && t.DateTime.Before(*q.From) {
		return false
	}
	if q.To != nil && !t.DateTime.Before(*q.To) {
		return false
	}
	if q.After != nil && !t.DateTime.After(*q.After) {
		return false
	}
	return true
}

func (r *fakeTrainingRepo) Find(_ context.Context, q domain.TrainingQuery) ([]*domain.Training, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Training
	for _, t := range r.items {
		if r.matches(t, q) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

// Scan yields in insertion order, not date order.
func (r *fakeTrainingRepo) Scan(_ context.Context, q domain.TrainingQuery, fn func(*domain.Training) error) error {
	if r.err != nil {
		return r.err
	}
	for _, t := range r.items {
		if !r.matches(t, q) {
			continue
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

var errStore = errors.New("store unavailable")
