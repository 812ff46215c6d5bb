package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/coachbook/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TrainingInput is a training as submitted by a client: stages are given as
// ordered lists of exercise ids and derived fields are computed server side.
type TrainingInput struct {
	ID       string
	Category string
	DateTime time.Time
	Place    string
	Stages   [][]string
	Tags     []string
}

type TrainingService struct {
	trainings domain.TrainingRepository
	exercises ExerciseLookup
	now       func() time.Time
}

func NewTrainingService(trainings domain.TrainingRepository, exercises ExerciseLookup) *TrainingService {
	return &TrainingService{
		trainings: trainings,
		exercises: exercises,
		now:       time.Now,
	}
}

// WithClock replaces the time source used by Next.
func (s *TrainingService) WithClock(now func() time.Time) *TrainingService {
	s.now = now
	return s
}

func (s *TrainingService) build(ctx context.Context, in TrainingInput) (*domain.Training, error) {
	stages, err := DeriveStages(ctx, s.exercises, in.Stages)
	if err != nil {
		return nil, err
	}
	return &domain.Training{
		ID:       in.ID,
		Category: in.Category,
		DateTime: in.DateTime.UTC(),
		Place:    in.Place,
		NbStages: len(stages),
		Stages:   stages,
		Tags:     uniqueTags(in.Tags),
	}, nil
}

// Create stores a new training. Nothing is written when a stage references an
// unknown exercise.
func (s *TrainingService) Create(ctx context.Context, in TrainingInput) (*domain.Training, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TrainingService.Create",
		trace.WithAttributes(attribute.String("training.category", in.Category)),
	)
	defer span.End()

	in.ID = ""
	training, err := s.build(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.trainings.Create(ctx, training); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create training: %w", err)
	}
	return training, nil
}

// Update replaces the training identified by in.ID.
func (s *TrainingService) Update(ctx context.Context, in TrainingInput) (*domain.Training, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TrainingService.Update",
		trace.WithAttributes(attribute.String("training.id", in.ID)),
	)
	defer span.End()

	// existence first so an unknown id is reported before bad stage references
	if _, err := s.trainings.GetByID(ctx, in.ID); err != nil {
		return nil, err
	}

	training, err := s.build(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.trainings.Replace(ctx, training); err != nil {
		if errors.Is(err, domain.ErrTrainingNotFound) {
			return nil, err
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update training: %w", err)
	}
	return training, nil
}

func (s *TrainingService) Get(ctx context.Context, id string) (*domain.Training, error) {
	return s.trainings.GetByID(ctx, id)
}

func (s *TrainingService) Delete(ctx context.Context, id string) error {
	return s.trainings.Delete(ctx, id)
}

// List returns the resumed trainings of category within [from, to), ordered by date_time.
func (s *TrainingService) List(ctx context.Context, category string, from, to time.Time) ([]domain.ResumedTraining, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TrainingService.List",
		trace.WithAttributes(
			attribute.String("training.category", category),
			attribute.String("range.start", from.Format(time.RFC3339)),
			attribute.String("range.end", to.Format(time.RFC3339)),
		),
	)
	defer span.End()

	trainings, err := s.trainings.Find(ctx, domain.TrainingQuery{
		Category: category,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}

	resumed := make([]domain.ResumedTraining, 0, len(trainings))
	for _, t := range trainings {
		resumed = append(resumed, t.Resume())
	}
	return resumed, nil
}

// Next returns the earliest training of category strictly after now, or nil
// when there is none. On equal date_time the first one scanned wins.
func (s *TrainingService) Next(ctx context.Context, category string) (*domain.ResumedTraining, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "TrainingService.Next",
		trace.WithAttributes(attribute.String("training.category", category)),
	)
	defer span.End()

	now := s.now().UTC()
	var next *domain.Training
	err := s.trainings.Scan(ctx, domain.TrainingQuery{Category: category, After: &now}, func(t *domain.Training) error {
		if next == nil || t.DateTime.Before(next.DateTime) {
			next = t
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find next training: %w", err)
	}
	if next == nil {
		return nil, nil
	}

	resumed := next.Resume()
	return &resumed, nil
}

func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
