package service

import (
	"context"
	"sync"
	"time"

	"github.com/wodsocial/wodsocial-go/internal/api"
	"github.com/wodsocial/wodsocial-go/internal/bus"
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/search"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

// WorkoutService owns the workout builder: the exercise catalog with
// its search box, and the create-attach-publish flow.
type WorkoutService struct {
	client *api.Client
	bus    *bus.Bus
	index  *search.ExerciseIndex
	log    *logger.Logger

	mu     sync.Mutex
	loaded bool
}

// NewWorkoutService creates a workout service with an empty catalog.
func NewWorkoutService(client *api.Client, b *bus.Bus, log *logger.Logger) (*WorkoutService, error) {
	idx, err := search.NewExerciseIndex(log)
	if err != nil {
		return nil, err
	}
	return &WorkoutService{
		client: client,
		bus:    b,
		index:  idx,
		log:    log.WithComponent("workout"),
	}, nil
}

// Close releases the exercise index.
func (s *WorkoutService) Close() error {
	return s.index.Close()
}

// LoadExercises fetches the exercise catalog and rebuilds the search
// index. Subsequent calls refetch; the index is replaced wholesale.
func (s *WorkoutService) LoadExercises(ctx context.Context) error {
	exercises, err := s.client.Exercises(ctx)
	if err != nil {
		return err
	}
	if err := s.index.Load(exercises); err != nil {
		return err
	}
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// SearchExercises answers the picker's search box. The catalog is
// loaded lazily on first use.
func (s *WorkoutService) SearchExercises(ctx context.Context, q string, limit int) ([]domain.Exercise, error) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		if err := s.LoadExercises(ctx); err != nil {
			return nil, err
		}
	}
	return s.index.Search(q, limit)
}

// WorkoutDraft is the builder's outbound shape: the workout kind, its
// exercise lines, and the result to record alongside.
type WorkoutDraft struct {
	Kind            string
	Note            string
	Items           []api.AttachItem
	AchievedSeconds *int64
	ResultNote      string
	Favorite        bool
	Date            time.Time
}

// Publish runs the full builder flow: create the workout, attach its
// exercises, then record the result with its calendar mark and
// favorite. A refresh is broadcast so the feed picks up the new post.
func (s *WorkoutService) Publish(ctx context.Context, draft WorkoutDraft) (*domain.Workout, error) {
	wod, err := s.client.CreateWorkout(ctx, draft.Kind, draft.Note)
	if err != nil {
		return nil, err
	}

	if len(draft.Items) > 0 {
		updated, err := s.client.AttachExercises(ctx, wod.ID, draft.Items)
		if err != nil {
			return nil, err
		}
		if updated != nil {
			wod = updated
		}
	}

	if err := s.client.PublishWorkout(ctx, wod.ID, draft.AchievedSeconds, draft.ResultNote, draft.Favorite, draft.Date); err != nil {
		return nil, err
	}

	s.log.Info("workout published", "wod_id", wod.ID, "kind", draft.Kind)
	s.bus.Publish(domain.TopicFeedRefresh, nil)
	return wod, nil
}
