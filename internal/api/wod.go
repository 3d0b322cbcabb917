package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/normalize"
)

// CreateWorkout creates an empty WOD plan of the given kind ("libre",
// "tiempo" or "amrap"; the backend validates the tag).
func (c *Client) CreateWorkout(ctx context.Context, kind, note string) (*domain.Workout, error) {
	payload, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/wods",
		body:   map[string]any{"tipo_wod": kind, "comentarios": note},
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	w := normalize.Workout(unwrapObject(payload), c.media)
	if w.ID == 0 {
		return nil, domain.ErrMissingWODID
	}
	return w, nil
}

// AttachItem is one exercise row to attach to a WOD plan.
type AttachItem struct {
	ExerciseID int64  `json:"ejercicio_id"`
	Order      int    `json:"orden"`
	Rounds     *int64 `json:"rondas"`
	Reps       *int64 `json:"repeticiones"`
	Seconds    *int64 `json:"tiempo_segundos"`
}

// AttachExercises adds exercise rows to a WOD plan and returns the
// updated plan.
func (c *Client) AttachExercises(ctx context.Context, wodID int64, items []AttachItem) (*domain.Workout, error) {
	if wodID == 0 {
		return nil, domain.ErrMissingWODID
	}
	payload, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/wods/%d/ejercicios", wodID),
		body:   map[string]any{"items": items},
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return normalize.Workout(unwrapObject(payload), c.media), nil
}

// SaveWorkoutResult records the achieved time and note for a WOD. Only
// fields with content go on the wire.
func (c *Client) SaveWorkoutResult(ctx context.Context, wodID int64, achievedSeconds *int64, note string) error {
	if wodID == 0 {
		return domain.ErrMissingWODID
	}

	body := map[string]any{}
	if achievedSeconds != nil && *achievedSeconds >= 0 {
		body["tiempo_realizado"] = *achievedSeconds
	}
	if note != "" {
		body["comentarios"] = note
	}

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/wods/%d/resultado", wodID),
		body:   body,
		authed: true,
	})
	return err
}

// MarkCalendar records a workout on the training calendar.
func (c *Client) MarkCalendar(ctx context.Context, wodID int64, date time.Time) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/calendario/entrenamientos",
		body:   map[string]any{"wod_id": wodID, "fecha": date.Format("2006-01-02")},
		authed: true,
	})
	return err
}

// SaveFavoriteWorkout bookmarks a WOD.
func (c *Client) SaveFavoriteWorkout(ctx context.Context, wodID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/favoritos",
		body:   map[string]any{"tipo": "wod", "referencia_id": wodID},
		authed: true,
	})
	return err
}

// PublishWorkout saves the result and then attempts the calendar mark
// and favorite as side effects. The side calls are best-effort: the
// publish succeeds as long as the result itself was stored. A zero date
// marks the calendar for today.
func (c *Client) PublishWorkout(ctx context.Context, wodID int64, achievedSeconds *int64, note string, favorite bool, date time.Time) error {
	if err := c.SaveWorkoutResult(ctx, wodID, achievedSeconds, note); err != nil {
		return err
	}

	if date.IsZero() {
		date = time.Now()
	}
	if err := c.MarkCalendar(ctx, wodID, date); err != nil {
		c.log.Warn("calendar mark failed after publish", "wod_id", wodID, "error", err)
	}
	if favorite {
		if err := c.SaveFavoriteWorkout(ctx, wodID); err != nil {
			c.log.Warn("favorite save failed after publish", "wod_id", wodID, "error", err)
		}
	}
	return nil
}

// Exercises fetches the exercise catalog for the picker.
func (c *Client) Exercises(ctx context.Context) ([]domain.Exercise, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: "/ejercicios", authed: true})
	if err != nil {
		return nil, err
	}

	items := unwrapList(payload)
	exercises := make([]domain.Exercise, 0, len(items))
	for _, it := range items {
		raw, _ := it.(map[string]any)
		exercises = append(exercises, normalize.Exercise(raw, c.media))
	}
	return exercises, nil
}
