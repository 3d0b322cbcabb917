package normalize

import (
	"github.com/wodsocial/wodsocial-go/internal/domain"
)

// Workout item arrays arrive under three names depending on which
// endpoint produced the post: a flat items array, an ejercicios array,
// or wod_ejercicios link rows that nest the exercise under "ejercicio".
var workoutItemsPaths = []string{"items", "ejercicios", "wod_ejercicios"}

// Workout maps an embedded WOD payload to the canonical summary. Total;
// returns an empty summary for garbage input rather than failing.
func Workout(raw map[string]any, media Resolver) *domain.Workout {
	w := &domain.Workout{}
	if raw == nil {
		return w
	}

	w.ID, _ = firstInt(raw, "id_wod", "id", "wod_id")
	w.Kind, _ = firstString(raw, "tipo_wod", "workout_kind", "kind")

	if rounds, ok := firstInt(raw, "rondas_global", "global_rounds"); ok {
		w.GlobalRounds = rounds
		w.HasGlobalRounds = true
	}
	if secs, ok := firstInt(raw, "tiempo_realizado", "tiempo_realizado_segundos", "achieved_seconds"); ok {
		w.AchievedSeconds = secs
		w.HasAchievedTime = true
	}
	if note, ok := firstString(raw, "comentarios", "nota_usuario", "user_note"); ok {
		w.UserNote = cleanText(note)
	}

	if items, ok := subSlice(raw, workoutItemsPaths...); ok {
		w.Items = make([]domain.WorkoutItem, 0, len(items))
		for _, it := range items {
			itemRaw, _ := it.(map[string]any)
			w.Items = append(w.Items, workoutItem(itemRaw, media))
		}
	}

	return w
}

// workoutItem flattens one exercise row. Link rows keep their exercise
// data under a nested "ejercicio" object; both layouts resolve here.
func workoutItem(raw map[string]any, media Resolver) domain.WorkoutItem {
	var item domain.WorkoutItem
	if raw == nil {
		return item
	}

	item.ExerciseID, _ = firstInt(raw,
		"ejercicio_id", "exercise_id", "id", "ejercicio.id", "ejercicio.id_ejercicio")
	item.Name, _ = firstString(raw,
		"nombre", "name", "ejercicio.nombre", "ejercicio.name")

	if reps, ok := firstInt(raw, "repeticiones", "reps", "reps_totales"); ok {
		item.Reps = reps
		item.HasReps = true
	}
	if secs, ok := firstInt(raw, "tiempo_seg", "tiempo_segundos", "achieved_seconds"); ok {
		item.AchievedSeconds = secs
		item.HasAchievedTime = true
	}
	if img, ok := firstString(raw,
		"imagen_url", "imagen", "image_url", "ejercicio.imagen_url", "ejercicio.imagen"); ok {
		item.ImageURL = media.MediaURL(img)
	}

	return item
}

// Exercise maps a catalog entry from the exercise picker listing.
func Exercise(raw map[string]any, media Resolver) domain.Exercise {
	var e domain.Exercise
	if raw == nil {
		return e
	}

	e.ID, _ = firstInt(raw, "id", "id_ejercicio", "ejercicio_id")
	e.Name, _ = firstString(raw, "nombre", "name")
	if desc, ok := firstString(raw, "descripcion", "description"); ok {
		e.Description = cleanText(desc)
	}
	e.MuscleGroup, _ = firstString(raw, "grupo_muscular", "muscle_group")
	if img, ok := firstString(raw, "imagen_url", "imagen", "image_url"); ok {
		e.ImageURL = media.MediaURL(img)
	}
	e.VideoURL, _ = firstString(raw, "video_url", "video")
	return e
}
