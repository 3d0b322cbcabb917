package domain

import "time"

// Workout kinds as the backend reports them.
const (
	WorkoutFree  = "libre"
	WorkoutTimed = "tiempo"
	WorkoutAmrap = "amrap"
)

// Post is the canonical shape of a feed publication. A post is either a
// plain post (text plus optional media) or a workout post; Workout is
// nil for plain posts.
//
// Normalization is additive: Extra keeps every raw field from the
// server payload so callers migrating off legacy names can still read
// them.
type Post struct {
	ID                 int64          `json:"id"`
	AuthorProfileID    int64          `json:"author_profile_id,omitempty"`
	AuthorUserID       int64          `json:"author_user_id,omitempty"`
	Author             *PostAuthor    `json:"author,omitempty"`
	NoteText           string         `json:"note_text"`
	MediaURL           string         `json:"media_url,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	CreatedAtRaw       string         `json:"created_at_raw,omitempty"`
	LikeCount          int64          `json:"like_count"`
	LikedByMe          bool           `json:"liked_by_me"`
	CommentCount       int64          `json:"comment_count"`
	FollowingAuthor    bool           `json:"following_author"`
	Workout            *Workout       `json:"workout,omitempty"`
	AchievedSeconds    int64          `json:"achieved_seconds,omitempty"`
	AchievedSecondsFmt string         `json:"achieved_seconds_fmt,omitempty"`
	HasAchievedTime    bool           `json:"-"`
	Extra              map[string]any `json:"-"`
}

// PostAuthor is the embedded author snippet a post carries. Nil when the
// payload had neither a nested perfil object nor flat perfil_* columns.
type PostAuthor struct {
	ProfileID int64  `json:"profile_id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	Nick      string `json:"nick"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// IsWorkout discriminates workout posts. The backend populates the type
// tag inconsistently, so both signals are accepted: an embedded workout
// object or the "wod" tag. A tagged post with no embedded workout still
// counts as a workout for calendar purposes but renders as a plain post.
func (p *Post) IsWorkout() bool {
	if p.Workout != nil {
		return true
	}
	tag, _ := p.Extra["tipo_publicacion"].(string)
	if tag == "" {
		tag, _ = p.Extra["tipo"].(string)
	}
	return tag == "wod"
}

// Workout is the canonical WOD summary embedded in a workout post.
type Workout struct {
	ID              int64         `json:"id,omitempty"`
	Kind            string        `json:"kind"`
	GlobalRounds    int64         `json:"global_rounds,omitempty"`
	HasGlobalRounds bool          `json:"-"`
	Items           []WorkoutItem `json:"items"`
	AchievedSeconds int64         `json:"achieved_seconds,omitempty"`
	HasAchievedTime bool          `json:"-"`
	UserNote        string        `json:"user_note,omitempty"`
}

// Title returns the display name for the workout kind.
func (w *Workout) Title() string {
	switch w.Kind {
	case WorkoutFree:
		return "Entrenamiento libre"
	case WorkoutTimed:
		return "Rondas por tiempo"
	default:
		return "WOD"
	}
}

// WorkoutItem is one exercise line of a workout.
type WorkoutItem struct {
	ExerciseID      int64  `json:"exercise_id,omitempty"`
	Name            string `json:"name"`
	Reps            int64  `json:"reps,omitempty"`
	HasReps         bool   `json:"-"`
	AchievedSeconds int64  `json:"achieved_seconds,omitempty"`
	HasAchievedTime bool   `json:"-"`
	ImageURL        string `json:"image_url,omitempty"`
}

// Exercise is a catalog entry from the exercise picker.
type Exercise struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}
