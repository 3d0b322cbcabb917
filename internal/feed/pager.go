// Package feed accumulates paginated feed pages into the view state one
// screen owns: a flat, append-ordered post list plus a calendar index of
// workout posts. State values are treated as immutable; AppendPage
// returns a new one.
package feed

import (
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/timeutil"
)

// State is the accumulated feed for one screen.
type State struct {
	// Posts in server order. No client-side re-sorting.
	Posts []domain.Post

	// ByDay buckets workout posts by local calendar day (YYYY-MM-DD).
	// Buckets grow as pages arrive; they are only cleared on reset.
	ByDay map[string][]domain.Post

	// Page is the last committed page number.
	Page int

	// HasMore reports whether another page should be requested.
	HasMore bool

	seen map[int64]bool
}

// NewState returns an empty feed state that assumes more pages exist.
func NewState() State {
	return State{
		ByDay:   map[string][]domain.Post{},
		HasMore: true,
		seen:    map[int64]bool{},
	}
}

// AppendPage incorporates one fetched page. On reset the list and day
// index are cleared first; otherwise new posts append after existing
// ones, keeping server order. Posts already present (by id) are skipped
// so overlapping pages cannot duplicate entries.
func AppendPage(prev State, page domain.FeedPage, reset bool) State {
	next := State{
		Posts:   prev.Posts,
		ByDay:   prev.ByDay,
		Page:    page.RequestedPage,
		HasMore: page.HasMore(),
		seen:    prev.seen,
	}

	if reset || page.RequestedPage <= 1 {
		next.Posts = nil
		next.ByDay = map[string][]domain.Post{}
		next.seen = map[int64]bool{}
	} else {
		next.Posts = append([]domain.Post(nil), prev.Posts...)
		next.ByDay = copyIndex(prev.ByDay)
		next.seen = copySeen(prev.seen)
	}

	for _, post := range page.Posts {
		if post.ID != 0 {
			if next.seen[post.ID] {
				continue
			}
			next.seen[post.ID] = true
		}
		next.Posts = append(next.Posts, post)
		indexWorkout(next.ByDay, post)
	}

	return next
}

// indexWorkout adds a workout post to its day bucket. Posts with an
// unparseable creation date stay in the flat list but never reach the
// calendar.
func indexWorkout(byDay map[string][]domain.Post, post domain.Post) {
	if !post.IsWorkout() {
		return
	}
	if post.CreatedAt.IsZero() {
		return
	}
	key := timeutil.DayKey(post.CreatedAt)
	byDay[key] = append(byDay[key], post)
}

// Patch applies an in-place update to the post with the given id,
// mirroring it into any day bucket holding the same post. Reports
// whether a post matched.
func (s *State) Patch(postID int64, apply func(*domain.Post)) bool {
	if postID == 0 || apply == nil {
		return false
	}

	found := false
	for i := range s.Posts {
		if s.Posts[i].ID == postID {
			apply(&s.Posts[i])
			found = true
		}
	}
	for _, bucket := range s.ByDay {
		for i := range bucket {
			if bucket[i].ID == postID {
				apply(&bucket[i])
			}
		}
	}
	return found
}

func copyIndex(src map[string][]domain.Post) map[string][]domain.Post {
	dst := make(map[string][]domain.Post, len(src))
	for k, v := range src {
		dst[k] = append([]domain.Post(nil), v...)
	}
	return dst
}

func copySeen(src map[int64]bool) map[int64]bool {
	dst := make(map[int64]bool, len(src))
	for k := range src {
		dst[k] = true
	}
	return dst
}
