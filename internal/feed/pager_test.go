package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/timeutil"
)

func post(id int64) domain.Post {
	return domain.Post{ID: id, NoteText: fmt.Sprintf("post %d", id)}
}

func workoutPost(id int64, created time.Time) domain.Post {
	return domain.Post{
		ID:        id,
		CreatedAt: created,
		Workout:   &domain.Workout{ID: id * 100, Kind: domain.WorkoutFree},
	}
}

func page(posts []domain.Post, requested, size int, meta domain.PageMeta) domain.FeedPage {
	return domain.FeedPage{Posts: posts, Meta: meta, RequestedPage: requested, PageSize: size}
}

func TestAppendPageAccumulates(t *testing.T) {
	s := NewState()

	first := make([]domain.Post, 0, 20)
	for i := int64(1); i <= 20; i++ {
		first = append(first, post(i))
	}
	s = AppendPage(s, page(first, 1, 20, domain.PageMeta{Page: 1, PerPage: 20, Count: 25}), true)

	assert.Len(t, s.Posts, 20)
	assert.Equal(t, 1, s.Page)
	assert.True(t, s.HasMore)

	second := make([]domain.Post, 0, 5)
	for i := int64(21); i <= 25; i++ {
		second = append(second, post(i))
	}
	s = AppendPage(s, page(second, 2, 20, domain.PageMeta{Page: 2, PerPage: 20, Count: 25}), false)

	assert.Len(t, s.Posts, 25)
	assert.Equal(t, 2, s.Page)
	assert.False(t, s.HasMore, "page 2 of 25/20 is the last")
	assert.Equal(t, int64(1), s.Posts[0].ID, "server order preserved")
	assert.Equal(t, int64(25), s.Posts[24].ID)
}

func TestAppendPageDeduplicates(t *testing.T) {
	s := NewState()
	s = AppendPage(s, page([]domain.Post{post(1), post(2)}, 1, 2, domain.PageMeta{}), true)
	// The server shifted between fetches; page 2 re-sends post 2.
	s = AppendPage(s, page([]domain.Post{post(2), post(3)}, 2, 2, domain.PageMeta{}), false)

	require.Len(t, s.Posts, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{s.Posts[0].ID, s.Posts[1].ID, s.Posts[2].ID})
}

func TestAppendPageReset(t *testing.T) {
	s := NewState()
	s = AppendPage(s, page([]domain.Post{post(1), post(2)}, 1, 2, domain.PageMeta{}), true)
	s = AppendPage(s, page([]domain.Post{post(3)}, 1, 2, domain.PageMeta{}), true)

	require.Len(t, s.Posts, 1)
	assert.Equal(t, int64(3), s.Posts[0].ID)
}

func TestAppendPageFirstPageAlwaysResets(t *testing.T) {
	s := NewState()
	s = AppendPage(s, page([]domain.Post{post(1)}, 1, 2, domain.PageMeta{}), false)
	s = AppendPage(s, page([]domain.Post{post(2)}, 1, 2, domain.PageMeta{}), false)

	require.Len(t, s.Posts, 1)
	assert.Equal(t, int64(2), s.Posts[0].ID)
}

func TestAppendPageZeroIDPostsKept(t *testing.T) {
	s := NewState()
	s = AppendPage(s, page([]domain.Post{post(0), post(0)}, 1, 20, domain.PageMeta{}), true)
	assert.Len(t, s.Posts, 2, "malformed posts without ids never dedup against each other")
}

func TestDayIndex(t *testing.T) {
	day1 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 15, 9, 0, 0, 0, time.Local)

	s := NewState()
	s = AppendPage(s, page([]domain.Post{
		workoutPost(1, day1),
		post(2), // plain post, never indexed
		workoutPost(3, day1),
		workoutPost(4, day2),
	}, 1, 20, domain.PageMeta{}), true)

	k1 := timeutil.DayKey(day1)
	k2 := timeutil.DayKey(day2)
	require.Len(t, s.ByDay[k1], 2)
	require.Len(t, s.ByDay[k2], 1)
	assert.Equal(t, int64(1), s.ByDay[k1][0].ID)
	assert.Equal(t, int64(3), s.ByDay[k1][1].ID)
}

func TestDayIndexGrowsAcrossPages(t *testing.T) {
	day := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)
	key := timeutil.DayKey(day)

	s := NewState()
	s = AppendPage(s, page([]domain.Post{workoutPost(1, day)}, 1, 1, domain.PageMeta{}), true)
	s = AppendPage(s, page([]domain.Post{workoutPost(2, day.Add(time.Hour))}, 2, 1, domain.PageMeta{}), false)

	assert.Len(t, s.ByDay[key], 2, "buckets union across pages")
}

func TestDayIndexSkipsUndatedWorkouts(t *testing.T) {
	s := NewState()
	undated := domain.Post{ID: 1, Workout: &domain.Workout{ID: 100}}
	s = AppendPage(s, page([]domain.Post{undated}, 1, 20, domain.PageMeta{}), true)

	assert.Len(t, s.Posts, 1)
	assert.Empty(t, s.ByDay)
}

func TestPatchMirrorsIntoDayBuckets(t *testing.T) {
	day := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)
	key := timeutil.DayKey(day)

	s := NewState()
	s = AppendPage(s, page([]domain.Post{workoutPost(1, day)}, 1, 20, domain.PageMeta{}), true)

	ok := s.Patch(1, func(p *domain.Post) { p.LikeCount = 9; p.LikedByMe = true })
	assert.True(t, ok)
	assert.Equal(t, int64(9), s.Posts[0].LikeCount)
	assert.Equal(t, int64(9), s.ByDay[key][0].LikeCount)
	assert.True(t, s.ByDay[key][0].LikedByMe)

	assert.False(t, s.Patch(42, func(p *domain.Post) {}))
	assert.False(t, s.Patch(0, func(p *domain.Post) {}))
}

func TestTwoPageScenario(t *testing.T) {
	today := time.Now()
	key := timeutil.DayKey(today)

	first := make([]domain.Post, 0, 20)
	for i := int64(1); i <= 20; i++ {
		if i <= 3 {
			first = append(first, workoutPost(i, today))
			continue
		}
		first = append(first, post(i))
	}
	s := AppendPage(NewState(), page(first, 1, 20, domain.PageMeta{}), true)
	assert.True(t, s.HasMore, "a full page with no metadata means keep going")
	assert.Len(t, s.ByDay[key], 3)

	second := make([]domain.Post, 0, 5)
	for i := int64(21); i <= 25; i++ {
		second = append(second, workoutPost(i, today))
	}
	s = AppendPage(s, page(second, 2, 20, domain.PageMeta{}), false)

	assert.Len(t, s.Posts, 25)
	assert.False(t, s.HasMore, "a short page with no metadata means the end")
	assert.Len(t, s.ByDay[key], 8, "the day bucket is unioned, not replaced")
	for i, p := range s.Posts {
		assert.Equal(t, int64(i+1), p.ID, "server order preserved across pages")
	}
}

func TestAppendPageDoesNotMutatePrev(t *testing.T) {
	s1 := NewState()
	s1 = AppendPage(s1, page([]domain.Post{post(1)}, 1, 1, domain.PageMeta{}), true)
	s2 := AppendPage(s1, page([]domain.Post{post(2)}, 2, 1, domain.PageMeta{}), false)

	assert.Len(t, s1.Posts, 1)
	assert.Len(t, s2.Posts, 2)
}

func TestAuthoredBy(t *testing.T) {
	byProfile := domain.Post{ID: 1, AuthorProfileID: 12}
	byUser := domain.Post{ID: 2, AuthorUserID: 40}
	byNick := domain.Post{ID: 3, Author: &domain.PostAuthor{Nick: "Ana"}}

	id := domain.Identity{ProfileID: 12, UserID: 40, Nick: "ana"}
	assert.True(t, AuthoredBy(byProfile, id))
	assert.True(t, AuthoredBy(byUser, id))
	assert.True(t, AuthoredBy(byNick, id), "nick comparison is case-insensitive")

	assert.False(t, AuthoredBy(domain.Post{ID: 4, AuthorProfileID: 99}, id))
	assert.False(t, AuthoredBy(domain.Post{ID: 5}, id), "nothing comparable")
}

func TestAuthoredByPrecedence(t *testing.T) {
	// A profile-id mismatch decides even when the nick would match.
	p := domain.Post{ID: 1, AuthorProfileID: 99, Author: &domain.PostAuthor{Nick: "ana"}}
	id := domain.Identity{ProfileID: 12, Nick: "ana"}
	assert.False(t, AuthoredBy(p, id))
}

func TestAuthoredByFallsBackToAuthorSnippet(t *testing.T) {
	p := domain.Post{ID: 1, Author: &domain.PostAuthor{ProfileID: 12}}
	assert.True(t, AuthoredBy(p, domain.Identity{ProfileID: 12}))
}

func TestFilterByAuthor(t *testing.T) {
	entries := []domain.Post{
		{ID: 1, AuthorProfileID: 12},
		{ID: 2, AuthorProfileID: 99},
		{ID: 3, AuthorProfileID: 12},
	}

	own := FilterByAuthor(entries, domain.Identity{ProfileID: 12})
	require.Len(t, own, 2)
	assert.Equal(t, int64(1), own[0].ID)
	assert.Equal(t, int64(3), own[1].ID)
}

func TestFilterByAuthorUnloadedIdentity(t *testing.T) {
	entries := []domain.Post{{ID: 1, AuthorProfileID: 12}, {ID: 2, AuthorProfileID: 99}}
	assert.Equal(t, entries, FilterByAuthor(entries, domain.Identity{}),
		"unresolved identity shows everything rather than nothing")
}
