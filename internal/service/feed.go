// Package service holds the screen-facing orchestration: each service
// owns one screen's state, talks to the API client, and keeps sibling
// screens in sync through the bus.
package service

import (
	"context"
	"sync"

	"github.com/wodsocial/wodsocial-go/internal/api"
	"github.com/wodsocial/wodsocial-go/internal/bus"
	"github.com/wodsocial/wodsocial-go/internal/cache"
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/feed"
	"github.com/wodsocial/wodsocial-go/internal/normalize"
	"github.com/wodsocial/wodsocial-go/internal/reconcile"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

// FeedService owns the home feed: paged posts, the per-day workout
// index, like toggles, and follow actions. All methods are safe for
// concurrent use.
type FeedService struct {
	client *api.Client
	bus    *bus.Bus
	store  cache.Store
	log    *logger.Logger

	mu       sync.Mutex
	state    feed.State
	identity domain.Identity
	loading  bool
	togglers map[int64]*reconcile.Toggler
	subs     []bus.Subscription
}

// NewFeedService wires the feed to the bus so likes and comments made
// from the post detail screen are reflected here without a refetch.
func NewFeedService(client *api.Client, b *bus.Bus, store cache.Store, log *logger.Logger) *FeedService {
	s := &FeedService{
		client:   client,
		bus:      b,
		store:    store,
		log:      log.WithComponent("feed"),
		state:    feed.NewState(),
		togglers: make(map[int64]*reconcile.Toggler),
	}
	s.subs = append(s.subs,
		b.Subscribe(domain.TopicLikeChanged, s.onLikeChanged),
		b.Subscribe(domain.TopicCommentCreated, s.onCommentCreated),
		b.Subscribe(domain.TopicProfileUpdated, s.onProfileUpdated),
	)
	return s
}

// Close detaches the service from the bus.
func (s *FeedService) Close() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
}

// State returns a snapshot of the current feed state.
func (s *FeedService) State() feed.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns what is known about the logged-in user.
func (s *FeedService) Identity() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Refresh reloads the feed from the first page. Concurrent calls
// collapse into one; the loser returns immediately with the state the
// winner is about to replace.
func (s *FeedService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	defer s.clearLoading()

	s.loadIdentity(ctx)

	page, err := s.client.FeedPage(ctx, 1)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = feed.AppendPage(s.state, page, true)
	s.resetTogglers()
	s.mu.Unlock()
	return nil
}

// LoadMore fetches the next page and appends it. No-op when a load is
// already running or the last page said there is nothing more.
func (s *FeedService) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.state.HasMore {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	next := s.state.Page + 1
	s.mu.Unlock()
	defer s.clearLoading()

	page, err := s.client.FeedPage(ctx, next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = feed.AppendPage(s.state, page, false)
	s.resetTogglers()
	s.mu.Unlock()
	return nil
}

func (s *FeedService) clearLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// resetTogglers re-seeds existing togglers from freshly fetched posts.
// Togglers with work still in flight keep their speculative state.
// Callers hold s.mu.
func (s *FeedService) resetTogglers() {
	for id, t := range s.togglers {
		for _, p := range s.state.Posts {
			if p.ID == id {
				t.Reset(reconcile.LikeState{Liked: p.LikedByMe, Count: p.LikeCount})
				break
			}
		}
	}
}

// WorkoutsOn returns the day's workout posts, restricted to the current
// user when their identity is known. day is a local-date key in the
// YYYY-MM-DD form.
func (s *FeedService) WorkoutsOn(day string) []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return feed.FilterByAuthor(s.state.ByDay[day], s.identity)
}

// ToggleLike flips the like on a post. The flip shows immediately; the
// round trip settles in the background and only the server-confirmed
// state is broadcast on the bus.
func (s *FeedService) ToggleLike(ctx context.Context, postID int64) {
	s.mu.Lock()
	t, ok := s.togglers[postID]
	if !ok {
		var initial reconcile.LikeState
		found := false
		for _, p := range s.state.Posts {
			if p.ID == postID {
				initial = reconcile.LikeState{Liked: p.LikedByMe, Count: p.LikeCount}
				found = true
				break
			}
		}
		if !found {
			s.mu.Unlock()
			s.log.Warn("like toggle on unknown post", "post_id", postID)
			return
		}
		t = reconcile.NewToggler(initial,
			func(ctx context.Context) (reconcile.LikeState, error) {
				res, err := s.client.ToggleLike(ctx, postID)
				if err != nil {
					return reconcile.LikeState{}, err
				}
				return reconcile.LikeState{Liked: res.Liked, Count: res.TotalLikes}, nil
			},
			func(state reconcile.LikeState, outcome reconcile.Outcome) {
				s.applyLike(postID, state)
				if outcome == reconcile.Reconciled {
					s.bus.Publish(domain.TopicLikeChanged, domain.LikeChanged{
						PostID:     postID,
						Liked:      state.Liked,
						TotalLikes: state.Count,
					})
				}
			})
		s.togglers[postID] = t
	}
	s.mu.Unlock()

	t.Toggle(ctx)
}

func (s *FeedService) applyLike(postID int64, state reconcile.LikeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Patch(postID, func(p *domain.Post) {
		p.LikedByMe = state.Liked
		p.LikeCount = state.Count
	})
}

// FollowAuthor follows the author of a post and marks every visible
// post by that author as followed. Following yourself is a no-op.
func (s *FeedService) FollowAuthor(ctx context.Context, post domain.Post) error {
	s.mu.Lock()
	id := s.identity
	s.mu.Unlock()

	if feed.AuthoredBy(post, id) {
		return nil
	}
	authorID := post.AuthorProfileID
	if authorID == 0 && post.Author != nil {
		authorID = post.Author.ProfileID
	}
	if authorID == 0 {
		return domain.ErrProfileNotFound
	}

	if err := s.client.Follow(ctx, authorID); err != nil {
		return err
	}

	s.mu.Lock()
	for _, p := range s.state.Posts {
		if p.AuthorProfileID == authorID || (p.Author != nil && p.Author.ProfileID == authorID) {
			s.state.Patch(p.ID, func(q *domain.Post) { q.FollowingAuthor = true })
		}
	}
	s.mu.Unlock()

	s.bus.Publish(domain.TopicFollowChanged, domain.FollowChanged{
		ProfileID: authorID,
		Following: true,
	})
	return nil
}

// loadIdentity resolves who is logged in: live from the API when it
// responds, else from the cached session, else from the cached profile.
// The feed stays usable, unfiltered, when all three miss.
func (s *FeedService) loadIdentity(ctx context.Context) {
	if me, err := s.client.Me(ctx); err == nil {
		if err := cache.SetJSON(ctx, s.store, cache.KeyAuthMe, me); err != nil {
			s.log.Warn("session cache write failed", "error", err)
		}
		s.setIdentity(normalize.Identity(me))
		return
	}

	var me map[string]any
	if err := cache.GetJSON(ctx, s.store, cache.KeyAuthMe, &me); err == nil {
		if id := normalize.Identity(me); id.Loaded() {
			s.setIdentity(id)
			return
		}
	}

	var p domain.Profile
	if err := cache.GetJSON(ctx, s.store, cache.KeyProfile, &p); err == nil {
		s.setIdentity(domain.Identity{ProfileID: p.ID, Nick: p.Nick})
		return
	}

	s.log.Debug("identity unresolved, feed stays unfiltered")
}

func (s *FeedService) setIdentity(id domain.Identity) {
	if !id.Loaded() {
		return
	}
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

func (s *FeedService) onLikeChanged(payload any) {
	ev, ok := payload.(domain.LikeChanged)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Patch(ev.PostID, func(p *domain.Post) {
		p.LikedByMe = ev.Liked
		p.LikeCount = ev.TotalLikes
	})
	if t, ok := s.togglers[ev.PostID]; ok {
		t.Reset(reconcile.LikeState{Liked: ev.Liked, Count: ev.TotalLikes})
	}
}

func (s *FeedService) onCommentCreated(payload any) {
	ev, ok := payload.(domain.CommentCreated)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Patch(ev.PostID, func(p *domain.Post) {
		p.CommentCount += ev.Delta
		if p.CommentCount < 0 {
			p.CommentCount = 0
		}
	})
}

func (s *FeedService) onProfileUpdated(payload any) {
	ev, ok := payload.(domain.ProfileUpdated)
	if !ok {
		return
	}
	s.setIdentity(domain.Identity{ProfileID: ev.Profile.ID, Nick: ev.Profile.Nick})
}
