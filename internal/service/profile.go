package service

import (
	"context"
	"sync"

	"github.com/wodsocial/wodsocial-go/internal/api"
	"github.com/wodsocial/wodsocial-go/internal/bus"
	"github.com/wodsocial/wodsocial-go/internal/cache"
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/normalize"
	"github.com/wodsocial/wodsocial-go/internal/reconcile"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

const profilePostsPageSize = 20

// ProfileService owns the profile screen: the logged-in user's profile,
// their post grid, profile edits, and follow state on other profiles.
// Cached copies render first; the network refresh overwrites them.
type ProfileService struct {
	client *api.Client
	bus    *bus.Bus
	store  cache.Store
	log    *logger.Logger

	mu         sync.Mutex
	profile    domain.Profile
	posts      []domain.Post
	localities []domain.Locality
}

// NewProfileService creates a profile service.
func NewProfileService(client *api.Client, b *bus.Bus, store cache.Store, log *logger.Logger) *ProfileService {
	return &ProfileService{
		client: client,
		bus:    b,
		store:  store,
		log:    log.WithComponent("profile"),
	}
}

// Profile returns the current profile snapshot.
func (s *ProfileService) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Posts returns the loaded post grid.
func (s *ProfileService) Posts() []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Load shows the cached profile and grid immediately, then refreshes
// from the network. A refresh failure with a warm cache is not an
// error; the screen just keeps showing the cached copy.
func (s *ProfileService) Load(ctx context.Context) error {
	warm := s.loadCached(ctx)
	if err := s.Refresh(ctx); err != nil {
		if warm {
			s.log.Warn("profile refresh failed, serving cache", "error", err)
			return nil
		}
		return err
	}
	return nil
}

func (s *ProfileService) loadCached(ctx context.Context) bool {
	warm := false
	var p domain.Profile
	if err := cache.GetJSON(ctx, s.store, cache.KeyProfile, &p); err == nil && p.ID != 0 {
		s.mu.Lock()
		s.profile = p
		s.mu.Unlock()
		warm = true
	}
	var posts []domain.Post
	if err := cache.GetJSON(ctx, s.store, cache.KeyProfilePosts, &posts); err == nil && len(posts) > 0 {
		s.mu.Lock()
		s.posts = posts
		s.mu.Unlock()
	}
	return warm
}

// Refresh fetches the profile and its post grid and overwrites both the
// screen and the cache wholesale.
func (s *ProfileService) Refresh(ctx context.Context) error {
	me, err := s.client.Me(ctx)
	if err != nil {
		return err
	}
	profile := normalize.Profile(me, s.client.Media())
	s.enrichLocality(ctx, &profile)

	posts, err := s.client.ProfilePosts(ctx, profile.ID, profilePostsPageSize, 0)
	if err != nil {
		s.log.Warn("profile posts fetch failed", "error", err)
		posts = nil
	}

	s.mu.Lock()
	s.profile = profile
	if posts != nil {
		s.posts = posts
	}
	s.mu.Unlock()

	if err := cache.SetJSON(ctx, s.store, cache.KeyProfile, profile); err != nil {
		s.log.Warn("profile cache write failed", "error", err)
	}
	if posts != nil {
		if err := cache.SetJSON(ctx, s.store, cache.KeyProfilePosts, posts); err != nil {
			s.log.Warn("profile posts cache write failed", "error", err)
		}
	}
	return nil
}

// enrichLocality fills in the locality name from the cached catalog
// when the profile payload only carried the id.
func (s *ProfileService) enrichLocality(ctx context.Context, p *domain.Profile) {
	if p.LocalityID == 0 || p.LocalityName != "" {
		return
	}
	locs, err := s.Localities(ctx)
	if err != nil {
		return
	}
	for _, l := range locs {
		if l.ID == p.LocalityID {
			p.LocalityName = l.Name
			return
		}
	}
}

// Localities returns the locality catalog, cached across sessions. The
// catalog changes rarely, so a warm cache short-circuits the fetch.
func (s *ProfileService) Localities(ctx context.Context) ([]domain.Locality, error) {
	s.mu.Lock()
	if len(s.localities) > 0 {
		out := s.localities
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	var cached []domain.Locality
	if err := cache.GetJSON(ctx, s.store, cache.KeyLocalities, &cached); err == nil && len(cached) > 0 {
		s.mu.Lock()
		s.localities = cached
		s.mu.Unlock()
		return cached, nil
	}

	locs, err := s.client.Localities(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.localities = locs
	s.mu.Unlock()
	if err := cache.SetJSON(ctx, s.store, cache.KeyLocalities, locs); err != nil {
		s.log.Warn("locality cache write failed", "error", err)
	}
	return locs, nil
}

// Edit applies a profile edit optimistically: the screen and cache show
// the new values before the request settles, and a rejected request
// restores the snapshot everywhere it was written.
func (s *ProfileService) Edit(ctx context.Context, edit domain.ProfileEdit) error {
	s.mu.Lock()
	tr := reconcile.Begin(s.profile)
	applyEdit(&s.profile, edit)
	speculative := s.profile
	s.mu.Unlock()

	if err := cache.SetJSON(ctx, s.store, cache.KeyProfile, speculative); err != nil {
		s.log.Warn("profile cache write failed", "error", err)
	}

	updated, err := s.client.UpdateProfile(ctx, edit)
	if err != nil {
		prev := tr.Rollback()
		s.mu.Lock()
		s.profile = prev
		s.mu.Unlock()
		if cerr := cache.SetJSON(ctx, s.store, cache.KeyProfile, prev); cerr != nil {
			s.log.Warn("profile cache restore failed", "error", cerr)
		}
		return err
	}

	tr.Reconcile()
	if updated.ID == 0 {
		// Sparse success response; the speculative copy stands.
		updated = speculative
	}
	s.enrichLocality(ctx, &updated)

	s.mu.Lock()
	s.profile = updated
	s.mu.Unlock()
	if err := cache.SetJSON(ctx, s.store, cache.KeyProfile, updated); err != nil {
		s.log.Warn("profile cache write failed", "error", err)
	}

	s.bus.Publish(domain.TopicProfileUpdated, domain.ProfileUpdated{Profile: updated})
	return nil
}

func applyEdit(p *domain.Profile, edit domain.ProfileEdit) {
	if edit.Nick != "" {
		p.Nick = edit.Nick
	}
	if edit.Bio != "" {
		p.Bio = edit.Bio
	}
	if edit.AvatarURL != "" {
		p.AvatarURL = edit.AvatarURL
	}
	if edit.HeaderURL != "" {
		p.HeaderURL = edit.HeaderURL
	}
	if edit.LocalityID != 0 {
		p.LocalityID = edit.LocalityID
		p.LocalityName = ""
	}
}

// SetFollowing toggles follow on another profile with an optimistic
// follower count on this screen. The count clamps at zero; a failed
// request restores the snapshot.
func (s *ProfileService) SetFollowing(ctx context.Context, profileID int64, follow bool) error {
	if profileID == 0 {
		return domain.ErrProfileNotFound
	}
	s.mu.Lock()
	if s.profile.ID == profileID {
		s.mu.Unlock()
		return nil
	}
	tr := reconcile.Begin(s.profile)
	if follow {
		s.profile.FollowingCount++
	} else if s.profile.FollowingCount > 0 {
		s.profile.FollowingCount--
	}
	s.mu.Unlock()

	var err error
	if follow {
		err = s.client.Follow(ctx, profileID)
	} else {
		err = s.client.Unfollow(ctx, profileID)
	}
	if err != nil {
		prev := tr.Rollback()
		s.mu.Lock()
		s.profile = prev
		s.mu.Unlock()
		return err
	}
	tr.Reconcile()

	s.bus.Publish(domain.TopicFollowChanged, domain.FollowChanged{
		ProfileID: profileID,
		Following: follow,
	})
	return nil
}

// RememberLoginEmail stores the email used to sign in so the login form
// can prefill it next launch.
func (s *ProfileService) RememberLoginEmail(ctx context.Context, email string) error {
	return s.store.Set(ctx, cache.KeyLoginEmail, email)
}

// LastLoginEmail returns the remembered login email, empty when none.
func (s *ProfileService) LastLoginEmail(ctx context.Context) string {
	v, err := s.store.Get(ctx, cache.KeyLoginEmail)
	if err != nil {
		return ""
	}
	return v
}
