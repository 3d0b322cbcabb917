package service

import (
	"context"
	"strings"
	"sync"

	"github.com/wodsocial/wodsocial-go/internal/api"
	"github.com/wodsocial/wodsocial-go/internal/bus"
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/reconcile"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

// PostService owns the post detail screen: the post itself, its full
// comment thread, the like toggle, and comment submission.
type PostService struct {
	client *api.Client
	bus    *bus.Bus
	log    *logger.Logger

	mu       sync.Mutex
	post     domain.Post
	comments []domain.Comment
	toggler  *reconcile.Toggler
	subs     []bus.Subscription
}

// NewPostService creates a detail service and keeps it in sync with
// like changes broadcast by other screens.
func NewPostService(client *api.Client, b *bus.Bus, log *logger.Logger) *PostService {
	s := &PostService{
		client: client,
		bus:    b,
		log:    log.WithComponent("post-detail"),
	}
	s.subs = append(s.subs, b.Subscribe(domain.TopicLikeChanged, s.onLikeChanged))
	return s
}

// Close detaches the service from the bus.
func (s *PostService) Close() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub)
	}
}

// Seed pre-populates the screen from a list item so it renders before
// the detail fetch lands.
func (s *PostService) Seed(post domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post = post
	s.seedToggler()
}

// Post returns the current post snapshot.
func (s *PostService) Post() domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.post
}

// Comments returns the loaded comment thread.
func (s *PostService) Comments() []domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// Load fetches the post detail. Server fields overwrite the seeded copy
// field by field; seeded fields the detail payload omits survive, so a
// sparse detail response cannot blank out what the list already showed.
func (s *PostService) Load(ctx context.Context, postID int64) error {
	if postID == 0 {
		return domain.ErrMissingPostID
	}
	fetched, err := s.client.Post(ctx, postID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.post = mergePost(s.post, fetched)
	s.seedToggler()
	return nil
}

// mergePost overlays fetched onto seed, keeping seeded values where the
// detail payload came back empty.
func mergePost(seed, fetched domain.Post) domain.Post {
	if seed.ID != 0 && seed.ID != fetched.ID {
		return fetched
	}
	out := fetched
	if out.NoteText == "" {
		out.NoteText = seed.NoteText
	}
	if out.MediaURL == "" {
		out.MediaURL = seed.MediaURL
	}
	if out.Author == nil {
		out.Author = seed.Author
	}
	if out.AuthorProfileID == 0 {
		out.AuthorProfileID = seed.AuthorProfileID
	}
	if out.AuthorUserID == 0 {
		out.AuthorUserID = seed.AuthorUserID
	}
	if out.Workout == nil {
		out.Workout = seed.Workout
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = seed.CreatedAt
		out.CreatedAtRaw = seed.CreatedAtRaw
	}
	return out
}

// LoadComments fetches the full thread. A mid-walk failure still keeps
// the pages that did arrive, alongside the error.
func (s *PostService) LoadComments(ctx context.Context) error {
	s.mu.Lock()
	postID := s.post.ID
	s.mu.Unlock()
	if postID == 0 {
		return domain.ErrMissingPostID
	}

	comments, err := s.client.Comments(ctx, postID)

	s.mu.Lock()
	if len(comments) > 0 || err == nil {
		s.comments = comments
	}
	s.mu.Unlock()
	return err
}

// ToggleLike flips the like on the displayed post. Settled states reach
// other screens through the bus; speculative flips stay local.
func (s *PostService) ToggleLike(ctx context.Context) {
	s.mu.Lock()
	t := s.toggler
	s.mu.Unlock()
	if t == nil {
		s.log.Warn("like toggle before post loaded")
		return
	}
	t.Toggle(ctx)
}

// seedToggler builds or re-seeds the toggler from the current post.
// Callers hold s.mu.
func (s *PostService) seedToggler() {
	state := reconcile.LikeState{Liked: s.post.LikedByMe, Count: s.post.LikeCount}
	if s.toggler != nil {
		s.toggler.Reset(state)
		return
	}
	postID := s.post.ID
	s.toggler = reconcile.NewToggler(state,
		func(ctx context.Context) (reconcile.LikeState, error) {
			res, err := s.client.ToggleLike(ctx, postID)
			if err != nil {
				return reconcile.LikeState{}, err
			}
			return reconcile.LikeState{Liked: res.Liked, Count: res.TotalLikes}, nil
		},
		func(state reconcile.LikeState, outcome reconcile.Outcome) {
			s.applyLike(state)
			if outcome == reconcile.Reconciled {
				s.bus.Publish(domain.TopicLikeChanged, domain.LikeChanged{
					PostID:     postID,
					Liked:      state.Liked,
					TotalLikes: state.Count,
				})
			}
		})
}

func (s *PostService) applyLike(state reconcile.LikeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post.LikedByMe = state.Liked
	s.post.LikeCount = state.Count
}

// SubmitComment sends one comment and appends it once the server has
// accepted it. There is no speculative append: a failed submit leaves
// the thread untouched and the composer keeps its text.
func (s *PostService) SubmitComment(ctx context.Context, text string) (domain.Comment, error) {
	s.mu.Lock()
	postID := s.post.ID
	s.mu.Unlock()
	if postID == 0 {
		return domain.Comment{}, domain.ErrMissingPostID
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, domain.ErrValidationFailed
	}

	created, err := s.client.CreateComment(ctx, domain.CommentCreate{PostID: postID, Text: text})
	if err != nil {
		return domain.Comment{}, err
	}

	s.mu.Lock()
	s.comments = append(s.comments, created.Comment)
	if created.HasTotal {
		s.post.CommentCount = created.TotalComments
	} else {
		s.post.CommentCount++
	}
	s.mu.Unlock()

	s.bus.Publish(domain.TopicCommentCreated, domain.CommentCreated{PostID: postID, Delta: 1})
	return created.Comment, nil
}

func (s *PostService) onLikeChanged(payload any) {
	ev, ok := payload.(domain.LikeChanged)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.post.ID != ev.PostID {
		return
	}
	s.post.LikedByMe = ev.Liked
	s.post.LikeCount = ev.TotalLikes
	if s.toggler != nil {
		s.toggler.Reset(reconcile.LikeState{Liked: ev.Liked, Count: ev.TotalLikes})
	}
}
