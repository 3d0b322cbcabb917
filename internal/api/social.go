package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/normalize"
	"github.com/wodsocial/wodsocial-go/internal/validator"
)

// FeedPage fetches one page of the social feed, normalized.
func (c *Client) FeedPage(ctx context.Context, page int) (domain.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	path := fmt.Sprintf("/social/publicaciones/feed?per_page=%d&page=%d", c.feedPageSize, page)
	payload, err := c.do(ctx, request{method: http.MethodGet, path: path, authed: true})
	if err != nil {
		return domain.FeedPage{}, err
	}
	return normalize.FeedPage(payload, c.media, page, c.feedPageSize), nil
}

// Post fetches a single publication.
func (c *Client) Post(ctx context.Context, postID int64) (domain.Post, error) {
	if postID == 0 {
		return domain.Post{}, domain.ErrMissingPostID
	}
	raw, err := c.getMap(ctx, fmt.Sprintf("/social/publicaciones/%d", postID))
	if err != nil {
		return domain.Post{}, err
	}
	return normalize.Post(raw, c.media), nil
}

// ProfilePosts fetches a user's own publications.
func (c *Client) ProfilePosts(ctx context.Context, profileID int64, limit, offset int) ([]domain.Post, error) {
	if limit < 1 {
		limit = c.feedPageSize
	}
	path := fmt.Sprintf("/social/publicaciones/usuario/%d?limit=%d&offset=%d", profileID, limit, offset)
	payload, err := c.do(ctx, request{method: http.MethodGet, path: path, authed: true})
	if err != nil {
		return nil, err
	}

	items := unwrapList(payload)
	posts := make([]domain.Post, 0, len(items))
	for _, it := range items {
		raw, _ := it.(map[string]any)
		posts = append(posts, normalize.Post(raw, c.media))
	}
	return posts, nil
}

// Comments walks every comment page of a post. When a page fails
// mid-sequence, pagination stops and the comments gathered so far are
// returned alongside the error; partial data beats no data.
func (c *Client) Comments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if postID == 0 {
		return nil, domain.ErrMissingPostID
	}

	var all []domain.Comment

	// Hard page cap guards against a server that never stops paginating.
	const maxPages = 200

	for page := 1; page <= maxPages; page++ {
		path := fmt.Sprintf("/social/publicaciones/%d/comentarios?per_page=%d&page=%d",
			postID, c.commentPageSize, page)
		payload, err := c.do(ctx, request{method: http.MethodGet, path: path, authed: true})
		if err != nil {
			c.log.Warn("comment page failed, returning partial results",
				"post_id", postID, "page", page, "error", err)
			return all, err
		}

		all = append(all, normalize.Comments(unwrapList(payload), c.media)...)

		if !hasNextPage(payload) {
			break
		}
	}

	return all, nil
}

// hasNextPage checks the listing envelope for a continuation signal: a
// links.next URL first, then current_page/last_page metadata.
func hasNextPage(payload any) bool {
	m, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	if links, ok := m["links"].(map[string]any); ok {
		if next, ok := links["next"].(string); ok && next != "" {
			return true
		}
	}
	if meta, ok := m["meta"].(map[string]any); ok {
		current, okCur := meta["current_page"].(float64)
		last, okLast := meta["last_page"].(float64)
		return okCur && okLast && current < last
	}
	return false
}

// LikeState is the server's authoritative answer to a like toggle.
type LikeState struct {
	Liked      bool
	TotalLikes int64
}

// ToggleLike flips the caller's like on a post and returns the
// server-confirmed state.
func (c *Client) ToggleLike(ctx context.Context, postID int64) (LikeState, error) {
	if postID == 0 {
		return LikeState{}, domain.ErrMissingPostID
	}
	payload, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/social/likes/toggle",
		body:   map[string]any{"publicacion_id": postID},
		authed: true,
	})
	if err != nil {
		return LikeState{}, err
	}

	state := LikeState{}
	if m := unwrapObject(payload); m != nil {
		if liked, ok := m["liked"].(bool); ok {
			state.Liked = liked
		}
		if total, ok := m["total_likes"].(float64); ok {
			state.TotalLikes = int64(total)
		}
	}
	if state.TotalLikes < 0 {
		state.TotalLikes = 0
	}
	return state, nil
}

// CreatedComment is the result of posting a comment: the canonical
// comment the server minted plus, when sent, the post's new total.
type CreatedComment struct {
	Comment       domain.Comment
	TotalComments int64
	HasTotal      bool
}

// CreateComment submits a comment. There is no optimistic variant: the
// server generates the comment's identity, so the caller shows a sending
// indicator and appends only what comes back.
func (c *Client) CreateComment(ctx context.Context, create domain.CommentCreate) (CreatedComment, error) {
	if err := validator.ValidateStruct(create); err != nil {
		return CreatedComment{}, err
	}
	payload, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/social/comentarios",
		body:   create,
		authed: true,
	})
	if err != nil {
		return CreatedComment{}, err
	}

	result := CreatedComment{
		Comment: normalize.Comment(unwrapObject(payload), c.media),
	}
	if m, ok := payload.(map[string]any); ok {
		if meta, ok := m["meta"].(map[string]any); ok {
			if total, ok := meta["total_comentarios"].(float64); ok {
				result.TotalComments = int64(total)
				result.HasTotal = true
			}
		}
	}
	return result, nil
}

// Follow starts following a profile.
func (c *Client) Follow(ctx context.Context, profileID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/usuarios/%d/seguir", profileID),
		authed: true,
	})
	return err
}

// Unfollow stops following a profile.
func (c *Client) Unfollow(ctx context.Context, profileID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/usuarios/%d/dejarDeSeguirUsuario", profileID),
		authed: true,
	})
	return err
}
