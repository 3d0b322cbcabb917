package feed

import (
	"strings"

	"github.com/wodsocial/wodsocial-go/internal/domain"
)

// AuthoredBy reports whether a post belongs to the given identity.
// Match attempts run in fixed order (profile id, account id,
// case-insensitive nick) and the first one that can be compared wins.
func AuthoredBy(post domain.Post, id domain.Identity) bool {
	authorProfileID := post.AuthorProfileID
	authorUserID := post.AuthorUserID
	var authorNick string
	if post.Author != nil {
		if authorProfileID == 0 {
			authorProfileID = post.Author.ProfileID
		}
		if authorUserID == 0 {
			authorUserID = post.Author.UserID
		}
		authorNick = post.Author.Nick
	}

	if id.ProfileID != 0 && authorProfileID != 0 {
		return authorProfileID == id.ProfileID
	}
	if id.UserID != 0 && authorUserID != 0 {
		return authorUserID == id.UserID
	}
	if id.Nick != "" && authorNick != "" {
		return strings.EqualFold(authorNick, id.Nick)
	}
	return false
}

// FilterByAuthor narrows a day bucket to the identified user's posts.
// When identity has not resolved yet the bucket is returned whole:
// showing everything degrades better than filtering down to nothing.
func FilterByAuthor(entries []domain.Post, id domain.Identity) []domain.Post {
	if !id.Loaded() {
		return entries
	}

	own := make([]domain.Post, 0, len(entries))
	for _, post := range entries {
		if AuthoredBy(post, id) {
			own = append(own, post)
		}
	}
	return own
}
