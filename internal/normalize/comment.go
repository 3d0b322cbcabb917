package normalize

import (
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/timeutil"
)

var (
	commentIDPaths      = []string{"id", "id_comentario"}
	commentPostIDPaths  = []string{"publicacion_id", "post_id"}
	commentTextPaths    = []string{"texto", "contenido", "text"}
	commentCreatedPaths = []string{"fecha", "created_at", "created_at_raw"}
)

// Comment maps a comment payload to the canonical form. The author is
// read from "autor" first, then "perfil". A post id that fails to parse
// leaves PostID at zero: the comment is orphaned, not invalid.
func Comment(raw map[string]any, media Resolver) domain.Comment {
	var c domain.Comment
	c.Author.Nick = "Usuario"
	if raw == nil {
		return c
	}

	c.ID, _ = firstInt(raw, commentIDPaths...)
	c.PostID, _ = firstInt(raw, commentPostIDPaths...)

	if txt, ok := firstString(raw, commentTextPaths...); ok {
		c.Text = cleanText(txt)
	}
	if created, ok := firstString(raw, commentCreatedPaths...); ok {
		c.CreatedAtRaw = created
		if t, ok := timeutil.ParseServer(created); ok {
			c.CreatedAt = t
		}
	}

	c.Author.ProfileID, _ = firstInt(raw,
		"autor.id_perfil", "perfil.id_perfil", "author.profile_id")
	if nick, ok := firstString(raw, "autor.nick", "perfil.nick", "author.nick"); ok {
		c.Author.Nick = nick
	}
	if avatar, ok := firstString(raw,
		"autor.url_avatar", "perfil.url_avatar", "author.avatar_url"); ok {
		c.Author.AvatarURL = media.MediaURL(avatar)
	}

	return c
}

// Comments normalizes a slice of comment payloads, skipping non-object
// entries.
func Comments(items []any, media Resolver) []domain.Comment {
	out := make([]domain.Comment, 0, len(items))
	for _, it := range items {
		raw, _ := it.(map[string]any)
		out = append(out, Comment(raw, media))
	}
	return out
}
