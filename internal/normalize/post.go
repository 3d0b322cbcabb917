package normalize

import (
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/timeutil"
)

// Alias precedence per canonical post field.
var (
	postIDPaths = []string{
		"id_publicacion", "id", "publicacion_id", "post_id",
	}
	postAuthorProfilePaths = []string{
		"perfil_id", "autor_perfil_id", "author_profile_id",
		"perfil.id_perfil", "perfil.perfil_id", "perfil.id",
	}
	postAuthorUserPaths = []string{
		"usuario_id", "user_id", "autor_id", "author_user_id", "perfil.usuario_id",
	}
	postMediaPaths = []string{
		"medias.0.url", "media_url", "media", "media_path", "url_media", "imagen",
	}
	postTextPaths = []string{
		"nota_usuario", "texto", "caption", "note_text",
	}
	postCreatedPaths = []string{
		"fecha_creacion", "fecha", "created_at", "created_at_raw",
	}
	postLikeCountPaths = []string{
		"total_likes", "likes_count", "likes", "like_count",
	}
	postLikedPaths = []string{
		"liked_by_me", "me_gusta", "liked",
	}
	postCommentCountPaths = []string{
		"total_comentarios", "comments_count", "comentarios", "comment_count",
	}
	postAchievedPaths = []string{
		"tiempo_realizado_segundos", "tiempo_realizado", "tiempo",
		"wod_tiempo_realizado", "achieved_seconds",
	}
	postWorkoutPaths = []string{
		"wod", "wod_meta", "wod_resultado", "resultado_wod", "wod_plan",
	}
)

// Post maps a loosely-shaped publication payload to the canonical form.
// Normalization is additive: every raw field survives in Extra so views
// still reading legacy names keep working during migration. Total: any
// input shape yields a well-formed Post.
func Post(raw map[string]any, media Resolver) domain.Post {
	var p domain.Post
	if raw == nil {
		p.Extra = map[string]any{}
		return p
	}

	p.Extra = make(map[string]any, len(raw))
	for k, v := range raw {
		p.Extra[k] = v
	}

	p.ID, _ = firstInt(raw, postIDPaths...)
	p.AuthorProfileID, _ = firstInt(raw, postAuthorProfilePaths...)
	p.AuthorUserID, _ = firstInt(raw, postAuthorUserPaths...)

	if m, ok := firstString(raw, postMediaPaths...); ok {
		p.MediaURL = media.MediaURL(m)
	}
	if txt, ok := firstString(raw, postTextPaths...); ok {
		p.NoteText = cleanText(txt)
	}

	if created, ok := firstString(raw, postCreatedPaths...); ok {
		p.CreatedAtRaw = created
		if t, ok := timeutil.ParseServer(created); ok {
			p.CreatedAt = t
		}
	}

	p.LikeCount = clampCount(firstInt(raw, postLikeCountPaths...))
	p.LikedByMe, _ = firstBool(raw, postLikedPaths...)
	p.CommentCount = clampCount(firstInt(raw, postCommentCountPaths...))
	p.FollowingAuthor, _ = firstBool(raw, "following_by_me", "siguiendo", "following_author")

	if secs, ok := firstInt(raw, postAchievedPaths...); ok {
		p.AchievedSeconds = secs
		p.HasAchievedTime = true
		p.AchievedSecondsFmt = timeutil.FormatSeconds(secs)
	}

	p.Author = postAuthor(raw, media)

	if wodRaw, ok := subMap(raw, postWorkoutPaths...); ok {
		p.Workout = Workout(wodRaw, media)
	}

	return p
}

// postAuthor builds the author snippet from a nested perfil object or
// the flat perfil_nick/perfil_url_avatar columns some endpoints emit.
// Nil when neither shape is present.
func postAuthor(raw map[string]any, media Resolver) *domain.PostAuthor {
	if perfil, ok := subMap(raw, "perfil", "autor", "author"); ok {
		a := &domain.PostAuthor{Nick: "Usuario"}
		if nick, ok := firstString(perfil, "nick", "username"); ok {
			a.Nick = nick
		}
		if avatar, ok := firstString(perfil, "url_avatar", "avatar", "avatar_url"); ok {
			a.AvatarURL = media.MediaURL(avatar)
		}
		a.ProfileID, _ = firstInt(perfil, "id_perfil", "perfil_id", "id")
		a.UserID, _ = firstInt(perfil, "usuario_id", "user_id")
		return a
	}

	nick, hasNick := firstString(raw, "perfil_nick")
	avatar, hasAvatar := firstString(raw, "perfil_url_avatar")
	if !hasNick && !hasAvatar {
		return nil
	}
	a := &domain.PostAuthor{Nick: "Usuario"}
	if hasNick {
		a.Nick = nick
	}
	if hasAvatar {
		a.AvatarURL = media.MediaURL(avatar)
	}
	return a
}

// FeedPage normalizes a paginated listing envelope: either a bare array
// or a {data, meta, links} object. Unrecognized shapes yield an empty
// page.
func FeedPage(payload any, media Resolver, requestedPage, pageSize int) domain.FeedPage {
	page := domain.FeedPage{RequestedPage: requestedPage, PageSize: pageSize}

	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		if arr, ok := v["data"].([]any); ok {
			items = arr
		}
		if meta, ok := subMap(v, "meta"); ok {
			page.Meta.Page, _ = firstInt(meta, "page")
			page.Meta.PerPage, _ = firstInt(meta, "per_page")
			page.Meta.Count, _ = firstInt(meta, "count")
			page.Meta.CurrentPage, _ = firstInt(meta, "current_page")
			page.Meta.LastPage, _ = firstInt(meta, "last_page")
		}
		if links, ok := subMap(v, "links"); ok {
			page.Links.Next, _ = firstString(links, "next")
		}
	}

	page.Posts = make([]domain.Post, 0, len(items))
	for _, item := range items {
		raw, _ := item.(map[string]any)
		page.Posts = append(page.Posts, Post(raw, media))
	}
	return page
}
