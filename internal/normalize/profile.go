package normalize

import "github.com/wodsocial/wodsocial-go/internal/domain"

// Alias precedence per canonical profile field. Order is significant:
// the flat field name wins, then English aliases, then nested
// perfil/usuario objects. Canonical names are listed so normalizing an
// already-normalized payload is a no-op.
var (
	profileIDPaths = []string{
		"id", "id_perfil", "perfil_id", "perfil.id_perfil", "perfil.id", "usuario.id_perfil",
	}
	profileNickPaths = []string{
		"nick", "username", "nick_usuario", "perfil.nick", "usuario.nick",
	}
	profileBioPaths = []string{
		"descripcion_personal", "bio", "perfil.descripcion_personal",
	}
	profileAvatarPaths = []string{
		"url_avatar", "avatar", "avatar_url", "perfil.url_avatar",
	}
	profileHeaderPaths = []string{
		"url_cabecera", "cabecera", "header_url", "perfil.url_cabecera",
	}
	profileLocalityIDPaths = []string{
		"localidad_id", "locality_id", "localidad.id",
	}
	profileLocalityNamePaths = []string{
		"localidad.nombre_localidad", "localidad_nombre", "locality_name",
	}
	profileFollowerPaths = []string{
		"total_seguidores", "seguidores", "followers_count", "followers", "follower_count",
	}
	profileFollowingPaths = []string{
		"total_seguidos", "seguidos", "following_count", "following",
	}
	profilePostCountPaths = []string{
		"total_publicaciones", "publicaciones", "posts_count", "posts", "post_count",
	}
)

// Profile maps a loosely-shaped profile payload to the canonical form.
// Total: missing fields default to empty strings and zero counts, and no
// input shape makes it fail.
func Profile(raw map[string]any, media Resolver) domain.Profile {
	var p domain.Profile
	if raw == nil {
		return p
	}

	p.ID, _ = firstInt(raw, profileIDPaths...)
	p.Nick, _ = firstString(raw, profileNickPaths...)

	if bio, ok := firstString(raw, profileBioPaths...); ok {
		p.Bio = cleanText(bio)
	}

	if avatar, ok := firstString(raw, profileAvatarPaths...); ok {
		p.AvatarURL = media.MediaURL(avatar)
	}
	if header, ok := firstString(raw, profileHeaderPaths...); ok {
		p.HeaderURL = media.MediaURL(header)
	}

	p.LocalityID, _ = firstInt(raw, profileLocalityIDPaths...)
	p.LocalityName, _ = firstString(raw, profileLocalityNamePaths...)

	p.FollowerCount = clampCount(firstInt(raw, profileFollowerPaths...))
	p.FollowingCount = clampCount(firstInt(raw, profileFollowingPaths...))
	p.PostCount = clampCount(firstInt(raw, profilePostCountPaths...))

	return p
}

// Identity pulls the logged-in user's identifiers from a /usuarios/me
// style payload (or a cached copy of one).
func Identity(raw map[string]any) domain.Identity {
	var id domain.Identity
	if raw == nil {
		return id
	}
	id.ProfileID, _ = firstInt(raw, "id_perfil", "perfil_id", "perfil.id_perfil")
	id.UserID, _ = firstInt(raw, "usuario_id", "id_usuario", "user_id", "id")
	id.Nick, _ = firstString(raw, "nick", "nick_usuario", "username")
	return id
}

// Locality maps a locality catalog entry.
func Locality(raw map[string]any) domain.Locality {
	var l domain.Locality
	if raw == nil {
		return l
	}
	l.ID, _ = firstInt(raw, "id", "id_localidad", "localidad_id")
	l.Name, _ = firstString(raw, "nombre_localidad", "nombre", "name")
	return l
}

func clampCount(n int64, _ bool) int64 {
	if n < 0 {
		return 0
	}
	return n
}
