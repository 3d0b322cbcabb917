package cache

// The key catalog. Every persisted value lives under one of these keys;
// ad-hoc string literals are not allowed. Values are JSON strings unless
// noted. Writes are last-writer-wins and readers must tolerate staleness.
const (
	// KeyAuthToken holds the raw bearer token (plain string).
	KeyAuthToken = "AUTH_TOKEN"

	// KeyAuthMe holds the raw /usuarios/me payload for identity fallback.
	KeyAuthMe = "AUTH_ME"

	// KeyProfile holds the logged-in user's normalized profile.
	KeyProfile = "perfil_cache"

	// KeyProfilePosts holds the logged-in user's own post list.
	KeyProfilePosts = "perfil_posts_cache"

	// KeyLocalities holds the locality catalog used to resolve
	// locality ids to display names.
	KeyLocalities = "LOCALIDADES_CACHE"

	// KeyLoginEmail holds the last email used to log in (plain string).
	KeyLoginEmail = "EMAIL_LOGIN"
)
