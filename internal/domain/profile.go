package domain

// Profile is the canonical, UI-ready shape of a user profile. Backend
// payloads spell these fields many different ways; internal/normalize
// collapses them into this struct.
type Profile struct {
	ID             int64  `json:"id"`
	Nick           string `json:"nick"`
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatar_url"`
	HeaderURL      string `json:"header_url"`
	LocalityID     int64  `json:"locality_id,omitempty"`
	LocalityName   string `json:"locality_name"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	PostCount      int64  `json:"post_count"`
}

// ProfileEdit carries the fields a user may change from the edit screen.
// Only non-zero fields are merged into the cached profile.
type ProfileEdit struct {
	Nick       string `json:"nick" validate:"required,min=1,max=30"`
	Bio        string `json:"descripcion_personal" validate:"max=500"`
	AvatarURL  string `json:"url_avatar" validate:"omitempty,url"`
	HeaderURL  string `json:"url_cabecera" validate:"omitempty,url"`
	LocalityID int64  `json:"localidad_id,omitempty"`
}

// Identity is the minimum the client knows about the logged-in user.
// Any of the three fields may be missing; authorship checks try them
// in order (profile id, then account id, then nick).
type Identity struct {
	ProfileID int64
	UserID    int64
	Nick      string
}

// Loaded reports whether any identifying field has been resolved.
func (id Identity) Loaded() bool {
	return id.ProfileID != 0 || id.UserID != 0 || id.Nick != ""
}

// Locality is an entry of the cached locality catalog.
type Locality struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre_localidad"`
}
