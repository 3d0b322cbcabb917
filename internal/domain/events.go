package domain

// Bus topics. One topic per cross-screen notification; payload shapes
// are the typed structs below, never ad-hoc maps.
const (
	TopicLikeChanged    = "post.like.changed"
	TopicCommentCreated = "post.comment.created"
	TopicFollowChanged  = "profile.follow.changed"
	TopicProfileUpdated = "profile.updated"
	TopicFeedRefresh    = "feed.refresh"
)

// LikeChanged announces a reconciled like state. Only server-confirmed
// values are broadcast; speculative flips and rollbacks stay local.
type LikeChanged struct {
	PostID     int64
	Liked      bool
	TotalLikes int64
}

// CommentCreated announces a successfully created comment.
type CommentCreated struct {
	PostID int64
	Delta  int64
}

// FollowChanged announces a reconciled follow toggle on a profile.
type FollowChanged struct {
	ProfileID      int64
	Following      bool
	FollowerTotal  int64
	HasServerTotal bool
}

// ProfileUpdated announces that the logged-in user's profile changed and
// cached copies should be replaced.
type ProfileUpdated struct {
	Profile Profile
}
