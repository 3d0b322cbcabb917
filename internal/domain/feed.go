package domain

// PageMeta is the pagination envelope metadata. The backend emits two
// dialects: page/per_page/count on the feed, current_page/last_page on
// comment listings. Absent fields stay zero.
type PageMeta struct {
	Page        int64 `json:"page"`
	PerPage     int64 `json:"per_page"`
	Count       int64 `json:"count"`
	CurrentPage int64 `json:"current_page"`
	LastPage    int64 `json:"last_page"`
}

// PageLinks carries the optional next-page link of a paginated listing.
type PageLinks struct {
	Next string `json:"next"`
}

// FeedPage is one fetched batch of posts plus its pagination metadata.
// It is ephemeral: consumed into the feed accumulator and discarded.
type FeedPage struct {
	Posts         []Post
	Meta          PageMeta
	Links         PageLinks
	RequestedPage int
	PageSize      int
}

// HasMore decides whether another page should be requested. Explicit
// metadata wins; when the server sends none, a short page means the end
// was reached.
func (p FeedPage) HasMore() bool {
	if p.Meta.Page > 0 && p.Meta.PerPage > 0 && p.Meta.Count > 0 {
		last := (p.Meta.Count + p.Meta.PerPage - 1) / p.Meta.PerPage
		return p.Meta.Page < last
	}
	if p.Meta.CurrentPage > 0 && p.Meta.LastPage > 0 {
		return p.Meta.CurrentPage < p.Meta.LastPage
	}
	if p.Links.Next != "" {
		return true
	}
	return p.PageSize > 0 && len(p.Posts) >= p.PageSize
}
