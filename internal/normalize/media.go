package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var apiSuffixRe = regexp.MustCompile(`/api/v\d+.*$`)

// Resolver rewrites raw media paths from the backend into absolute URLs.
// The media origin is the configured API base with its versioned API
// path stripped, so "https://h.test/api/v1" serves media from
// "https://h.test".
type Resolver struct {
	origin string
}

// NewResolver derives the media origin from the API base URL.
func NewResolver(apiBase string) Resolver {
	origin := apiSuffixRe.ReplaceAllString(strings.TrimSpace(apiBase), "")
	return Resolver{origin: strings.TrimRight(origin, "/")}
}

// Origin returns the derived media origin.
func (r Resolver) Origin() string { return r.origin }

// MediaURL resolves a raw storage path to an absolute URL. Empty input
// yields empty output; absolute URLs pass through unchanged, which makes
// the function idempotent. Backslashes are normalized, duplicate leading
// slashes collapsed, and the legacy /storage/public/ prefix rewritten to
// /storage/.
func (r Resolver) MediaURL(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ""
	}

	clean = strings.ReplaceAll(clean, `\`, "/")
	for strings.HasPrefix(clean, "//") {
		clean = clean[1:]
	}
	if strings.HasPrefix(clean, "/storage/public/") {
		clean = "/storage/" + clean[len("/storage/public/"):]
	}

	lower := strings.ToLower(clean)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return clean
	}

	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	return r.origin + clean
}

// YouTubeID extracts the video id from the URL shapes YouTube links
// arrive in: short links, watch URLs, and shorts share links. Returns ""
// for anything unrecognized; it never fails.
func YouTubeID(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if strings.HasPrefix(u.Path, "/shorts/") {
		parts := strings.Split(u.Path, "/")
		if len(parts) > 2 {
			return parts[2]
		}
	}
	return ""
}

// CloudinaryThumb rewrites a Cloudinary delivery URL to request a square
// thumbnail. Non-Cloudinary URLs are returned unchanged.
func CloudinaryThumb(raw string, size int) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !strings.Contains(u.Host, "res.cloudinary.com") {
		return raw
	}
	if strings.Contains(u.Path, "/c_fill,") {
		return raw
	}
	u.Path = strings.Replace(u.Path, "/upload/",
		fmt.Sprintf("/upload/c_fill,w_%d,h_%d,q_auto,f_auto/", size, size), 1)
	return u.String()
}
