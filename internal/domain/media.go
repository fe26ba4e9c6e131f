package domain

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	ProviderHTML    = "html"
	ProviderYouTube = "youtube"
)

var youtubeIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// MediaItem identifies a playable resource. It is never mutated once cued.
type MediaItem struct {
	ID       string   `json:"id" validate:"required"`
	Src      string   `json:"src" validate:"required"`
	Poster   *string  `json:"poster,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// ProviderName picks the backend able to play the item.
func (m MediaItem) ProviderName() string {
	if _, ok := YouTubeVideoID(m.Src); ok {
		return ProviderYouTube
	}

	return ProviderHTML
}

// YouTubeVideoID extracts the video id from a bare id or any of the usual
// youtube.com / youtu.be URL shapes.
func YouTubeVideoID(src string) (string, bool) {
	src = strings.TrimSpace(src)
	if youtubeIDRe.MatchString(src) {
		return src, true
	}

	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live") {
			id = parts[1]
		}
	}

	if !youtubeIDRe.MatchString(id) {
		return "", false
	}

	return id, true
}
