// internal/video/video.go
//
// YouTube URL helpers for the lyrics page player.
//
// Context
// -------
// Catalog records carry whatever link the editor pasted: watch URLs, short
// youtu.be links, embed links, or Shorts.  The page embeds through
// youtube-nocookie.com so no tracking cookie is set until the user presses
// play.  Anything that is not YouTube is ignored and the page falls back to a
// plain outbound link.
package video

import (
	"net/url"
	"regexp"
	"strings"
)

// EmbedHost is the privacy-enhanced embed origin.  The security middleware
// allows it in frame-src.
const EmbedHost = "https://www.youtube-nocookie.com"

var idRE = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeID extracts the 11-character video ID from raw.
func YouTubeID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	path := strings.Trim(u.Path, "/")

	var id string
	switch host {
	case "youtu.be":
		id, _, _ = strings.Cut(path, "/")
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "embed/"),
			strings.HasPrefix(path, "shorts/"),
			strings.HasPrefix(path, "live/"),
			strings.HasPrefix(path, "v/"):
			_, rest, _ := strings.Cut(path, "/")
			id, _, _ = strings.Cut(rest, "/")
		}
	}

	if !idRE.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL returns the iframe src for id.
func EmbedURL(id string) string {
	return EmbedHost + "/embed/" + url.PathEscape(id) + "?rel=0"
}

// Thumbnail returns the high-quality still for id, used as og:image.
func Thumbnail(id string) string {
	return "https://i.ytimg.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg"
}
