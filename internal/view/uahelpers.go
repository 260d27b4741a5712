// internal/view/uahelpers.go
//
// Request-info and media template helpers.
package view

import (
	"html/template"
	"strings"

	"github.com/choristercorner/chorister/internal/requestinfo"
	"github.com/choristercorner/chorister/internal/video"
)

// uaFuncMap returns helpers keyed off *requestinfo.RequestInfo.  All are
// nil-safe so pages render in tests without the enrichment middleware.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"device": func(ri *requestinfo.RequestInfo) string {
			if ri == nil || ri.UA.Device == "" {
				return "other"
			}
			return strings.ToLower(ri.UA.Device)
		},
		"isBot": func(ri *requestinfo.RequestInfo) bool { return ri != nil && ri.UA.IsBot },
	}
}

// mediaFuncMap exposes the video helpers.  embedURL yields "" for links
// that are not YouTube, so templates can guard with {{ with }}.
func mediaFuncMap() template.FuncMap {
	return template.FuncMap{
		"embedURL": func(raw string) string {
			if id, ok := video.YouTubeID(raw); ok {
				return video.EmbedURL(id)
			}
			return ""
		},
		"thumbnail": func(raw string) string {
			if id, ok := video.YouTubeID(raw); ok {
				return video.Thumbnail(id)
			}
			return ""
		},
	}
}
