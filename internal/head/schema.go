// internal/head/schema.go
//
// schema.org payloads for JSON-LD.  Only the fields search engines read for
// song and hymn pages are modelled.

package head

// MusicComposition describes one song or hymn.
type MusicComposition struct {
	Context     string      `json:"@context"`
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	URL         string      `json:"url,omitempty"`
	Composer    *Person     `json:"composer,omitempty"`
	Lyricist    *Person     `json:"lyricist,omitempty"`
	DateCreated string      `json:"dateCreated,omitempty"`
	Genre       string      `json:"genre,omitempty"`
	Lyrics      *CreativeWk `json:"lyrics,omitempty"`
	Recording   *Recording  `json:"recordedAs,omitempty"`
}

// Person is a schema.org Person or Organization by name.
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// CreativeWk carries the lyric text.
type CreativeWk struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// Recording links the embedded video.
type Recording struct {
	Type     string `json:"@type"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Duration string `json:"duration,omitempty"`
}

// NewComposition fills the constant @context/@type fields.
func NewComposition(name, url string) MusicComposition {
	return MusicComposition{
		Context: "https://schema.org",
		Type:    "MusicComposition",
		Name:    name,
		URL:     url,
	}
}
