package monthversary

import "time"

// SlideType is the fixed set of slide variants the deck supports.
type SlideType string

const (
	SlideCover   SlideType = "cover"
	SlidePhoto   SlideType = "photo"
	SlideStat    SlideType = "stat"
	SlideQuote   SlideType = "quote"
	SlideMessage SlideType = "message"
	SlideClosing SlideType = "closing"
)

// ValidSlideType reports whether t is one of the six known variants.
func ValidSlideType(t SlideType) bool {
	switch t {
	case SlideCover, SlidePhoto, SlideStat, SlideQuote, SlideMessage, SlideClosing:
		return true
	}
	return false
}

// DefaultBackground is the theme token applied when a slide carries none.
const DefaultBackground = "gradient-1"

// DefaultSiteTitle seeds the settings record when none exists yet.
const DefaultSiteTitle = "Our Monthversary"

// Stat is one label/value pair rendered on a stat slide.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Slide is one unit of presentation content. JSON field names follow the
// wire format the browser components consume ("_id", "imageUrl", ...).
type Slide struct {
	ID              string    `json:"_id"`
	Type            SlideType `json:"type"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"imageUrl"`
	BackgroundColor string    `json:"backgroundColor"`
	Order           int       `json:"order"`
	IsPublished     bool      `json:"isPublished"`
	Stats           []Stat    `json:"stats"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlidePatch is a partial slide update. Nil fields are left untouched, so a
// PUT body may carry any subset of fields.
type SlidePatch struct {
	Type            *SlideType `json:"type"`
	Title           *string    `json:"title"`
	Subtitle        *string    `json:"subtitle"`
	Content         *string    `json:"content"`
	ImageURL        *string    `json:"imageUrl"`
	BackgroundColor *string    `json:"backgroundColor"`
	Order           *int       `json:"order"`
	IsPublished     *bool      `json:"isPublished"`
	Stats           *[]Stat    `json:"stats"`
}

// Settings is the singleton site configuration record.
type Settings struct {
	SiteTitle              string    `json:"siteTitle"`
	BackgroundMusicEnabled bool      `json:"backgroundMusicEnabled"`
	BackgroundMusicURL     string    `json:"backgroundMusicUrl"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// SettingsPatch is a partial settings update; nil fields are ignored.
type SettingsPatch struct {
	SiteTitle              *string `json:"siteTitle"`
	BackgroundMusicEnabled *bool   `json:"backgroundMusicEnabled"`
	BackgroundMusicURL     *string `json:"backgroundMusicUrl"`
}

// PublicSettings is the unauthenticated projection of Settings. Timestamps
// and anything internal stay out of it.
type PublicSettings struct {
	SiteTitle              string `json:"siteTitle"`
	BackgroundMusicEnabled bool   `json:"backgroundMusicEnabled"`
	BackgroundMusicURL     string `json:"backgroundMusicUrl"`
}

// Public returns the projection exposed to viewers.
func (s Settings) Public() PublicSettings {
	return PublicSettings{
		SiteTitle:              s.SiteTitle,
		BackgroundMusicEnabled: s.BackgroundMusicEnabled,
		BackgroundMusicURL:     s.BackgroundMusicURL,
	}
}
