package models

// MediaKind is the catalog-side media discriminator.
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindTV    MediaKind = "tv"
)

// Opposite returns the other media kind, used by the catalog detail
// fallback chain when an id resolves under the wrong kind.
func (m MediaKind) Opposite() MediaKind {
	if m == MediaKindMovie {
		return MediaKindTV
	}
	return MediaKindMovie
}

func (m MediaKind) Valid() bool {
	return m == MediaKindMovie || m == MediaKindTV
}

// Category is the user-facing media label.
type Category string

const (
	CategoryMovie  Category = "Filme"
	CategorySeries Category = "Série"
	CategoryAnime  Category = "Anime"
	CategoryShow   Category = "Programa"
)

// CategoryForKind derives the display category from the catalog kind.
func CategoryForKind(kind MediaKind) Category {
	if kind == MediaKindMovie {
		return CategoryMovie
	}
	return CategorySeries
}

// Rating is one of the four ordinal taste buckets. The wire values are
// the original tier keys and appear verbatim in prompts and stored JSON.
type Rating string

const (
	RatingLoved    Rating = "amei"
	RatingLiked    Rating = "gostei"
	RatingNeutral  Rating = "meh"
	RatingDisliked Rating = "naoGostei"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingLoved, RatingLiked, RatingNeutral, RatingDisliked:
		return true
	}
	return false
}

// Probabilities is the four-bucket taste distribution returned by the AI.
// Values are integers 0-100; conventionally they sum to 100 but the sum
// is not enforced.
type Probabilities struct {
	Loved    int `json:"amei"`
	Liked    int `json:"gostei"`
	Neutral  int `json:"meh"`
	Disliked int `json:"naoGostei"`
}

type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// WatchProviders is the regional streaming availability extracted from a
// catalog detail record.
type WatchProviders struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
}

// Recommendation is the resolver output: AI-authored analysis merged with
// catalog-authored identity. Not persisted on its own; embedded in
// challenge steps and chat transcripts.
type Recommendation struct {
	ID            int           `json:"id"`
	MediaKind     MediaKind     `json:"tmdbMediaType"`
	Title         string        `json:"title"`
	Category      Category      `json:"type"`
	Genre         string        `json:"genre"`
	Synopsis      string        `json:"synopsis"`
	Probabilities Probabilities `json:"probabilities"`
	Analysis      string        `json:"analysis"`
	PosterURL     string        `json:"posterUrl,omitempty"`
}

// DuelSide is one contender of a duel comparison.
type DuelSide struct {
	Title       string `json:"title"`
	PosterURL   string `json:"posterUrl,omitempty"`
	Analysis    string `json:"analysis"`
	Probability int    `json:"probability"`
}

type DuelResult struct {
	Title1  DuelSide `json:"title1"`
	Title2  DuelSide `json:"title2"`
	Verdict string   `json:"verdict"`
}

// Winner applies the duel tie-break: higher probability wins, ties favor
// the first side.
func (d DuelResult) Winner() DuelSide {
	if d.Title2.Probability > d.Title1.Probability {
		return d.Title2
	}
	return d.Title1
}
