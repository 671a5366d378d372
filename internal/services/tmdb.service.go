package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"cinegenio/config"
	"cinegenio/internal/database"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	TMDB_POSTER_BASE_URL   = "https://image.tmdb.org/t/p/w500"
	TMDB_DETAILS_CACHE_KEY = "tmdb:details:%s:%d" // %s = media kind, %d = id
	TMDB_DETAILS_CACHE_TTL = 6 * time.Hour
)

// Streaming provider ids as TMDB knows them.
const (
	ProviderNetflix = 8
	ProviderPrime   = 119
	ProviderMax     = 1899
	ProviderDisney  = 337
)

var RadarProviderIDs = []int{ProviderNetflix, ProviderPrime, ProviderMax, ProviderDisney}

// ErrCatalogUnavailable marks a catalog call that failed at the transport
// level. Handlers map it to 502.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

var yearSuffixRegex = regexp.MustCompile(`\s*\((\d{4})\)\s*`)

type TMDBSearchResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

func (r TMDBSearchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r TMDBSearchResult) ReleaseOrAirDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbProviderRegion struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
}

type TMDBDetails struct {
	ID             int       `json:"id"`
	MediaType      MediaKind `json:"-"`
	Title          string    `json:"title"`
	Name           string    `json:"name"`
	Overview       string    `json:"overview"`
	PosterPath     string    `json:"poster_path"`
	ReleaseDate    string    `json:"release_date"`
	FirstAirDate   string    `json:"first_air_date"`
	Genres         []TMDBGenre `json:"genres"`
	VoteAverage    float64   `json:"vote_average"`
	WatchProviders struct {
		Results map[string]tmdbProviderRegion `json:"results"`
	} `json:"watch/providers"`
	NextEpisodeToAir *struct {
		AirDate       string `json:"air_date"`
		EpisodeNumber int    `json:"episode_number"`
		SeasonNumber  int    `json:"season_number"`
	} `json:"next_episode_to_air"`
}

func (d TMDBDetails) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

func (d TMDBDetails) ReleaseOrAirDate() string {
	if d.ReleaseDate != "" {
		return d.ReleaseDate
	}
	return d.FirstAirDate
}

// DisplayYear is the parenthetical year shown to the user, "N/A" when the
// catalog has no usable date.
func (d TMDBDetails) DisplayYear() string {
	date := d.ReleaseOrAirDate()
	if len(date) < 4 {
		return "N/A"
	}
	return date[:4]
}

func (d TMDBDetails) TitleWithYear() string {
	return fmt.Sprintf("%s (%s)", d.DisplayTitle(), d.DisplayYear())
}

type tmdbListResponse struct {
	Results []TMDBSearchResult `json:"results"`
}

// TMDBService is the typed catalog client. Every network call goes through
// the request queue so TMDB never sees two requests in flight at once.
type TMDBService struct {
	client           *http.Client
	queue            *RequestQueueService
	cache            database.CacheClient
	baseURL          string
	apiKey           string
	language         string
	fallbackLanguage string
	region           string
	log              logger.Logger
}

func NewTMDBService(
	config config.Config,
	queue *RequestQueueService,
	cache database.CacheClient,
) *TMDBService {
	return &TMDBService{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		queue:            queue,
		cache:            cache,
		baseURL:          config.TMDBBaseURL,
		apiKey:           config.TMDBAPIKey,
		language:         config.TMDBLanguage,
		fallbackLanguage: config.TMDBFallbackLanguage,
		region:           config.TMDBRegion,
		log:              logger.New("TMDBService"),
	}
}

// getJSON performs a queued GET against a catalog path, decoding a 2xx body
// into out. The status code is returned so callers can distinguish 404 from
// other failures without a decode.
func (s *TMDBService) getJSON(
	ctx context.Context,
	path string,
	params url.Values,
	out any,
) (int, error) {
	log := s.log.Function("getJSON")

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", s.apiKey)
	fullURL := s.baseURL + path + "?" + params.Encode()

	var status int
	err := s.queue.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return log.Err("failed to create request", err, "path", path)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return log.Err("catalog request failed", err, "path", path)
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				log.Warn("Failed to close response body", "error", closeErr)
			}
		}()

		status = resp.StatusCode
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return log.Err("failed to decode catalog response", err, "path", path)
		}
		return nil
	})
	return status, err
}

// SearchByTitleAndYear is the tier-1 exact-leaning lookup. It returns nil
// on a non-2xx status or an empty result set, never an error for a clean
// miss. The result is tagged with the requested kind.
func (s *TMDBService) SearchByTitleAndYear(
	ctx context.Context,
	title string,
	year int,
	kind MediaKind,
) (*TMDBSearchResult, error) {
	log := s.log.Function("SearchByTitleAndYear")

	yearParam := "primary_release_year"
	if kind == MediaKindTV {
		yearParam = "first_air_date_year"
	}

	params := url.Values{}
	params.Set("query", title)
	params.Set(yearParam, strconv.Itoa(year))
	params.Set("include_adult", "false")
	params.Set("language", s.language)
	params.Set("page", "1")

	var body tmdbListResponse
	status, err := s.getJSON(ctx, "/search/"+string(kind), params, &body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		log.Warn("title and year search failed", "title", title, "year", year, "status", status)
		return nil, nil
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	result := body.Results[0]
	result.MediaType = string(kind)
	return &result, nil
}

// SearchMulti is the tier-2 broad fallback, filtered to movie and tv kinds.
// Unlike tier-1 it fails loudly on transport errors so callers can tell
// "no results" apart from "search broken".
func (s *TMDBService) SearchMulti(ctx context.Context, query string) ([]TMDBSearchResult, error) {
	log := s.log.Function("SearchMulti")

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", s.language)
	params.Set("page", "1")

	var body tmdbListResponse
	status, err := s.getJSON(ctx, "/search/multi", params, &body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		err := fmt.Errorf("%w: multi search status %d", ErrCatalogUnavailable, status)
		log.Er("multi search failed", err, "query", query)
		return nil, err
	}

	filtered := make([]TMDBSearchResult, 0, len(body.Results))
	for _, result := range body.Results {
		if result.MediaType == string(MediaKindMovie) || result.MediaType == string(MediaKindTV) {
			filtered = append(filtered, result)
		}
	}
	return filtered, nil
}

// GetDetails fetches the rich detail record including watch providers and
// credits. 404 triggers a fallback chain: the opposite media kind, then the
// original kind in the fallback language. The resolved kind reflects
// whichever request finally succeeded. Successful lookups are cached for a
// short window to keep duel and challenge re-lookups off the TMDB quota.
func (s *TMDBService) GetDetails(
	ctx context.Context,
	id int,
	kind MediaKind,
) (*TMDBDetails, error) {
	log := s.log.Function("GetDetails")

	cacheKey := fmt.Sprintf(TMDB_DETAILS_CACHE_KEY, kind, id)
	if s.cache != nil {
		var cached TMDBDetails
		found, err := database.NewCacheBuilder(s.cache, cacheKey).
			WithContext(ctx).
			Get(&cached)
		if err != nil {
			log.Warn("detail cache read failed", "error", err, "key", cacheKey)
		} else if found {
			return &cached, nil
		}
	}

	details, status, err := s.fetchDetails(ctx, id, kind, s.language)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		opposite := kind.Opposite()
		log.Warn("id not found for kind, trying opposite kind", "id", id, "kind", kind)
		details, status, err = s.fetchDetails(ctx, id, opposite, s.language)
		if err != nil {
			return nil, err
		}
		if status >= 200 && status < 300 {
			details.MediaType = opposite
		}
	}

	if status == http.StatusNotFound {
		details, status, err = s.fetchDetails(ctx, id, kind, s.fallbackLanguage)
		if err != nil {
			return nil, err
		}
		if status >= 200 && status < 300 {
			details.MediaType = kind
		}
	}

	if status < 200 || status >= 300 {
		err := fmt.Errorf("%w: detail lookup for id %d status %d", ErrCatalogUnavailable, id, status)
		log.Er("detail lookup failed", err, "id", id)
		return nil, err
	}

	if s.cache != nil {
		if err := database.NewCacheBuilder(s.cache, cacheKey).
			WithContext(ctx).
			WithStruct(details).
			WithTTL(TMDB_DETAILS_CACHE_TTL).
			Set(); err != nil {
			log.Warn("detail cache write failed", "error", err, "key", cacheKey)
		}
	}
	return details, nil
}

func (s *TMDBService) fetchDetails(
	ctx context.Context,
	id int,
	kind MediaKind,
	language string,
) (*TMDBDetails, int, error) {
	params := url.Values{}
	params.Set("language", language)
	params.Set("append_to_response", "watch/providers,credits")

	details := TMDBDetails{MediaType: kind}
	status, err := s.getJSON(ctx, fmt.Sprintf("/%s/%d", kind, id), params, &details)
	if err != nil {
		return nil, status, err
	}
	return &details, status, nil
}

func (s *TMDBService) GetUpcoming(ctx context.Context) ([]TMDBSearchResult, error) {
	params := url.Values{}
	params.Set("language", s.language)
	params.Set("page", "1")
	params.Set("region", s.region)
	return s.browse(ctx, "/movie/upcoming", params, "upcoming movies")
}

func (s *TMDBService) GetOnTheAir(ctx context.Context) ([]TMDBSearchResult, error) {
	params := url.Values{}
	params.Set("language", s.language)
	params.Set("page", "1")
	return s.browse(ctx, "/tv/on_the_air", params, "on the air shows")
}

func (s *TMDBService) GetNowPlaying(ctx context.Context) ([]TMDBSearchResult, error) {
	params := url.Values{}
	params.Set("language", s.language)
	params.Set("page", "1")
	params.Set("region", s.region)
	return s.browse(ctx, "/movie/now_playing", params, "now playing movies")
}

func (s *TMDBService) GetTopRatedOnProvider(
	ctx context.Context,
	providerID int,
) ([]TMDBSearchResult, error) {
	params := url.Values{}
	params.Set("language", s.language)
	params.Set("watch_region", s.region)
	params.Set("sort_by", "popularity.desc")
	params.Set("with_watch_providers", strconv.Itoa(providerID))
	params.Set("page", "1")

	results, err := s.browse(ctx, "/discover/movie", params, "provider top rated")
	if err != nil {
		return nil, err
	}
	if len(results) > 10 {
		results = results[:10]
	}
	return results, nil
}

func (s *TMDBService) GetTrending(ctx context.Context) ([]TMDBSearchResult, error) {
	params := url.Values{}
	params.Set("language", s.language)
	return s.browse(ctx, "/trending/all/week", params, "trending")
}

func (s *TMDBService) browse(
	ctx context.Context,
	path string,
	params url.Values,
	what string,
) ([]TMDBSearchResult, error) {
	log := s.log.Function("browse")

	var body tmdbListResponse
	status, err := s.getJSON(ctx, path, params, &body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		err := fmt.Errorf("%w: %s status %d", ErrCatalogUnavailable, what, status)
		log.Er("browse fetch failed", err)
		return nil, err
	}
	return body.Results, nil
}

// ExtractProviders projects the configured region's watch providers out of a
// detail record. Pure, no network.
func (s *TMDBService) ExtractProviders(details *TMDBDetails) *WatchProviders {
	region, ok := details.WatchProviders.Results[s.region]
	if !ok {
		return nil
	}
	return &WatchProviders{
		Link:     region.Link,
		Flatrate: region.Flatrate,
	}
}

// BestEffortPosterURL resolves a poster for a free-text title, swallowing
// every failure to nil. AI-restated titles routinely miss, that is fine.
func (s *TMDBService) BestEffortPosterURL(ctx context.Context, title string) *string {
	log := s.log.Function("BestEffortPosterURL")

	results, err := s.SearchMulti(ctx, StripYearSuffix(title))
	if err != nil {
		log.Warn("poster lookup failed", "title", title, "error", err)
		return nil
	}
	if len(results) == 0 || results[0].PosterPath == "" {
		return nil
	}
	return PosterURL(results[0].PosterPath)
}

// PosterURL builds the w500 image URL for a poster path, nil when absent.
func PosterURL(posterPath string) *string {
	if posterPath == "" {
		return nil
	}
	full := TMDB_POSTER_BASE_URL + posterPath
	return &full
}

// StripYearSuffix removes a trailing "(YYYY)" from a display title.
func StripYearSuffix(title string) string {
	return yearSuffixRegex.ReplaceAllString(title, "")
}

// ParseYearSuffix extracts the "(YYYY)" year from a display title, falling
// back to the current year when no suffix is present.
func ParseYearSuffix(title string, now time.Time) int {
	match := yearSuffixRegex.FindStringSubmatch(title)
	if match == nil {
		return now.Year()
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return now.Year()
	}
	return year
}
