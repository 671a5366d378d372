package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinegenio/config"
	. "cinegenio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTMDBService(t *testing.T, handler http.Handler) (*TMDBService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	queue := NewRequestQueueService()
	t.Cleanup(queue.Close)

	cfg := config.Config{
		TMDBBaseURL:          server.URL,
		TMDBAPIKey:           "test-key",
		TMDBLanguage:         "pt-BR",
		TMDBFallbackLanguage: "en-US",
		TMDBRegion:           "BR",
	}
	return NewTMDBService(cfg, queue, nil), server
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestSearchByTitleAndYear_MovieParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		writeJSON(t, w, map[string]any{
			"results": []map[string]any{
				{"id": 238, "title": "O Poderoso Chefão", "release_date": "1972-03-14"},
			},
		})
	}))

	result, err := service.SearchByTitleAndYear(
		context.Background(), "O Poderoso Chefão", 1972, MediaKindMovie)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "/search/movie", gotPath)
	assert.Equal(t, "1972", gotQuery["primary_release_year"])
	assert.Equal(t, "pt-BR", gotQuery["language"])
	assert.Equal(t, "test-key", gotQuery["api_key"])
	assert.Equal(t, 238, result.ID)
	assert.Equal(t, string(MediaKindMovie), result.MediaType)
}

func TestSearchByTitleAndYear_TVUsesAirDateParam(t *testing.T) {
	var gotQuery string
	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("first_air_date_year")
		writeJSON(t, w, map[string]any{
			"results": []map[string]any{
				{"id": 1396, "name": "Breaking Bad", "first_air_date": "2008-01-20"},
			},
		})
	}))

	result, err := service.SearchByTitleAndYear(
		context.Background(), "Breaking Bad", 2008, MediaKindTV)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "2008", gotQuery)
	assert.Equal(t, "Breaking Bad", result.DisplayTitle())
	assert.Equal(t, string(MediaKindTV), result.MediaType)
}

func TestSearchByTitleAndYear_CleanMissIsNilNil(t *testing.T) {
	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"results": []any{}})
	}))

	result, err := service.SearchByTitleAndYear(
		context.Background(), "Não Existe", 2020, MediaKindMovie)

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestSearchMulti_FiltersToMovieAndTV(t *testing.T) {
	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"results": []map[string]any{
				{"id": 1, "media_type": "movie", "title": "Filme"},
				{"id": 2, "media_type": "person", "name": "Alguém"},
				{"id": 3, "media_type": "tv", "name": "Série"},
			},
		})
	}))

	results, err := service.SearchMulti(context.Background(), "busca")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 3, results[1].ID)
}

func TestSearchMulti_TransportFailureIsLoud(t *testing.T) {
	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := service.SearchMulti(context.Background(), "busca")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestGetDetails_FallbackChain(t *testing.T) {
	var paths []string
	var languages []string

	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		languages = append(languages, r.URL.Query().Get("language"))

		// Only the movie record in the fallback language exists.
		if r.URL.Path == "/movie/42" && r.URL.Query().Get("language") == "en-US" {
			writeJSON(t, w, map[string]any{
				"id":           42,
				"title":        "Obscure Film",
				"release_date": "1999-05-01",
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	details, err := service.GetDetails(context.Background(), 42, MediaKindMovie)

	require.NoError(t, err)
	assert.Equal(t, []string{"/movie/42", "/tv/42", "/movie/42"}, paths)
	assert.Equal(t, []string{"pt-BR", "pt-BR", "en-US"}, languages)
	assert.Equal(t, MediaKindMovie, details.MediaType)
	assert.Equal(t, "Obscure Film (1999)", details.TitleWithYear())
}

func TestGetDetails_OppositeKindFallback(t *testing.T) {
	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tv/99" {
			writeJSON(t, w, map[string]any{
				"id":             99,
				"name":           "Na Verdade É Série",
				"first_air_date": "2015-02-10",
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	details, err := service.GetDetails(context.Background(), 99, MediaKindMovie)

	require.NoError(t, err)
	assert.Equal(t, MediaKindTV, details.MediaType)
	assert.Equal(t, "Na Verdade É Série", details.DisplayTitle())
}

func TestExtractProviders_RegionProjection(t *testing.T) {
	service, _ := newTestTMDBService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	details := &TMDBDetails{}
	details.WatchProviders.Results = map[string]tmdbProviderRegion{
		"BR": {
			Link: "https://example.org/br",
			Flatrate: []WatchProvider{
				{ProviderID: 8, ProviderName: "Netflix"},
			},
		},
		"US": {
			Flatrate: []WatchProvider{
				{ProviderID: 337, ProviderName: "Disney Plus"},
			},
		},
	}

	providers := service.ExtractProviders(details)

	require.NotNil(t, providers)
	require.Len(t, providers.Flatrate, 1)
	assert.Equal(t, "Netflix", providers.Flatrate[0].ProviderName)

	details.WatchProviders.Results = map[string]tmdbProviderRegion{}
	assert.Nil(t, service.ExtractProviders(details))
}

func TestStripAndParseYearSuffix(t *testing.T) {
	assert.Equal(t, "A Origem", StripYearSuffix("A Origem (2010)"))
	assert.Equal(t, "Sem Ano", StripYearSuffix("Sem Ano"))

	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2010, ParseYearSuffix("A Origem (2010)", now))
	assert.Equal(t, 2025, ParseYearSuffix("Sem Ano", now))
}

func TestPosterURL(t *testing.T) {
	assert.Nil(t, PosterURL(""))

	url := PosterURL("/abc.jpg")
	require.NotNil(t, url)
	assert.Equal(t, TMDB_POSTER_BASE_URL+"/abc.jpg", *url)
}
