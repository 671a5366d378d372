package services

import (
	"context"
	"net/http"
	"testing"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRadarItem(t *testing.T) {
	t.Run("no release date maps to nil", func(t *testing.T) {
		result := TMDBSearchResult{ID: 1, Title: "Sem Data"}
		assert.Nil(t, toRadarItem(result, RadarListNowPlaying, 0))
	})

	t.Run("movie kind inferred from title field", func(t *testing.T) {
		result := TMDBSearchResult{ID: 2, Title: "Filme", ReleaseDate: "2025-06-01"}
		item := toRadarItem(result, RadarListNowPlaying, 0)
		require.NotNil(t, item)
		assert.Equal(t, MediaKindMovie, item.MediaKind)
		assert.Equal(t, "Filme (2025)", item.Title)
	})

	t.Run("tv kind inferred from name field", func(t *testing.T) {
		result := TMDBSearchResult{ID: 3, Name: "Série", FirstAirDate: "2025-09-10"}
		item := toRadarItem(result, RadarListTrending, 0)
		require.NotNil(t, item)
		assert.Equal(t, MediaKindTV, item.MediaKind)
	})

	t.Run("existing parenthetical is kept", func(t *testing.T) {
		result := TMDBSearchResult{ID: 4, Title: "Duna (Parte Dois)", ReleaseDate: "2024-02-27"}
		item := toRadarItem(result, RadarListNowPlaying, 0)
		require.NotNil(t, item)
		assert.Equal(t, "Duna (Parte Dois)", item.Title)
	})

	t.Run("poster path becomes full url", func(t *testing.T) {
		result := TMDBSearchResult{
			ID: 5, Title: "Com Poster", ReleaseDate: "2025-01-01", PosterPath: "/p.jpg",
		}
		item := toRadarItem(result, RadarListTopRatedProvider, ProviderNetflix)
		require.NotNil(t, item)
		assert.Equal(t, TMDB_POSTER_BASE_URL+"/p.jpg", item.PosterURL)
		assert.Equal(t, ProviderNetflix, item.ProviderID)
	})
}

func TestDedupeRadarItems(t *testing.T) {
	items := []RadarItem{
		{ListType: RadarListTrending, ProviderID: 0, TMDBID: 100, Title: "Primeiro"},
		{ListType: RadarListTrending, ProviderID: 0, TMDBID: 100, Title: "Duplicado"},
		{ListType: RadarListNowPlaying, ProviderID: 0, TMDBID: 100, Title: "Outra Lista"},
		{ListType: RadarListTopRatedProvider, ProviderID: ProviderNetflix, TMDBID: 100},
		{ListType: RadarListTopRatedProvider, ProviderID: ProviderPrime, TMDBID: 100},
	}

	deduped := dedupeRadarItems(items)

	require.Len(t, deduped, 4)
	assert.Equal(t, "Primeiro", deduped[0].Title)
}

func newTestRadarService(t *testing.T, stub *stubAIProvider, handler http.Handler) (*RadarService, *fakeRadarRepo) {
	t.Helper()

	gormDB, mock := setupTestDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tmdb, _ := newTestTMDBService(t, handler)
	repos := testRepos()
	radarRepo := repos.Radar.(*fakeRadarRepo)

	dbWrapper := database.DB{SQL: gormDB}
	service := &RadarService{
		db:          dbWrapper,
		repos:       repos,
		transaction: NewTransactionService(dbWrapper),
		staleCache:  newTestStaleCacheService(newFakeCacheMetadataRepo()),
		tmdb:        tmdb,
		ai:          NewAIGatewayService(stub),
		log:         logger.New("RadarService"),
	}
	return service, radarRepo
}

func TestRegenerateRelevant_KeepsOnlyAIPicksFromTheReleaseList(t *testing.T) {
	stub := newStubAIProvider()
	stub.radar = &AIPersonalizedRadar{
		Releases: []AIRadarRelease{
			{ID: 900001, MediaKind: MediaKindMovie, Title: "Futuro Próximo", Reason: "Combina com você"},
			{ID: 424242, MediaKind: MediaKindMovie, Title: "Fora da Lista", Reason: "Inventado"},
		},
	}

	service, radarRepo := newTestRadarService(t, stub,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/movie/upcoming":
				writeJSON(t, w, map[string]any{
					"results": []map[string]any{
						{"id": 900001, "title": "Futuro Próximo", "release_date": "2099-01-15"},
						{"id": 900002, "title": "Já Passou", "release_date": "2001-01-15"},
					},
				})
			case "/tv/on_the_air":
				writeJSON(t, w, map[string]any{
					"results": []map[string]any{
						{"id": 900003, "name": "No Ar", "first_air_date": "2099-03-01"},
					},
				})
			default:
				t.Errorf("unexpected request path %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))

	err := service.regenerateRelevant(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, radarRepo.replaces)

	items := radarRepo.flavors[RadarRelevant]
	require.Len(t, items, 1)
	assert.Equal(t, 900001, items[0].TMDBID)
	assert.Equal(t, "Combina com você", items[0].Reason)
	assert.Equal(t, RadarListUpcoming, items[0].ListType)
}

func TestRegenerateRelevant_NoFutureContentClearsTheFlavor(t *testing.T) {
	stub := newStubAIProvider()

	service, radarRepo := newTestRadarService(t, stub,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{
				"results": []map[string]any{
					{"id": 900002, "title": "Já Passou", "release_date": "2001-01-15"},
				},
			})
		}))

	err := service.regenerateRelevant(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, radarRepo.replaces)
	assert.Empty(t, radarRepo.flavors[RadarRelevant])
	assert.Zero(t, stub.calls["PersonalizedRadar"])
}

func TestRegenerateGeneral_AssemblesAndDedupesEveryList(t *testing.T) {
	stub := newStubAIProvider()

	service, radarRepo := newTestRadarService(t, stub,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/movie/now_playing":
				writeJSON(t, w, map[string]any{
					"results": []map[string]any{
						{"id": 500, "title": "Em Cartaz", "release_date": "2025-08-01"},
						{"id": 500, "title": "Em Cartaz", "release_date": "2025-08-01"},
					},
				})
			case "/trending/all/week":
				writeJSON(t, w, map[string]any{
					"results": []map[string]any{
						{"id": 500, "media_type": "movie", "title": "Em Cartaz", "release_date": "2025-08-01"},
						{"id": 501, "media_type": "tv", "name": "Em Alta", "first_air_date": "2025-07-01"},
						{"id": 502, "media_type": "movie", "title": "Sem Data"},
					},
				})
			case "/discover/movie":
				providerID := r.URL.Query().Get("with_watch_providers")
				writeJSON(t, w, map[string]any{
					"results": []map[string]any{
						{"id": 600, "title": "Top do Provedor " + providerID, "release_date": "2024-01-01"},
					},
				})
			default:
				t.Errorf("unexpected request path %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))

	err := service.regenerateGeneral(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, radarRepo.replaces)
	assert.Zero(t, stub.calls["PersonalizedRadar"])

	items := radarRepo.flavors[RadarGeneral]
	// one now-playing (dupe dropped), two trending (dateless dropped, the
	// repeated id survives under its own list type), four provider top 10s
	require.Len(t, items, 7)
}
