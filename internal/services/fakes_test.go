package services

import (
	"context"
	"time"

	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stubAIProvider satisfies AIProvider with canned responses and counts
// calls per operation.
type stubAIProvider struct {
	recommendation *AIRecommendation
	duel           *DuelResult
	relevants      *AIWeeklyRelevants
	radar          *AIPersonalizedRadar
	probability    int
	challenge      *AIChallengeIdea
	chat           *AIChatResponse
	chatTitle      string
	err            error
	calls          map[string]int
}

func newStubAIProvider() *stubAIProvider {
	return &stubAIProvider{calls: map[string]int{}}
}

func (s *stubAIProvider) count(op string) { s.calls[op]++ }

func (s *stubAIProvider) Name() string { return "stub" }

func (s *stubAIProvider) Recommendation(
	ctx context.Context,
	prompt string,
) (*AIRecommendation, error) {
	s.count("Recommendation")
	return s.recommendation, s.err
}

func (s *stubAIProvider) DuelAnalysis(ctx context.Context, prompt string) (*DuelResult, error) {
	s.count("DuelAnalysis")
	return s.duel, s.err
}

func (s *stubAIProvider) WeeklyRelevants(
	ctx context.Context,
	prompt string,
) (*AIWeeklyRelevants, error) {
	s.count("WeeklyRelevants")
	return s.relevants, s.err
}

func (s *stubAIProvider) PersonalizedRadar(
	ctx context.Context,
	prompt string,
) (*AIPersonalizedRadar, error) {
	s.count("PersonalizedRadar")
	return s.radar, s.err
}

func (s *stubAIProvider) LoveProbability(ctx context.Context, prompt string) (int, error) {
	s.count("LoveProbability")
	return s.probability, s.err
}

func (s *stubAIProvider) WeeklyChallenge(
	ctx context.Context,
	prompt string,
) (*AIChallengeIdea, error) {
	s.count("WeeklyChallenge")
	return s.challenge, s.err
}

func (s *stubAIProvider) ChatTurn(ctx context.Context, prompt string) (*AIChatResponse, error) {
	s.count("ChatTurn")
	return s.chat, s.err
}

func (s *stubAIProvider) ChatTitle(ctx context.Context, prompt string) (string, error) {
	s.count("ChatTitle")
	return s.chatTitle, s.err
}

// --- in-memory repositories ---

type fakeWatchedRepo struct {
	items []WatchedItem
	err   error
}

func (f *fakeWatchedRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]WatchedItem, error) {
	return f.items, f.err
}

func (f *fakeWatchedRepo) Upsert(ctx context.Context, tx *gorm.DB, item *WatchedItem) error {
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = *item
			return nil
		}
	}
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeWatchedRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeWatchedRepo) ClearCache(ctx context.Context) error { return nil }

type fakeWatchlistRepo struct {
	items []WatchlistItem
}

func (f *fakeWatchlistRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]WatchlistItem, error) {
	return f.items, nil
}

func (f *fakeWatchlistRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id int,
) (*WatchlistItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWatchlistRepo) Add(ctx context.Context, tx *gorm.DB, item *WatchlistItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeWatchlistRepo) Update(ctx context.Context, tx *gorm.DB, item *WatchlistItem) error {
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = *item
		}
	}
	return nil
}

func (f *fakeWatchlistRepo) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeChallengeRepo struct {
	byWeek    map[string]*Challenge
	createErr error
	creates   int
	updates   int
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{byWeek: map[string]*Challenge{}}
}

func (f *fakeChallengeRepo) GetByWeekID(
	ctx context.Context,
	tx *gorm.DB,
	weekID string,
) (*Challenge, error) {
	if challenge, ok := f.byWeek[weekID]; ok {
		copied := *challenge
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChallengeRepo) Create(ctx context.Context, tx *gorm.DB, challenge *Challenge) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	copied := *challenge
	f.byWeek[challenge.WeekID] = &copied
	return nil
}

func (f *fakeChallengeRepo) Update(ctx context.Context, tx *gorm.DB, challenge *Challenge) error {
	f.updates++
	copied := *challenge
	f.byWeek[challenge.WeekID] = &copied
	return nil
}

func (f *fakeChallengeRepo) GetHistory(ctx context.Context, tx *gorm.DB) ([]Challenge, error) {
	history := make([]Challenge, 0, len(f.byWeek))
	for _, challenge := range f.byWeek {
		history = append(history, *challenge)
	}
	return history, nil
}

type fakeRadarRepo struct {
	flavors  map[RadarFlavor][]RadarItem
	replaces int
}

func newFakeRadarRepo() *fakeRadarRepo {
	return &fakeRadarRepo{flavors: map[RadarFlavor][]RadarItem{}}
}

func (f *fakeRadarRepo) GetByFlavor(
	ctx context.Context,
	tx *gorm.DB,
	flavor RadarFlavor,
) ([]RadarItem, error) {
	return f.flavors[flavor], nil
}

func (f *fakeRadarRepo) ReplaceFlavor(
	ctx context.Context,
	tx *gorm.DB,
	flavor RadarFlavor,
	items []RadarItem,
) error {
	f.replaces++
	f.flavors[flavor] = items
	return nil
}

type fakeWeeklyRelevantsRepo struct {
	stored *WeeklyRelevants
	sets   int
}

func (f *fakeWeeklyRelevantsRepo) Get(
	ctx context.Context,
	tx *gorm.DB,
) (*WeeklyRelevants, error) {
	if f.stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.stored, nil
}

func (f *fakeWeeklyRelevantsRepo) Set(
	ctx context.Context,
	tx *gorm.DB,
	relevants *WeeklyRelevants,
) error {
	f.sets++
	f.stored = relevants
	return nil
}

type fakeCacheMetadataRepo struct {
	stamps map[CacheKind]time.Time
	sets   int
}

func newFakeCacheMetadataRepo() *fakeCacheMetadataRepo {
	return &fakeCacheMetadataRepo{stamps: map[CacheKind]time.Time{}}
}

func (f *fakeCacheMetadataRepo) GetLastUpdate(
	ctx context.Context,
	tx *gorm.DB,
	kind CacheKind,
) (*time.Time, error) {
	if at, ok := f.stamps[kind]; ok {
		return &at, nil
	}
	return nil, nil
}

func (f *fakeCacheMetadataRepo) SetLastUpdate(
	ctx context.Context,
	tx *gorm.DB,
	kind CacheKind,
	at time.Time,
) error {
	f.sets++
	f.stamps[kind] = at
	return nil
}

type fakeChatRepo struct {
	sessions map[uuid.UUID]*ChatSession
	creates  int
	updates  int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{sessions: map[uuid.UUID]*ChatSession{}}
}

func (f *fakeChatRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ChatSession, error) {
	if session, ok := f.sessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChatRepo) List(ctx context.Context, tx *gorm.DB) ([]ChatSession, error) {
	sessions := make([]ChatSession, 0, len(f.sessions))
	for _, session := range f.sessions {
		sessions = append(sessions, *session)
	}
	return sessions, nil
}

func (f *fakeChatRepo) Create(ctx context.Context, tx *gorm.DB, session *ChatSession) error {
	f.creates++
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeChatRepo) Update(ctx context.Context, tx *gorm.DB, session *ChatSession) error {
	f.updates++
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

func testRepos() repositories.Repository {
	return repositories.Repository{
		Watched:         &fakeWatchedRepo{},
		Watchlist:       &fakeWatchlistRepo{},
		Challenge:       newFakeChallengeRepo(),
		Radar:           newFakeRadarRepo(),
		WeeklyRelevants: &fakeWeeklyRelevantsRepo{},
		CacheMetadata:   newFakeCacheMetadataRepo(),
		Chat:            newFakeChatRepo(),
	}
}
