package services

import (
	"cinegenio/config"
	"cinegenio/internal/database"
	"cinegenio/internal/repositories"
)

type Service struct {
	Transaction     *TransactionService
	Scheduler       *SchedulerService
	RequestQueue    *RequestQueueService
	TMDB            *TMDBService
	AI              *AIGatewayService
	StaleCache      *StaleCacheService
	Recommendation  *RecommendationService
	Radar           *RadarService
	WeeklyRelevants *WeeklyRelevantsService
	Challenge       *ChallengeService
	Chat            *ChatService
}

func New(db database.DB, config config.Config) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	requestQueueService := NewRequestQueueService()
	tmdbService := NewTMDBService(config, requestQueueService, db.Cache.ClientAPI)

	provider, err := NewAIProvider(config)
	if err != nil {
		return Service{}, err
	}
	aiService := NewAIGatewayService(provider)

	staleCacheService := NewStaleCacheService(db, repos)
	schedulerService := NewSchedulerService()

	recommendationService := NewRecommendationService(db, repos, aiService, tmdbService)
	radarService := NewRadarService(
		db,
		repos,
		transactionService,
		staleCacheService,
		tmdbService,
		aiService,
	)
	weeklyRelevantsService := NewWeeklyRelevantsService(
		db,
		repos,
		staleCacheService,
		tmdbService,
		aiService,
	)
	challengeService := NewChallengeService(db, repos, tmdbService, aiService)
	chatService := NewChatService(db, repos, tmdbService, aiService)

	return Service{
		Transaction:     transactionService,
		Scheduler:       schedulerService,
		RequestQueue:    requestQueueService,
		TMDB:            tmdbService,
		AI:              aiService,
		StaleCache:      staleCacheService,
		Recommendation:  recommendationService,
		Radar:           radarService,
		WeeklyRelevants: weeklyRelevantsService,
		Challenge:       challengeService,
		Chat:            chatService,
	}, nil
}
