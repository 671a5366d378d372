package app

import (
	"context"

	"cinegenio/config"
	"cinegenio/internal/controllers"
	"cinegenio/internal/database"
	"cinegenio/internal/handlers/middleware"
	"cinegenio/internal/jobs"
	"cinegenio/internal/repositories"
	"cinegenio/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database     database.DB
	Middleware   middleware.Middleware
	Config       config.Config
	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	appServices, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	middleware := middleware.New(db, config)
	appControllers := controllers.New(appServices, repos, db)

	if err := jobs.RegisterAllJobs(appServices.Scheduler, config, appServices); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:     db,
		Middleware:   middleware,
		Config:       config,
		Services:     appServices,
		Repositories: repos,
		Controllers:  appControllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.RequestQueue,
		a.Services.TMDB,
		a.Services.AI,
		a.Services.Recommendation,
		a.Services.Radar,
		a.Services.WeeklyRelevants,
		a.Services.Challenge,
		a.Services.Chat,
		a.Controllers.Collection,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Start(ctx context.Context) error {
	return a.Services.Scheduler.Start(ctx)
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.RequestQueue != nil {
		a.Services.RequestQueue.Close()
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
