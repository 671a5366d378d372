package jobs

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"

	"cinegenio/internal/services"
)

type WeeklyRelevantsJob struct {
	relevantsService *services.WeeklyRelevantsService
	log              logger.Logger
	schedule         services.Schedule
}

func NewWeeklyRelevantsJob(
	relevantsService *services.WeeklyRelevantsService,
	schedule services.Schedule,
) *WeeklyRelevantsJob {
	return &WeeklyRelevantsJob{
		relevantsService: relevantsService,
		log:              logger.New("weeklyRelevantsJob"),
		schedule:         schedule,
	}
}

func (j *WeeklyRelevantsJob) Name() string {
	return "WeeklyRelevantsRefresh"
}

func (j *WeeklyRelevantsJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting weekly relevants refresh check")

	if err := j.relevantsService.RefreshIfNeeded(ctx); err != nil {
		return log.Err("weekly relevants refresh failed", err)
	}

	log.Info("Weekly relevants refresh check completed")
	return nil
}

func (j *WeeklyRelevantsJob) Schedule() services.Schedule {
	return j.schedule
}
