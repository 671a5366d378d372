package jobs

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"

	"cinegenio/internal/services"
)

type RelevantRadarJob struct {
	radarService *services.RadarService
	log          logger.Logger
	schedule     services.Schedule
}

func NewRelevantRadarJob(
	radarService *services.RadarService,
	schedule services.Schedule,
) *RelevantRadarJob {
	return &RelevantRadarJob{
		radarService: radarService,
		log:          logger.New("relevantRadarJob"),
		schedule:     schedule,
	}
}

func (j *RelevantRadarJob) Name() string {
	return "RelevantRadarRefresh"
}

func (j *RelevantRadarJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting personalized radar refresh check")

	if err := j.radarService.RefreshRelevantIfNeeded(ctx); err != nil {
		return log.Err("personalized radar refresh failed", err)
	}

	log.Info("Personalized radar refresh check completed")
	return nil
}

func (j *RelevantRadarJob) Schedule() services.Schedule {
	return j.schedule
}
