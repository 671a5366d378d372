package jobs

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"

	"cinegenio/internal/services"
)

type GeneralRadarJob struct {
	radarService *services.RadarService
	log          logger.Logger
	schedule     services.Schedule
}

func NewGeneralRadarJob(
	radarService *services.RadarService,
	schedule services.Schedule,
) *GeneralRadarJob {
	return &GeneralRadarJob{
		radarService: radarService,
		log:          logger.New("generalRadarJob"),
		schedule:     schedule,
	}
}

func (j *GeneralRadarJob) Name() string {
	return "GeneralRadarRefresh"
}

func (j *GeneralRadarJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting general radar refresh check")

	if err := j.radarService.RefreshGeneralIfNeeded(ctx); err != nil {
		return log.Err("general radar refresh failed", err)
	}

	log.Info("General radar refresh check completed")
	return nil
}

func (j *GeneralRadarJob) Schedule() services.Schedule {
	return j.schedule
}
