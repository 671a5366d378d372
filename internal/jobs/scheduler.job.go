package jobs

import (
	logger "github.com/Bparsons0904/goLogger"

	"cinegenio/config"
	"cinegenio/internal/services"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
	Weekly = services.Weekly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	log.Info("Registering jobs")

	generalRadarJob := NewGeneralRadarJob(services.Radar, Daily)
	if err := schedulerService.AddJob(generalRadarJob); err != nil {
		return log.Err("failed to register general radar job", err)
	}

	relevantRadarJob := NewRelevantRadarJob(services.Radar, Weekly)
	if err := schedulerService.AddJob(relevantRadarJob); err != nil {
		return log.Err("failed to register personalized radar job", err)
	}

	weeklyRelevantsJob := NewWeeklyRelevantsJob(services.WeeklyRelevants, Weekly)
	if err := schedulerService.AddJob(weeklyRelevantsJob); err != nil {
		return log.Err("failed to register weekly relevants job", err)
	}

	return nil
}
