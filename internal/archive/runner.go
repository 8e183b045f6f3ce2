package archive

import (
	"context"
	"errors"
	"fmt"

	"ghvault/internal/models"
	"ghvault/internal/providers"
	"ghvault/internal/services"
	"ghvault/internal/structures"
)

// RunController drives one catch-up run: enumerate every day from the
// configured start date through today, drop the already-processed ones,
// and hand the rest to the pipeline in ascending order. A failed day is
// logged and skipped; only a bad configuration aborts the run.
type RunController struct {
	conf     *structures.Config
	pipeline *DayPipeline
	progress *ProgressStore
	status   services.RunStatusServiceInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewRunController(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	pipeline *DayPipeline,
	progress *ProgressStore,
	status services.RunStatusServiceInterface,
) *RunController {
	return &RunController{
		conf:     conf,
		pipeline: pipeline,
		progress: progress,
		status:   status,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes the batch. The returned error is nil unless configuration
// or enumeration failed or the context was cancelled; per-day failures
// never propagate.
func (rc *RunController) Run(ctx context.Context) error {
	start, err := rc.startDay()
	if err != nil {
		return err
	}

	allDays := models.DateRange(start, models.Today())
	daysToProcess := rc.progress.Unprocessed(allDays)

	if len(daysToProcess) == 0 {
		rc.logger.Infof(providers.TypeApp, "All %d days already processed, nothing to do", len(allDays))
		return nil
	}

	rc.status.BeginRun(len(daysToProcess))
	rc.logger.Infof(providers.TypeApp, "Processing %d of %d days (identity %d, starting at %s)",
		len(daysToProcess), len(allDays), rc.conf.Tracking.Identity, daysToProcess[0].Key())

	for _, day := range daysToProcess {
		if ctx.Err() != nil {
			rc.logger.Warnf(providers.TypeApp, "Run interrupted before day %s", day.Key())
			return ctx.Err()
		}

		if _, err := rc.pipeline.ProcessDay(ctx, day); err != nil {
			// Cancellation surfaces through the pipeline as a day
			// failure; stop instead of burning the remaining days.
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return ctx.Err()
			}
			rc.logger.Errorf(providers.TypeApp, "Failed to process day %s: %s", day.Key(), err)
			rc.metrics.IncDayFailures()
			rc.status.DayDone(true)
			continue
		}
		rc.metrics.IncDaysProcessed()
		rc.status.DayDone(false)
	}

	snapshot := rc.status.Snapshot()
	rc.logger.Infof(providers.TypeApp, "Run complete: %d days processed, %d failed, %d events matched",
		snapshot.DaysProcessed, snapshot.DaysFailed, snapshot.EventsMatched)
	return nil
}

// startDay parses and validates the configured start date. An invalid
// date is fatal to the whole run.
func (rc *RunController) startDay() (models.CalendarDay, error) {
	day, err := models.ParseDayKey(rc.conf.Tracking.StartDate)
	if err != nil {
		return models.CalendarDay{}, fmt.Errorf("invalid start date %q: %w", rc.conf.Tracking.StartDate, err)
	}
	return day, nil
}
