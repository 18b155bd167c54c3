package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	"github.com/angelmondragon/scrappickup-backend/internal/bills"
	"github.com/angelmondragon/scrappickup-backend/internal/cron"
	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	"github.com/angelmondragon/scrappickup-backend/pkg/db"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/metrics"
)

type workerDeps struct {
	Logger     *logger.Logger
	DB         *db.Client
	Lock       cron.Lock
	Registerer prometheus.Registerer
	Retention  config.RetentionConfig
}

// newSweepService wires the retention job into a scheduled cron service.
func newSweepService(deps workerDeps) (*cron.Service, error) {
	location, err := deps.Retention.Location()
	if err != nil {
		return nil, err
	}

	retentionJob, err := cron.NewPickupRetentionJob(cron.PickupRetentionJobParams{
		Logger:      deps.Logger,
		DB:          deps.DB,
		Assignments: assignments.NewRepository(deps.DB.DB()),
		Bills:       bills.NewRepository(deps.DB.DB()),
		Metrics:     metrics.NewRetentionMetrics(deps.Registerer),
	})
	if err != nil {
		return nil, fmt.Errorf("retention job: %w", err)
	}

	jobs, err := cron.NewRegistry(retentionJob)
	if err != nil {
		return nil, fmt.Errorf("register cron jobs: %w", err)
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   deps.Logger,
		Registry: jobs,
		Lock:     deps.Lock,
		Metrics:  metrics.NewCronJobMetrics(deps.Registerer),
		Schedule: deps.Retention.Schedule,
		Location: location,
	})
}
