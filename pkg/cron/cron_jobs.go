package cron

import (
	"context"
	"fmt"
	"time"

	"expense_manager/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const digestTimeout = 30 * time.Second

// Job is a unit of scheduled work.
type Job interface {
	Run(ctx context.Context) error
}

// StartCronJob schedules job with a five-field cron expression and starts the scheduler.
func StartCronJob(job Job, schedule string, logger logrus.FieldLogger) (*cron.Cron, error) {
	logger = utils.Component(logger, "cron")
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			logger.Errorf("Cron job failed to send spending digest: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule spending digest %q: %w", schedule, err)
	}

	c.Start()
	logger.Infof("Cron jobs started (spending digest on %q)", schedule)
	return c, nil
}
