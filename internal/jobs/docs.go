// Package jobs provides the scheduled maintenance tasks of the worker process.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level precision:
//
//  1. DelayedJobPromoterJob runs every second and moves due retries from the
//     delayed set back onto their queues.
//  2. DeadLetterCleanupJob runs hourly and trims the dead-letter list to the
//     configured retention.
//
// JobManager starts and stops them together:
//
//	jobManager := jobs.NewJobManager(queue, 1000, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// Errors are logged and never stop the schedule.
package jobs
