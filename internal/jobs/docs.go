// Package jobs provides scheduled background tasks for the print workflow
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations.
//
// # Available Jobs
//
// 1. NotificationDispatchJob - Runs every ten seconds to forward queued
// notifications to their outer delivery channel
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Dispatch runs report the combined delivery failures of a batch; the job
// logs them and leaves the affected notifications queued for the next run.
package jobs
