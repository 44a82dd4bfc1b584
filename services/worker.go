package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// StartBulkImportWorker starts a background goroutine that consumes queued
// import jobs, runs them through the import pipeline and records the result.
// It stops when ctx is cancelled.
func StartBulkImportWorker(ctx context.Context, jobs *ImportJobService, importSvc *ImportService, logger *zap.Logger) {
	if jobs == nil || importSvc == nil {
		logger.Warn("Bulk import worker not started: missing dependencies")
		return
	}

	go func() {
		logger.Info("Bulk import worker started", zap.String("queue", importQueueKey))
		for {
			select {
			case <-ctx.Done():
				logger.Info("Bulk import worker stopping")
				return
			default:
			}

			jobID, err := jobs.pop(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				logger.Error("Failed to pop import job", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
				continue
			}

			processImportJob(ctx, jobs, importSvc, jobID, logger)
		}
	}()
}

// processImportJob runs a single queued job. The uploaded file is removed
// once the job reaches a terminal state.
func processImportJob(ctx context.Context, jobs *ImportJobService, importSvc *ImportService, jobID string, logger *zap.Logger) {
	job, err := jobs.Get(ctx, jobID)
	if err != nil {
		logger.Error("Failed to load import job", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	job.Status = JobStatusProcessing
	if err := jobs.save(ctx, job); err != nil {
		logger.Error("Failed to mark job processing", zap.String("job_id", jobID), zap.Error(err))
	}

	f, err := os.Open(filepath.Clean(job.FilePath))
	if err != nil {
		logger.Error("Failed to open job file", zap.String("job_id", jobID), zap.Error(err))
		failJob(ctx, jobs, job, err, logger)
		return
	}

	result, err := importSvc.ImportProducts(ctx, f, job.Mode)
	f.Close()
	os.Remove(job.FilePath)

	if err != nil {
		logger.Error("Bulk import job failed", zap.String("job_id", jobID), zap.Error(err))
		failJob(ctx, jobs, job, err, logger)
		return
	}

	job.Status = JobStatusDone
	job.Result = result
	if err := jobs.save(ctx, job); err != nil {
		logger.Error("Failed to record job result", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	logger.Info("Bulk import job finished",
		zap.String("job_id", jobID),
		zap.Int("total", result.Results.Total),
		zap.Int("failed", result.Results.Failed),
	)
}

func failJob(ctx context.Context, jobs *ImportJobService, job *ImportJob, cause error, logger *zap.Logger) {
	job.Status = JobStatusFailed
	job.Error = cause.Error()
	if err := jobs.save(ctx, job); err != nil {
		logger.Error("Failed to mark job failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}
