package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shopzeo-backend/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Job lifecycle states for asynchronous CSV imports.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

const (
	importQueueKey  = "bulk_import:queue"
	importJobPrefix = "bulk_import:job:"
	importJobTTL    = 24 * time.Hour
)

// ErrJobNotFound is returned when a job id is unknown or expired.
var ErrJobNotFound = errors.New("import job not found")

// ImportJob is the persisted state of one asynchronous import.
type ImportJob struct {
	ID        string                   `json:"id"`
	Status    string                   `json:"status"`
	Mode      models.ImportMode        `json:"mode"`
	FilePath  string                   `json:"file_path"`
	Error     string                   `json:"error,omitempty"`
	Result    *models.BulkImportResult `json:"result,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// ImportJobService queues CSV files for background processing and tracks job
// state in Redis.
type ImportJobService struct {
	rdb        *redis.Client
	storageDir string
	logger     *zap.Logger
}

// NewImportJobService creates a new ImportJobService. storageDir holds the
// uploaded files until the worker consumes them.
func NewImportJobService(rdb *redis.Client, storageDir string, logger *zap.Logger) (*ImportJobService, error) {
	if storageDir == "" {
		storageDir = "./data/bulk_imports"
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create bulk import storage dir: %w", err)
	}
	return &ImportJobService{rdb: rdb, storageDir: storageDir, logger: logger}, nil
}

// Enqueue persists the upload to disk, records the job and pushes its id onto
// the queue. The caller gets the job id back immediately.
func (s *ImportJobService) Enqueue(ctx context.Context, r io.Reader, mode models.ImportMode) (*ImportJob, error) {
	jobID := uuid.NewString()
	filePath := filepath.Join(s.storageDir, jobID+".csv")

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("persist upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(filePath)
		return nil, fmt.Errorf("persist upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("persist upload: %w", err)
	}

	job := &ImportJob{
		ID:        jobID,
		Status:    JobStatusQueued,
		Mode:      mode,
		FilePath:  filePath,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, job); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	if err := s.rdb.RPush(ctx, importQueueKey, jobID).Err(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("enqueue import job: %w", err)
	}

	s.logger.Info("Bulk import job queued",
		zap.String("job_id", jobID),
		zap.String("mode", string(mode)),
	)
	return job, nil
}

// Get retrieves the current state of a job.
func (s *ImportJobService) Get(ctx context.Context, jobID string) (*ImportJob, error) {
	val, err := s.rdb.Get(ctx, importJobPrefix+jobID).Result()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var job ImportJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return nil, fmt.Errorf("parse job state: %w", err)
	}
	return &job, nil
}

func (s *ImportJobService) save(ctx context.Context, job *ImportJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job state: %w", err)
	}
	return s.rdb.Set(ctx, importJobPrefix+job.ID, b, importJobTTL).Err()
}

// pop blocks until a job id is available on the queue.
func (s *ImportJobService) pop(ctx context.Context) (string, error) {
	res, err := s.rdb.BLPop(ctx, 0, importQueueKey).Result()
	if err != nil {
		return "", err
	}
	if len(res) < 2 {
		return "", fmt.Errorf("unexpected BLPop reply")
	}
	return res[1], nil
}
