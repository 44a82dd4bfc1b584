package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BulkImportController handles CSV product import operations.
type BulkImportController struct {
	importService *services.ImportService
	jobService    *services.ImportJobService
	cache         *CacheManager
	validator     *RequestValidator
	timeout       time.Duration
}

func NewBulkImportController(
	importService *services.ImportService,
	jobService *services.ImportJobService,
	cache *CacheManager,
	validator *RequestValidator,
) *BulkImportController {
	return &BulkImportController{
		importService: importService,
		jobService:    jobService,
		cache:         cache,
		validator:     validator,
		timeout:       DefaultContextTimeout,
	}
}

// ImportProducts imports products from an uploaded CSV. With ?async=true the
// file is queued and a job id returned instead.
func (bc *BulkImportController) ImportProducts(c *gin.Context) {
	mode, err := bc.validator.ParseImportMode(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := bc.getAndValidateFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHandle, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer fileHandle.Close()

	async := strings.ToLower(strings.TrimSpace(c.Query("async"))) == "true"
	if async {
		bc.handleAsyncImport(c, fileHandle, mode)
		return
	}

	bc.handleSyncImport(c, fileHandle, mode)
}

// ValidateImport dry-runs the CSV without persisting anything.
func (bc *BulkImportController) ValidateImport(c *gin.Context) {
	file, err := bc.getAndValidateFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHandle, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer fileHandle.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), bc.timeout)
	defer cancel()

	validation, err := bc.importService.ValidateImport(ctx, fileHandle)
	if err != nil {
		zap.L().Error("Bulk import validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, validation)
}

// GetJobStatus returns the state of an asynchronous import job.
func (bc *BulkImportController) GetJobStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	job, err := bc.jobService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		zap.L().Error("Failed to get job status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job status"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (bc *BulkImportController) getAndValidateFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}

	if !bc.validator.IsValidCSVFile(file) {
		return nil, fmt.Errorf("invalid file type. Only CSV files are allowed")
	}

	if err := bc.validator.ValidateFileSize(file); err != nil {
		return nil, err
	}

	return file, nil
}

func (bc *BulkImportController) handleSyncImport(c *gin.Context, fileHandle multipart.File, mode models.ImportMode) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), bc.timeout)
	defer cancel()

	result, err := bc.importService.ImportProducts(ctx, fileHandle, mode)
	if err != nil {
		// Only an unreadable header aborts the batch.
		zap.L().Error("Bulk import aborted", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if result.Results.Success > 0 && bc.cache != nil {
		if err := bc.cache.Invalidate(ctx); err != nil {
			zap.L().Error("Failed to invalidate cache after bulk import", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

func (bc *BulkImportController) handleAsyncImport(c *gin.Context, fileHandle multipart.File, mode models.ImportMode) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), bc.timeout)
	defer cancel()

	job, err := bc.jobService.Enqueue(ctx, fileHandle, mode)
	if err != nil {
		zap.L().Error("Failed to enqueue async bulk import", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue import job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  job.ID,
		"message": "Import queued for processing",
	})
}
