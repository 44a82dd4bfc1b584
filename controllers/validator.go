package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"shopzeo-backend/models"
	"shopzeo-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Validation constants.
const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
)

var allowedCSVExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

// RequestValidator handles all input validation.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// ParsePagination validates and parses pagination parameters.
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page number")
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return 0, 0, errors.New("invalid page size")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit, nil
}

// ParseProductFilters parses catalog listing filters into repository params.
func (rv *RequestValidator) ParseProductFilters(c *gin.Context) (repository.ProductListParams, error) {
	page, limit, err := rv.ParsePagination(c)
	if err != nil {
		return repository.ProductListParams{}, err
	}

	params := repository.ProductListParams{
		Page:       page,
		Limit:      limit,
		ActiveOnly: true,
	}

	if v := strings.TrimSpace(c.Query("store_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return repository.ProductListParams{}, errors.New("invalid store_id")
		}
		params.StoreID = id
	}

	if v := strings.TrimSpace(c.Query("category_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return repository.ProductListParams{}, errors.New("invalid category_id")
		}
		params.CategoryID = id
	}

	if v := strings.TrimSpace(c.Query("is_featured")); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return repository.ProductListParams{}, errors.New("invalid boolean value for 'is_featured'")
		}
		params.IsFeatured = &featured
	}

	if v := strings.TrimSpace(c.Query("min_price")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return repository.ProductListParams{}, errors.New("invalid min_price value")
		}
		params.MinPrice = &parsed
	}

	if v := strings.TrimSpace(c.Query("max_price")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return repository.ProductListParams{}, errors.New("invalid max_price value")
		}
		params.MaxPrice = &parsed
	}

	if params.MinPrice != nil && params.MaxPrice != nil && *params.MinPrice > *params.MaxPrice {
		return repository.ProductListParams{}, errors.New("min_price must be less than or equal to max_price")
	}

	if v := strings.TrimSpace(c.Query("include_inactive")); v != "" {
		inactive, err := strconv.ParseBool(v)
		if err != nil {
			return repository.ProductListParams{}, errors.New("invalid boolean value for 'include_inactive'")
		}
		params.ActiveOnly = !inactive
	}

	return params, nil
}

// ParseImportMode resolves the import mode, defaulting to insert. The
// canonical flag is upsertMode with a boolean value, accepted as a query
// parameter or a form field; mode=insert|upsert works as an alias.
func (rv *RequestValidator) ParseImportMode(c *gin.Context) (models.ImportMode, error) {
	raw := strings.TrimSpace(c.Query("upsertMode"))
	if raw == "" {
		raw = strings.TrimSpace(c.PostForm("upsertMode"))
	}
	if raw != "" {
		upsert, err := strconv.ParseBool(raw)
		if err != nil {
			return "", fmt.Errorf("invalid boolean value %q for 'upsertMode'", raw)
		}
		if upsert {
			return models.ImportModeUpsert, nil
		}
		return models.ImportModeInsert, nil
	}

	mode := models.ImportMode(strings.ToLower(strings.TrimSpace(c.DefaultQuery("mode", string(models.ImportModeInsert)))))
	switch mode {
	case models.ImportModeInsert, models.ImportModeUpsert:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid import mode %q, expected insert or upsert", mode)
	}
}

// IsValidCSVFile checks if the file is a valid CSV upload.
func (rv *RequestValidator) IsValidCSVFile(file *multipart.FileHeader) bool {
	contentType := file.Header.Get("Content-Type")
	if contentType == "text/csv" || contentType == "application/csv" || contentType == "text/plain" {
		return true
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	return allowedCSVExtensions[ext]
}

// ValidateFileSize checks if file size is within limits.
func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return nil
}
