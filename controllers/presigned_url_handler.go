package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"shopzeo-backend/middleware"
	awspkg "shopzeo-backend/pkg/aws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PresignedURLHandler issues presigned S3 PUT URLs so vendors upload product
// media directly to the bucket.
type PresignedURLHandler struct {
	bucket  string
	timeout time.Duration
}

func NewPresignedURLHandler() *PresignedURLHandler {
	bucket := os.Getenv("S3_BUCKET_MEDIA")
	if bucket == "" {
		bucket = "shopzeo-product-media"
	}
	return &PresignedURLHandler{bucket: bucket, timeout: DefaultContextTimeout}
}

// PresignUpload returns a presigned PUT URL scoped to the vendor's store.
func (h *PresignedURLHandler) PresignUpload(c *gin.Context) {
	storeID, err := middleware.GetStoreID(c)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Store context required"})
		return
	}

	contentType := c.DefaultQuery("content_type", "image/jpeg")
	if !allowedImageContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type for product media"})
		return
	}

	filename := c.DefaultQuery("filename", "upload.jpg")
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	expires, err := strconv.ParseInt(c.DefaultQuery("expires", "900"), 10, 64)
	if err != nil || expires <= 0 {
		expires = 900
	}
	if expires > 3600 {
		expires = 3600
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	cfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		zap.L().Error("Failed to load AWS config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate presigned upload"})
		return
	}

	key := fmt.Sprintf("products/%s/%s%s", storeID, uuid.NewString(), ext)
	url, headers, err := awspkg.GeneratePresignedPutURL(ctx, cfg, h.bucket, key, expires)
	if err != nil {
		zap.L().Error("Failed to generate presigned URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate presigned upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": url,
		"method":     "PUT",
		"key":        key,
		"headers":    headers,
		"expires_in": expires,
	})
}
