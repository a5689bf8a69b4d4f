package handler

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// PublicFiles reads objects from public storage buckets.
type PublicFiles interface {
	OpenPublic(ctx context.Context, bucket, path string) (*ports.StoredFile, error)
}

// StorageHandler serves the URLs produced by BackendClient.PublicURL.
type StorageHandler struct {
	files PublicFiles
}

func NewStorageHandler(files PublicFiles) *StorageHandler {
	return &StorageHandler{files: files}
}

// Object streams a public object.
//
// @Summary      Public storage object
// @Tags         storage
// @Produce      octet-stream
// @Param        bucket  path  string  true  "Bucket name"
// @Param        path    path  string  true  "Object path"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /storage/v1/object/public/{bucket}/{path} [get]
func (h *StorageHandler) Object(c echo.Context) error {
	bucket := c.Param("bucket")
	objectPath := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if bucket == "" || objectPath == "" {
		return domain.ErrFileNotFound
	}

	file, err := h.files.OpenPublic(c.Request().Context(), bucket, objectPath)
	if err != nil {
		return err
	}
	defer file.Body.Close()

	data, err := io.ReadAll(file.Body)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}
