package httpserver

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/wine_catalog/internal/excel"
	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/storage"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/response"
)

const (
	imageField       = "image"
	spreadsheetField = "file"

	DefaultMaxUpload = 5 << 20
)

type UploadHTTP struct {
	Store    storage.ImageStore
	MaxBytes int64
}

func (h *UploadHTTP) maxBytes() int64 {
	if h.MaxBytes <= 0 {
		return DefaultMaxUpload
	}
	return h.MaxBytes
}

// UploadImage stores the multipart "image" field and returns its public URL.
func (h *UploadHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.image")

	fh, err := formFile(c, imageField, "No image uploaded")
	if err != nil {
		return fail(c, l, "upload_image_error", err)
	}
	if fh.Size > h.maxBytes() {
		return fail(c, l, "upload_image_error",
			service.NewError(service.ErrValidation, fmt.Sprintf("image exceeds %d bytes", h.maxBytes())))
	}
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fail(c, l, "upload_image_error", storage.ErrInvalidName)
	}

	name, err := storage.ObjectName(fh.Filename, time.Now())
	if err != nil {
		return fail(c, l, "upload_image_error", err)
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, l, "upload_image_error", err)
	}
	defer src.Close()

	url, err := h.Store.Save(ctx, name, src, fh.Size, storage.ContentType(name))
	if err != nil {
		return fail(c, l, "upload_image_error", err)
	}

	l.Info("upload_image_success", "name", name, "bytes", fh.Size)
	return response.OK(c, http.StatusOK, "Image uploaded successfully", echo.Map{"imageUrl": url})
}

// Serve streams a stored image back by name.
func (h *UploadHTTP) Serve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.serve")

	rc, contentType, err := h.Store.Open(ctx, c.Param("name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(c, l, "serve_image_error", service.NewError(service.ErrNotFound, "file not found"))
		}
		return fail(c, l, "serve_image_error", err)
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, rc)
}

func formFile(c echo.Context, field, missing string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, service.NewError(service.ErrUploadMissing, missing)
		}
		return nil, service.NewError(service.ErrValidation, "invalid multipart form")
	}
	return fh, nil
}

// readSpreadsheet parses the multipart "file" field as a workbook.
func readSpreadsheet(c echo.Context) ([]excel.Row, error) {
	fh, err := formFile(c, spreadsheetField, "No file uploaded")
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	rows, err := excel.Parse(data)
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("parse_spreadsheet_failed", "error", err)
		return nil, service.NewError(service.ErrValidation, "invalid Excel file")
	}
	return rows, nil
}

func attachment(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, excel.ContentType, data)
}
