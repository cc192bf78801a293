package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/domain/model"
)

// SheetReader turns an uploaded file into rows.
type SheetReader interface {
	Read(ctx context.Context, filename string, src io.Reader) ([]model.Row, error)
}

// sheetUpload is a sheet received either as a multipart file or as JSON rows.
type sheetUpload struct {
	Filename    string
	SessionID   string
	ProjectCode string
	Rows        []model.Row
}

func (h *CargoHandler) readSheet(c *gin.Context) (*sheetUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return h.readMultipart(c)
	}

	var req dto.SheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errFileTooLarge
		}
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &sheetUpload{
		SessionID:   strings.TrimSpace(req.SessionID),
		ProjectCode: strings.TrimSpace(req.ProjectCode),
		Rows:        req.SheetRows(),
	}, nil
}

func (h *CargoHandler) readMultipart(c *gin.Context) (*sheetUpload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, errFileTooLarge
		case errors.Is(err, http.ErrMissingFile):
			return nil, errFileRequired
		}
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if header.Size > h.maxUploadSize {
		return nil, errFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	rows, err := h.reader.Read(c.Request.Context(), header.Filename, f)
	if err != nil {
		return nil, err
	}
	return &sheetUpload{
		Filename:    header.Filename,
		SessionID:   strings.TrimSpace(c.PostForm("session_id")),
		ProjectCode: strings.TrimSpace(c.PostForm("project_code")),
		Rows:        rows,
	}, nil
}
