package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/eduapp/classroom-api/internal/dto"
)

// ErrFileTooLarge indicates the upload exceeds the configured size cap.
var ErrFileTooLarge = errors.New("file too large")

// ErrUnsupportedFileType indicates a content type outside the allowlist.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates and stores submission attachments, typically
// pronunciation recordings or supporting documents.
type UploadService interface {
	Upload(ctx context.Context, principal Principal, fileName string, reader io.Reader) (dto.UploadResponse, error)
}

type uploadService struct {
	uploader FileUploader
	maxBytes int64
	logger   zerolog.Logger
}

var allowedMIMEPrefixes = []string{
	"audio/",
	"image/",
	"application/pdf",
}

// NewUploadService constructs an UploadService instance.
func NewUploadService(uploader FileUploader, maxBytes int64, logger zerolog.Logger) UploadService {
	return &uploadService{
		uploader: uploader,
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "upload_service").Logger(),
	}
}

func (s *uploadService) Upload(ctx context.Context, principal Principal, fileName string, reader io.Reader) (dto.UploadResponse, error) {
	// Read one byte past the cap so oversized files are detected without
	// buffering them whole.
	content, err := io.ReadAll(io.LimitReader(reader, s.maxBytes+1))
	if err != nil {
		return dto.UploadResponse{}, err
	}
	if int64(len(content)) > s.maxBytes {
		return dto.UploadResponse{}, ErrFileTooLarge
	}

	detected := mimetype.Detect(content)
	if !isAllowedMIME(detected.String()) {
		return dto.UploadResponse{}, ErrUnsupportedFileType
	}

	url, err := s.uploader.Upload(ctx, fileName, bytes.NewReader(content))
	if err != nil {
		return dto.UploadResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", principal.UserID).
		Str("file_name", fileName).
		Str("content_type", detected.String()).
		Int("size", len(content)).
		Msg("file uploaded")

	return dto.UploadResponse{
		URL:         url,
		FileName:    fileName,
		ContentType: detected.String(),
		Size:        int64(len(content)),
	}, nil
}

func isAllowedMIME(contentType string) bool {
	for _, prefix := range allowedMIMEPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
