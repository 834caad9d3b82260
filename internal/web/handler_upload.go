package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/vistoria/internal/domain"
)

const maxPhotoSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// readImage pulls the "image" part out of a multipart upload and sniffs its
// type. Failures are validation errors.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("image larger than %d MB: %w", maxPhotoSize>>20, domain.ErrValidation)
		}
		return nil, "", fmt.Errorf("failed to parse form: %w", domain.ErrValidation)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", fmt.Errorf("image file required: %w", domain.ErrValidation)
	}
	defer closeWithLog(file, "upload file", s.logger)

	if header.Size > maxPhotoSize {
		return nil, "", fmt.Errorf("image larger than %d MB: %w", maxPhotoSize>>20, domain.ErrValidation)
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		return nil, "", fmt.Errorf("unsupported image format: %w", domain.ErrValidation)
	}
	return imageData, mimeType, nil
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	imageData, mimeType, err := s.readImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	img, err := s.service.UploadItemImage(r.Context(), identity(r), itemID, imageData, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, newImageView(img))
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	imageData, mimeType, err := s.readImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.SuggestCondition(r.Context(), identity(r), itemID, imageData, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"condition":       string(result.Condition),
		"condition_label": result.Condition.Label(),
		"description":     result.Description,
	})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	reader, mimeType, err := s.photos.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			err = fmt.Errorf("photo %q: %w", key, domain.ErrNotFound)
		}
		s.writeError(w, r, err)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "storage_key", key, "error", err)
	}
}
