// Package gdrive stores photos in a Google Drive folder and shares each one
// for anonymous viewing so report readers can open it.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vbonduro/vistoria/internal/domain"
	"github.com/vbonduro/vistoria/internal/photostore"
)

const viewURL = "https://drive.google.com/uc?export=view&id="

type DrivePhotoStore struct {
	svc      *drive.Service
	folderID string
}

// New authenticates with a service account key file and stores photos under
// folderID. An empty folderID uploads to the account's root.
func New(ctx context.Context, credentialsFile, folderID string) (*DrivePhotoStore, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to load drive credentials: %w", err)
	}
	return NewWithOptions(ctx, folderID, option.WithCredentials(creds))
}

// NewWithOptions builds the store from explicit client options.
func NewWithOptions(ctx context.Context, folderID string, opts ...option.ClientOption) (*DrivePhotoStore, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DrivePhotoStore{svc: svc, folderID: folderID}, nil
}

func (s *DrivePhotoStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	f := &drive.File{
		Name:     fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), photostore.ExtForMIME(mimeType)),
		MimeType: mimeType,
	}
	if s.folderID != "" {
		f.Parents = []string{s.folderID}
	}

	created, err := s.svc.Files.Create(f).Media(r).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", classify(err))
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := s.svc.Permissions.Create(created.Id, perm).Context(ctx).Do(); err != nil {
		if derr := s.svc.Files.Delete(created.Id).Context(ctx).Do(); derr != nil {
			slog.Error("failed to remove unshared photo", "file_id", created.Id, "error", derr)
		}
		return "", fmt.Errorf("failed to share photo: %w", classify(err))
	}
	return created.Id, nil
}

func (s *DrivePhotoStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	meta, err := s.svc.Files.Get(storageKey).Fields("mimeType").Context(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get photo metadata: %w", classify(err))
	}

	resp, err := s.svc.Files.Get(storageKey).Context(ctx).Download()
	if err != nil {
		return nil, "", fmt.Errorf("failed to download photo: %w", classify(err))
	}
	return resp.Body, meta.MimeType, nil
}

func (s *DrivePhotoStore) Delete(ctx context.Context, storageKey string) error {
	if err := s.svc.Files.Delete(storageKey).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete photo: %w", classify(err))
	}
	return nil
}

// URL is the anonymous view link of a shared photo.
func (s *DrivePhotoStore) URL(storageKey string) string {
	return viewURL + storageKey
}

// classify attaches the matching domain error to a Drive API failure.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrTransient, err)
}
