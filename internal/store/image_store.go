package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/vistoria/internal/db"
	"github.com/vbonduro/vistoria/internal/domain"
)

const imageColumns = `im.id, im.item_id, im.image_url, im.storage_key, im.created_at`

type ImageStore struct {
	db *db.DB
}

func NewImageStore(d *db.DB) *ImageStore {
	return &ImageStore{db: d}
}

// Attach links an image URL to an item. Attaching the same URL twice returns
// the existing row.
func (s *ImageStore) Attach(ctx context.Context, img *domain.ItemImage) (*domain.ItemImage, error) {
	if img.ImageURL == "" {
		return nil, fmt.Errorf("image url is required: %w", domain.ErrValidation)
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO item_images (id, item_id, image_url, storage_key, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (item_id, image_url) DO NOTHING
	`), uuid.NewString(), img.ItemID, img.ImageURL, img.StorageKey, clock.next())
	if err != nil {
		return nil, transient("attach image", err)
	}

	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+imageColumns+` FROM item_images im WHERE im.item_id = ? AND im.image_url = ?
	`), img.ItemID, img.ImageURL)
	stored, err := scanImage(row)
	if err != nil {
		return nil, transient("get image", err)
	}
	return stored, nil
}

// ListByInspectionID returns every image under an inspection in attachment
// order.
func (s *ImageStore) ListByInspectionID(ctx context.Context, inspectionID string) ([]domain.ItemImage, error) {
	return s.list(ctx, `
		SELECT `+imageColumns+` FROM item_images im
		JOIN room_items it ON it.id = im.item_id
		JOIN rooms r ON r.id = it.room_id
		WHERE r.inspection_id = ? ORDER BY im.created_at ASC
	`, inspectionID)
}

// StorageKeysByInspectionID returns the blob keys of uploaded images so they
// can be removed after the inspection is deleted.
func (s *ImageStore) StorageKeysByInspectionID(ctx context.Context, inspectionID string) ([]string, error) {
	images, err := s.ListByInspectionID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, img := range images {
		if img.StorageKey != "" {
			keys = append(keys, img.StorageKey)
		}
	}
	return keys, nil
}

func (s *ImageStore) list(ctx context.Context, query string, arg any) ([]domain.ItemImage, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), arg)
	if err != nil {
		return nil, transient("list images", err)
	}
	defer closeRows(rows)

	var images []domain.ItemImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, transient("scan image", err)
		}
		images = append(images, *img)
	}

	if err := rows.Err(); err != nil {
		return nil, transient("iterate images", err)
	}

	return images, nil
}

func scanImage(r scanner) (*domain.ItemImage, error) {
	img := &domain.ItemImage{}
	if err := r.Scan(&img.ID, &img.ItemID, &img.ImageURL, &img.StorageKey, &img.CreatedAt); err != nil {
		return nil, err
	}
	return img, nil
}
