package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/vistoria/internal/db"
	"github.com/vbonduro/vistoria/internal/domain"
)

type CategoryStore struct {
	db *db.DB
}

func NewCategoryStore(d *db.DB) *CategoryStore {
	return &CategoryStore{db: d}
}

// Seed loads checklist templates into an empty table. It reports how many
// rows it wrote; a table that already has rows is left alone.
func (s *CategoryStore) Seed(ctx context.Context, categories []domain.ItemCategory) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inspection_item_categories`).Scan(&count); err != nil {
		return 0, transient("count item categories", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, transient("begin seed", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := s.db.Rebind(`
		INSERT INTO inspection_item_categories (id, room_type, category, subcategory, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (room_type, category, name) DO NOTHING
	`)
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), c.RoomType, c.Category, c.Subcategory, c.Name, clock.next()); err != nil {
			return 0, transient("seed item category", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, transient("commit seed", err)
	}
	return len(categories), nil
}

// ListByRoomType returns the template rows for a room type in seed order.
func (s *CategoryStore) ListByRoomType(ctx context.Context, roomType string) ([]domain.ItemCategory, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT id, room_type, category, subcategory, name, created_at FROM inspection_item_categories
		WHERE room_type = ? ORDER BY created_at ASC
	`), roomType)
	if err != nil {
		return nil, transient("list item categories", err)
	}
	defer closeRows(rows)

	var categories []domain.ItemCategory
	for rows.Next() {
		var c domain.ItemCategory
		if err := rows.Scan(&c.ID, &c.RoomType, &c.Category, &c.Subcategory, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, transient("iterate item categories", err)
	}

	return categories, nil
}
