package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/vistoria/internal/db"
	"github.com/vbonduro/vistoria/internal/domain"
)

const itemColumns = `it.id, it.room_id, it.name, it.category, it.subcategory, it.condition, it.description,
	it.created_at, it.updated_at`

type ItemStore struct {
	db *db.DB
}

func NewItemStore(d *db.DB) *ItemStore {
	return &ItemStore{db: d}
}

// Upsert records an item under its room. An existing item with the same name
// in the same room is updated in place and keeps its ID and creation time, so
// replaying the same batch leaves the room unchanged.
func (s *ItemStore) Upsert(ctx context.Context, item *domain.RoomItem) (*domain.RoomItem, error) {
	if item.Condition != domain.ConditionUnset && !item.Condition.Valid() {
		return nil, fmt.Errorf("item %q: unknown condition %q: %w", item.Name, item.Condition, domain.ErrValidation)
	}

	now := clock.next()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO room_items (id, room_id, name, category, subcategory, condition, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (room_id, name) DO UPDATE SET
			category = excluded.category,
			subcategory = excluded.subcategory,
			condition = excluded.condition,
			description = excluded.description,
			updated_at = excluded.updated_at
	`), uuid.NewString(), item.RoomID, item.Name, item.Category, item.Subcategory, string(item.Condition),
		item.Description, now, now)
	if err != nil {
		return nil, transient("upsert item", err)
	}

	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+itemColumns+` FROM room_items it WHERE it.room_id = ? AND it.name = ?
	`), item.RoomID, item.Name)
	stored, err := scanItem(row)
	if err != nil {
		return nil, transient("get item", err)
	}
	return stored, nil
}

func (s *ItemStore) GetByID(ctx context.Context, id string) (*domain.RoomItem, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+itemColumns+` FROM room_items it WHERE it.id = ?
	`), id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, transient("get item", err)
	}
	return item, nil
}

// Update replaces the rating of a single item.
func (s *ItemStore) Update(ctx context.Context, id string, condition domain.Condition, description string) error {
	if condition != domain.ConditionUnset && !condition.Valid() {
		return fmt.Errorf("unknown condition %q: %w", condition, domain.ErrValidation)
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE room_items SET condition = ?, description = ?, updated_at = ? WHERE id = ?
	`), string(condition), description, clock.next(), id)
	if err != nil {
		return transient("update item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByInspectionID returns the items of every room of an inspection in
// creation order.
func (s *ItemStore) ListByInspectionID(ctx context.Context, inspectionID string) ([]domain.RoomItem, error) {
	return s.list(ctx, `
		SELECT `+itemColumns+` FROM room_items it
		JOIN rooms r ON r.id = it.room_id
		WHERE r.inspection_id = ? ORDER BY it.created_at ASC
	`, inspectionID)
}

func (s *ItemStore) list(ctx context.Context, query string, arg any) ([]domain.RoomItem, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), arg)
	if err != nil {
		return nil, transient("list items", err)
	}
	defer closeRows(rows)

	var items []domain.RoomItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, transient("scan item", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, transient("iterate items", err)
	}

	return items, nil
}

func scanItem(r scanner) (*domain.RoomItem, error) {
	item := &domain.RoomItem{}
	var condition string
	err := r.Scan(&item.ID, &item.RoomID, &item.Name, &item.Category, &item.Subcategory, &condition,
		&item.Description, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Condition = domain.Condition(condition)
	return item, nil
}
