package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vbonduro/vistoria/internal/db"
	"github.com/vbonduro/vistoria/internal/domain"
)

type RoomStore struct {
	db *db.DB
}

func NewRoomStore(d *db.DB) *RoomStore {
	return &RoomStore{db: d}
}

func (s *RoomStore) Create(ctx context.Context, r *domain.Room) (*domain.Room, error) {
	row := *r
	row.ID = uuid.NewString()
	row.CreatedAt = clock.next()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO rooms (id, inspection_id, name, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), row.ID, row.InspectionID, row.Name, row.Description, row.ImageURL, row.CreatedAt)
	if err != nil {
		return nil, transient("create room", err)
	}

	return &row, nil
}

func (s *RoomStore) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r := &domain.Room{}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, inspection_id, name, description, image_url, created_at FROM rooms WHERE id = ?
	`), id).Scan(&r.ID, &r.InspectionID, &r.Name, &r.Description, &r.ImageURL, &r.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, transient("get room", err)
	}
	return r, nil
}

// ListByInspectionID returns the rooms of an inspection in creation order.
func (s *RoomStore) ListByInspectionID(ctx context.Context, inspectionID string) ([]domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT id, inspection_id, name, description, image_url, created_at FROM rooms
		WHERE inspection_id = ? ORDER BY created_at ASC
	`), inspectionID)
	if err != nil {
		return nil, transient("list rooms", err)
	}
	defer closeRows(rows)

	var rooms []domain.Room
	for rows.Next() {
		var r domain.Room
		if err := rows.Scan(&r.ID, &r.InspectionID, &r.Name, &r.Description, &r.ImageURL, &r.CreatedAt); err != nil {
			return nil, transient("scan room", err)
		}
		rooms = append(rooms, r)
	}

	if err := rows.Err(); err != nil {
		return nil, transient("iterate rooms", err)
	}

	return rooms, nil
}
