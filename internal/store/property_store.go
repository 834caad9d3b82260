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

const propertyColumns = `id, title, type, subtype, area, value, registration_number, street, number,
	complement, neighborhood, city, state, zip_code, created_by, created_at, updated_at`

type PropertyStore struct {
	db *db.DB
}

func NewPropertyStore(d *db.DB) *PropertyStore {
	return &PropertyStore{db: d}
}

// Create inserts p, assigning its ID and timestamps.
func (s *PropertyStore) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	row := *p
	row.ID = uuid.NewString()
	row.CreatedAt = clock.next()
	row.UpdatedAt = row.CreatedAt

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), row.ID, row.Title, row.Type, row.Subtype, nullFloat(row.Area), nullFloat(row.Value),
		row.RegistrationNumber, row.Street, row.Number, row.Complement, row.Neighborhood,
		row.City, row.State, row.ZipCode, row.CreatedBy, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return nil, transient("create property", err)
	}

	return &row, nil
}

func (s *PropertyStore) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+propertyColumns+` FROM properties WHERE id = ?
	`), id)

	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, transient("get property", err)
	}
	return p, nil
}

func (s *PropertyStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM properties WHERE id = ?`), id)
	if err != nil {
		return transient("delete property", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanProperty(r scanner) (*domain.Property, error) {
	p := &domain.Property{}
	var area, value sql.NullFloat64
	err := r.Scan(&p.ID, &p.Title, &p.Type, &p.Subtype, &area, &value, &p.RegistrationNumber,
		&p.Street, &p.Number, &p.Complement, &p.Neighborhood, &p.City, &p.State, &p.ZipCode,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Area = floatPtr(area)
	p.Value = floatPtr(value)
	return p, nil
}
