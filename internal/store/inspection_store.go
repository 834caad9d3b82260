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

const inspectionColumns = `i.id, i.property_id, i.inspector_id, i.status, i.inspection_date, i.observations,
	i.created_at, i.updated_at`

type InspectionStore struct {
	db *db.DB
}

func NewInspectionStore(d *db.DB) *InspectionStore {
	return &InspectionStore{db: d}
}

// Create inserts in. A zero InspectionDate defaults to the creation time.
func (s *InspectionStore) Create(ctx context.Context, in *domain.Inspection) (*domain.Inspection, error) {
	row := *in
	row.ID = uuid.NewString()
	row.CreatedAt = clock.next()
	row.UpdatedAt = row.CreatedAt
	if row.InspectionDate.IsZero() {
		row.InspectionDate = row.CreatedAt
	}
	row.InspectionDate = row.InspectionDate.UTC()
	if row.Status == "" {
		row.Status = domain.StatusPending
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO inspections (id, property_id, inspector_id, status, inspection_date, observations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), row.ID, row.PropertyID, row.InspectorID, string(row.Status), row.InspectionDate, row.Observations,
		row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return nil, transient("create inspection", err)
	}

	return &row, nil
}

func (s *InspectionStore) GetByID(ctx context.Context, id string) (*domain.Inspection, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+inspectionColumns+` FROM inspections i WHERE i.id = ?
	`), id)

	in, err := scanInspection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, transient("get inspection", err)
	}
	return in, nil
}

// LatestInProgress returns the newest in_progress inspection opened by
// inspectorID, or nil when there is none.
func (s *InspectionStore) LatestInProgress(ctx context.Context, inspectorID string) (*domain.Inspection, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+inspectionColumns+` FROM inspections i
		WHERE i.inspector_id = ? AND i.status = ?
		ORDER BY i.created_at DESC
		LIMIT 1
	`), inspectorID, string(domain.StatusInProgress))

	in, err := scanInspection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, transient("get current inspection", err)
	}
	return in, nil
}

// ListByInspector returns every inspection of inspectorID with its property,
// newest first.
func (s *InspectionStore) ListByInspector(ctx context.Context, inspectorID string) ([]domain.InspectionListing, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+inspectionColumns+`,
			p.id, p.title, p.type, p.subtype, p.area, p.value, p.registration_number, p.street, p.number,
			p.complement, p.neighborhood, p.city, p.state, p.zip_code, p.created_by, p.created_at, p.updated_at
		FROM inspections i
		JOIN properties p ON p.id = i.property_id
		WHERE i.inspector_id = ?
		ORDER BY i.created_at DESC
	`), inspectorID)
	if err != nil {
		return nil, transient("list inspections", err)
	}
	defer closeRows(rows)

	var listings []domain.InspectionListing
	for rows.Next() {
		var (
			l           domain.InspectionListing
			p           domain.Property
			status      string
			area, value sql.NullFloat64
		)
		err := rows.Scan(&l.ID, &l.PropertyID, &l.InspectorID, &status, &l.InspectionDate, &l.Observations,
			&l.CreatedAt, &l.UpdatedAt,
			&p.ID, &p.Title, &p.Type, &p.Subtype, &area, &value, &p.RegistrationNumber, &p.Street, &p.Number,
			&p.Complement, &p.Neighborhood, &p.City, &p.State, &p.ZipCode, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, transient("scan inspection", err)
		}
		l.Status = domain.InspectionStatus(status)
		p.Area = floatPtr(area)
		p.Value = floatPtr(value)
		l.Property = &p
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, transient("iterate inspections", err)
	}

	return listings, nil
}

// UpdateStatus moves the inspection from one status to another. The write is
// conditional on the stored status still being from; if another writer got
// there first the call fails with domain.ErrConflict.
func (s *InspectionStore) UpdateStatus(ctx context.Context, id string, from, to domain.InspectionStatus) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE inspections SET status = ?, updated_at = ? WHERE id = ? AND status = ?
	`), string(to), clock.next(), id, string(from))
	if err != nil {
		return transient("update inspection status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("inspection %s is no longer %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

// Delete removes the inspection. Rooms, items and images go with it.
func (s *InspectionStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM inspections WHERE id = ?`), id)
	if err != nil {
		return transient("delete inspection", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("inspection %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanInspection(r scanner) (*domain.Inspection, error) {
	in := &domain.Inspection{}
	var status string
	err := r.Scan(&in.ID, &in.PropertyID, &in.InspectorID, &status, &in.InspectionDate, &in.Observations,
		&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	in.Status = domain.InspectionStatus(status)
	return in, nil
}
