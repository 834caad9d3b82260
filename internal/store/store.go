package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/vistoria/internal/domain"
)

// stamper hands out strictly increasing UTC timestamps at microsecond
// precision, the finest resolution postgres keeps. Rows created within the
// same tick still sort in insertion order by created_at.
type stamper struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

var clock = &stamper{now: time.Now}

func (s *stamper) next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// transient marks a driver failure as retryable for callers.
func transient(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrTransient, err)
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

type scanner interface {
	Scan(dest ...any) error
}
