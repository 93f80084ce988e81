package requireddays

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"doctrack/internal/refdata/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists the required-days table in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed required-days store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, entry *models.RequiredDaysEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_action_required_days (id, document_type, action_required, required_days)
		VALUES ($1, $2, $3, $4)`,
		uuid.UUID(entry.ID), entry.DocumentType, entry.ActionRequired, entry.RequiredDays)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert required-days entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.RequiredDaysEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_type, action_required, required_days
		FROM document_action_required_days
		ORDER BY document_type, action_required`)
	if err != nil {
		return nil, fmt.Errorf("list required-days entries: %w", err)
	}
	defer rows.Close()

	out := make([]*models.RequiredDaysEntry, 0)
	for rows.Next() {
		var (
			e       models.RequiredDaysEntry
			entryID uuid.UUID
		)
		if err := rows.Scan(&entryID, &e.DocumentType, &e.ActionRequired, &e.RequiredDays); err != nil {
			return nil, fmt.Errorf("scan required-days entry: %w", err)
		}
		e.ID = id.RequiredDaysID(entryID)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate required-days entries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, entry *models.RequiredDaysEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE document_action_required_days
		SET document_type = $2, action_required = $3, required_days = $4
		WHERE id = $1`,
		uuid.UUID(entry.ID), entry.DocumentType, entry.ActionRequired, entry.RequiredDays)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update required-days entry %s: %w", entry.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update required-days entry %s: %w", entry.ID, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, entryID id.RequiredDaysID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM document_action_required_days WHERE id = $1`, uuid.UUID(entryID))
	if err != nil {
		return fmt.Errorf("delete required-days entry %s: %w", entryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete required-days entry %s: %w", entryID, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) BulkDelete(ctx context.Context, ids []id.RequiredDaysID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, len(ids))
	for i, entryID := range ids {
		raw[i] = uuid.UUID(entryID)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_action_required_days WHERE id = ANY($1)`, pq.Array(raw))
	if err != nil {
		return fmt.Errorf("bulk delete required-days entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) RequiredDays(ctx context.Context, documentType, actionRequired string) (int, error) {
	var days int
	err := s.db.QueryRowContext(ctx, `
		SELECT required_days
		FROM document_action_required_days
		WHERE lower(document_type) = lower($1) AND lower(action_required) = lower($2)`,
		documentType, actionRequired).Scan(&days)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup required days for %s/%s: %w", documentType, actionRequired, err)
	}
	return days, nil
}
