package destination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists destinations in PostgreSQL. Sequence uniqueness is
// enforced by the (document_source_id, sequence_no) unique index; Execute
// uses SELECT ... FOR UPDATE so preconditions hold until commit.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed destination store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const destinationColumns = `id, document_source_id, sequence_no, destination_office,
	employee_action_officer, action_required, required_days, released_at,
	required_at, received_at, acted_upon_at, remarks, action_taken,
	remarks_on_action_taken, created_at`

func (s *PostgresStore) InsertMany(ctx context.Context, drafts []*models.Destination) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert destinations: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range drafts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO document_destination (
				id, document_source_id, sequence_no, destination_office,
				employee_action_officer, action_required, required_days,
				released_at, required_at, received_at, acted_upon_at,
				remarks, action_taken, remarks_on_action_taken, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			uuid.UUID(d.ID), uuid.UUID(d.DocumentID), d.SequenceNo,
			d.DestinationOffice, d.EmployeeActionOfficer, d.ActionRequired,
			nullInt(d.RequiredDays), nullTime(d.ReleasedAt), nullTime(d.RequiredAt),
			nullTime(d.ReceivedAt), nullTime(d.ActedUponAt),
			d.Remarks, d.ActionTaken, d.RemarksOnActionTaken, d.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return sentinel.ErrDuplicateSequence
			}
			return fmt.Errorf("insert destination %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert destinations: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByDocument(ctx context.Context, docID id.DocumentID) ([]*models.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+destinationColumns+`
		FROM document_destination
		WHERE document_source_id = $1
		ORDER BY sequence_no`, uuid.UUID(docID))
	if err != nil {
		return nil, fmt.Errorf("list destinations for %s: %w", docID, err)
	}
	defer rows.Close()

	out := make([]*models.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destinations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, destID id.DestinationID) (*models.Destination, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+destinationColumns+`
		FROM document_destination
		WHERE id = $1`, uuid.UUID(destID))
	d, err := scanDestination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Execute re-reads the row under FOR UPDATE, re-validates the precondition,
// applies the mutation, and writes back in one transaction. A validate
// failure rolls back without touching the row.
func (s *PostgresStore) Execute(ctx context.Context, destID id.DestinationID,
	validate func(*models.Destination) error,
	mutate func(*models.Destination)) (*models.Destination, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition for %s: %w", destID, err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT `+destinationColumns+`
		FROM document_destination
		WHERE id = $1
		FOR UPDATE`, uuid.UUID(destID))
	d, err := scanDestination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := validate(d); err != nil {
		return nil, err
	}
	mutate(d)

	_, err = tx.ExecContext(ctx, `
		UPDATE document_destination SET
			required_days = $2, released_at = $3, required_at = $4,
			received_at = $5, acted_upon_at = $6, remarks = $7,
			action_taken = $8, remarks_on_action_taken = $9
		WHERE id = $1`,
		uuid.UUID(d.ID), nullInt(d.RequiredDays), nullTime(d.ReleasedAt),
		nullTime(d.RequiredAt), nullTime(d.ReceivedAt), nullTime(d.ActedUponAt),
		d.Remarks, d.ActionTaken, d.RemarksOnActionTaken,
	)
	if err != nil {
		return nil, fmt.Errorf("update destination %s: %w", destID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition for %s: %w", destID, err)
	}
	return d, nil
}

func (s *PostgresStore) Delete(ctx context.Context, destID id.DestinationID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM document_destination WHERE id = $1`, uuid.UUID(destID))
	if err != nil {
		return fmt.Errorf("delete destination %s: %w", destID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete destination %s: %w", destID, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) BulkDelete(ctx context.Context, ids []id.DestinationID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, len(ids))
	for i, destID := range ids {
		raw[i] = uuid.UUID(destID)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_destination WHERE id = ANY($1)`, pq.Array(raw))
	if err != nil {
		return fmt.Errorf("bulk delete destinations: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDestination(row rowScanner) (*models.Destination, error) {
	var (
		d           models.Destination
		destID      uuid.UUID
		docID       uuid.UUID
		days        sql.NullInt64
		releasedAt  sql.NullTime
		requiredAt  sql.NullTime
		receivedAt  sql.NullTime
		actedUponAt sql.NullTime
	)
	err := row.Scan(&destID, &docID, &d.SequenceNo, &d.DestinationOffice,
		&d.EmployeeActionOfficer, &d.ActionRequired, &days, &releasedAt,
		&requiredAt, &receivedAt, &actedUponAt, &d.Remarks, &d.ActionTaken,
		&d.RemarksOnActionTaken, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan destination: %w", err)
	}
	d.ID = id.DestinationID(destID)
	d.DocumentID = id.DocumentID(docID)
	if days.Valid {
		v := int(days.Int64)
		d.RequiredDays = &v
	}
	d.ReleasedAt = timePtr(releasedAt)
	d.RequiredAt = timePtr(requiredAt)
	d.ReceivedAt = timePtr(receivedAt)
	d.ActedUponAt = timePtr(actedUponAt)
	return &d, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
