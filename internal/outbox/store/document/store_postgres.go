package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

// PostgresStore persists documents in PostgreSQL. The destination cascade is
// carried by the foreign key's ON DELETE CASCADE, so deletes are atomic
// without application-level bookkeeping.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `id, document_control_no, route_no, document_type, source_type,
	internal_originating_office, internal_originating_employee,
	external_originating_office, external_originating_employee,
	subject, remarks, no_of_pages, attached_document_filename, attachment_list,
	reference_document_control_no_1, reference_document_control_no_2,
	reference_document_control_no_3, reference_document_control_no_4,
	reference_document_control_no_5, created_at`

func (s *PostgresStore) Insert(ctx context.Context, doc *models.Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_source (
			id, document_control_no, route_no, document_type, source_type,
			internal_originating_office, internal_originating_employee,
			external_originating_office, external_originating_employee,
			subject, remarks, no_of_pages, attached_document_filename,
			attachment_list, reference_document_control_no_1,
			reference_document_control_no_2, reference_document_control_no_3,
			reference_document_control_no_4, reference_document_control_no_5,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20)`,
		uuid.UUID(doc.ID), doc.DocumentControlNo, doc.RouteNo, doc.DocumentType,
		string(doc.SourceType), doc.InternalOriginatingOffice,
		doc.InternalOriginatingEmployee, doc.ExternalOriginatingOffice,
		doc.ExternalOriginatingEmployee, doc.Subject, doc.Remarks, doc.NoOfPages,
		doc.AttachedDocumentFilename, doc.AttachmentList,
		doc.ReferenceDocumentControlNos[0], doc.ReferenceDocumentControlNos[1],
		doc.ReferenceDocumentControlNos[2], doc.ReferenceDocumentControlNos[3],
		doc.ReferenceDocumentControlNos[4], doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM document_source WHERE id = $1`, uuid.UUID(docID))
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM document_source ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, docID id.DocumentID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM document_source WHERE id = $1`, uuid.UUID(docID))
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) BulkDelete(ctx context.Context, ids []id.DocumentID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, len(ids))
	for i, docID := range ids {
		raw[i] = uuid.UUID(docID)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM document_source WHERE id = ANY($1)`, pq.Array(raw))
	if err != nil {
		return fmt.Errorf("bulk delete documents: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc        models.Document
		docID      uuid.UUID
		sourceType string
	)
	err := row.Scan(&docID, &doc.DocumentControlNo, &doc.RouteNo,
		&doc.DocumentType, &sourceType, &doc.InternalOriginatingOffice,
		&doc.InternalOriginatingEmployee, &doc.ExternalOriginatingOffice,
		&doc.ExternalOriginatingEmployee, &doc.Subject, &doc.Remarks,
		&doc.NoOfPages, &doc.AttachedDocumentFilename, &doc.AttachmentList,
		&doc.ReferenceDocumentControlNos[0], &doc.ReferenceDocumentControlNos[1],
		&doc.ReferenceDocumentControlNos[2], &doc.ReferenceDocumentControlNos[3],
		&doc.ReferenceDocumentControlNos[4], &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.ID = id.DocumentID(docID)
	doc.SourceType = models.SourceType(sourceType)
	return &doc, nil
}
