package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Create stores a new document. Existing IDs are left untouched.
func (s *documentStore) Create(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, file_path, summary, metadata, embedding_model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, doc.ID, doc.Name, doc.FilePath, doc.Summary, string(metadataJSON), doc.EmbeddingModel, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}
	return nil
}

// Get retrieves a document, including its transcript.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, file_path, summary, metadata, embedding_model, created_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	history, err := loadHistory(ctx, s.store.db, id)
	if err != nil {
		return nil, err
	}
	doc.History = history

	return doc, nil
}

// List returns every document ordered by creation time.
func (s *documentStore) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, summary FROM documents ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.DocumentSummary{}
	for rows.Next() {
		var d domain.DocumentSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Summary); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// History returns the transcript of a document.
func (s *documentStore) History(ctx context.Context, id string) ([]domain.ChatTurn, error) {
	if err := documentExists(ctx, s.store.db, id); err != nil {
		return nil, err
	}
	return loadHistory(ctx, s.store.db, id)
}

// AppendTurns adds turns to the end of a transcript in a single transaction.
func (s *documentStore) AppendTurns(ctx context.Context, id string, turns ...domain.ChatTurn) ([]domain.ChatTurn, error) {
	for _, turn := range turns {
		if !turn.Role.IsValid() {
			return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidInput, turn.Role)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := documentExists(ctx, tx, id); err != nil {
		return nil, err
	}

	var next int
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM chat_turns WHERE document_id = ?", id)
	if err := row.Scan(&next); err != nil {
		return nil, fmt.Errorf("reading transcript position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chat_turns (document_id, position, role, content) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, turn := range turns {
		if _, err := stmt.ExecContext(ctx, id, next+i, string(turn.Role), turn.Content); err != nil {
			return nil, fmt.Errorf("saving chat turn: %w", err)
		}
	}

	history, err := loadHistory(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return history, nil
}

// Delete removes a document and its transcript.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func documentExists(ctx context.Context, q querier, id string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	return nil
}

func loadHistory(ctx context.Context, q querier, id string) ([]domain.ChatTurn, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT role, content FROM chat_turns WHERE document_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying chat turns: %w", err)
	}
	defer rows.Close()

	history := []domain.ChatTurn{}
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scanning chat turn: %w", err)
		}
		history = append(history, domain.ChatTurn{Role: domain.Role(role), Content: content})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat turns: %w", err)
	}

	return history, nil
}

// scanDocument scans a document from a single row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string

	if err := row.Scan(&doc.ID, &doc.Name, &doc.FilePath, &doc.Summary,
		&metadataJSON, &doc.EmbeddingModel, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}
