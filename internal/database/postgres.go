package database

import (
	"context"
	"fmt"
	"time"

	"tender-rag/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultStatementTimeout bounds a single store operation.
const DefaultStatementTimeout = 30 * time.Second

// DB wraps the shared connection pool. Dimensions fixes the width of the
// embedding column; vectors of any other length are rejected before they
// reach the database.
type DB struct {
	Pool       *pgxpool.Pool
	Dimensions int
	Timeout    time.Duration
}

// NewDB creates a new database connection pool.
func NewDB(ctx context.Context, connStr string, dimensions int) (*DB, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool, Dimensions: dimensions, Timeout: DefaultStatementTimeout}, nil
}

// Initialize sets up the tables and indices.
func (db *DB) Initialize(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS tender (
            tender_id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'draft'
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create tender table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS tender_section (
            section_id TEXT PRIMARY KEY,
            tender_id TEXT NOT NULL REFERENCES tender(tender_id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            body TEXT NOT NULL DEFAULT '',
            position INTEGER NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create tender_section table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS tender_chunk (
            id SERIAL PRIMARY KEY,
            tender_id TEXT NOT NULL REFERENCES tender(tender_id) ON DELETE CASCADE,
            section_id TEXT,
            content TEXT NOT NULL,
            embedding vector(%d) NOT NULL
        )
    `, db.Dimensions))
	if err != nil {
		return fmt.Errorf("failed to create tender_chunk table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS tender_chunk_embedding_idx ON tender_chunk
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS tender_chunk_tender_idx ON tender_chunk (tender_id)
	`)
	if err != nil {
		return fmt.Errorf("failed to create tender index: %w", err)
	}

	return nil
}

// ReplaceChunks atomically swaps the chunk set for one tender. Delete and
// insert run inside a single transaction, so concurrent readers see either
// the complete old set or the complete new set, and any failure leaves the
// old set intact.
func (db *DB) ReplaceChunks(ctx context.Context, tenderID string, chunks []models.Chunk) error {
	for _, chunk := range chunks {
		if len(chunk.Embedding) != db.Dimensions {
			return fmt.Errorf("%w: chunk has %d dimensions, store expects %d",
				models.ErrDimensionMismatch, len(chunk.Embedding), db.Dimensions)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, db.Timeout)
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tender_chunk WHERE tender_id = $1`, tenderID); err != nil {
		return fmt.Errorf("failed to delete existing chunks: %w", err)
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(`
            INSERT INTO tender_chunk (tender_id, section_id, content, embedding)
            VALUES ($1, $2, $3, $4)
        `, tenderID, chunk.SectionID, chunk.Content, chunk.Embedding)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chunk replacement: %w", err)
	}

	return nil
}

// QueryNearest returns up to k chunks of one tender ordered by ascending
// cosine distance to the query embedding. A tender with no chunks yields
// an empty result, not an error.
func (db *DB) QueryNearest(ctx context.Context, tenderID string, embedding []float64, k int) ([]models.Chunk, error) {
	ctx, cancel := context.WithTimeout(ctx, db.Timeout)
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT tender_id, section_id, content
		FROM tender_chunk
		WHERE tender_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`, tenderID, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		if err := rows.Scan(&chunk.TenderID, &chunk.SectionID, &chunk.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunk rows: %w", err)
	}

	return chunks, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
