package vectorindex

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/talentsift/talentsift/pkg/types"
)

// PostgresIndex searches chunk vectors stored in Postgres with the pgvector
// extension. The chunks table keys vectors by chunk id and carries an
// insertion serial (ord) for the deterministic tie-break.
type PostgresIndex struct {
	db    *sql.DB
	table string
}

// NewPostgresIndex opens a pgvector-backed index.
func NewPostgresIndex(dsn, table string) (*PostgresIndex, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if table == "" {
		table = "chunks"
	}
	return &PostgresIndex{db: db, table: table}, nil
}

// Init creates the chunks table and the pgvector extension if missing.
func (p *PostgresIndex) Init(ctx context.Context, dimensions int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			order_index INT NOT NULL,
			token_count INT NOT NULL,
			content TEXT NOT NULL,
			file_path TEXT,
			embedding vector(%d) NOT NULL,
			ord BIGSERIAL
		)`, p.table, dimensions),
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init vector index: %w", err)
		}
	}
	return nil
}

// Upsert stores a chunk and its vector.
func (p *PostgresIndex) Upsert(ctx context.Context, chunk *types.Chunk) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, document_id, order_index, token_count, content, file_path, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`, p.table),
		chunk.ID, chunk.DocumentID, chunk.OrderIndex, chunk.TokenCount,
		chunk.Content, chunk.FilePath, pgvector.NewVector(chunk.Vector),
	)
	if err != nil {
		return fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Search returns the k nearest chunks by cosine similarity. The <=> operator
// is cosine distance, so similarity = 1 - distance; ORDER BY includes ord so
// equal similarities keep corpus order.
func (p *PostgresIndex) Search(ctx context.Context, queryVector []float32, k int) ([]Hit, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, 1 - (embedding <=> $1) AS similarity
		FROM %s
		ORDER BY embedding <=> $1 ASC, ord ASC
		LIMIT $2`, p.table),
		pgvector.NewVector(queryVector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %v", types.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var hit Hit
		if err := rows.Scan(&hit.ID, &hit.Similarity); err != nil {
			return nil, fmt.Errorf("scan vector hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: vector search: %v", types.ErrBackendUnavailable, err)
	}
	return hits, nil
}

// Chunk loads a chunk row by id, without its vector.
func (p *PostgresIndex) Chunk(ctx context.Context, id string) (*types.Chunk, error) {
	row := p.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, document_id, order_index, token_count, content, COALESCE(file_path, '')
		FROM %s WHERE id = $1`, p.table), id)

	var chunk types.Chunk
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.OrderIndex,
		&chunk.TokenCount, &chunk.Content, &chunk.FilePath); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chunk %s not found", id)
		}
		return nil, fmt.Errorf("get chunk %s: %w", id, err)
	}
	return &chunk, nil
}

// Close releases the database handle.
func (p *PostgresIndex) Close() error {
	return p.db.Close()
}
