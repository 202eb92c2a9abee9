package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/semalign/hub/internal/models"
)

// EmbeddingsRepository handles data access for stored answer embeddings.
type EmbeddingsRepository struct {
	db *pgxpool.Pool
}

// NewEmbeddingsRepository creates a new embeddings repository.
func NewEmbeddingsRepository(db *pgxpool.Pool) *EmbeddingsRepository {
	return &EmbeddingsRepository{db: db}
}

// VectorsByUID returns the stored embedding for each answer slot of a
// respondent, keyed by slot (1-based). A respondent created through the
// service always has all eight; callers check completeness themselves.
func (r *EmbeddingsRepository) VectorsByUID(ctx context.Context, uid int64) (map[int][]float32, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot, embedding FROM answer_embeddings WHERE uid = $1 ORDER BY slot
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings for uid %d: %w", uid, err)
	}
	defer rows.Close()

	vectors := make(map[int][]float32, models.SlotCount)

	for rows.Next() {
		var (
			slot int
			vec  pgvector.Vector
		)

		if err := rows.Scan(&slot, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}

		vectors[slot] = vec.Slice()
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating embeddings: %w", err)
	}

	return vectors, nil
}

// FindDuplicateAnswerVector looks for an already-embedded answer in the same
// slot whose body matches case-insensitively, and returns its vector. The
// lookup hits the (slot, lower(body)) index; ORDER BY uid makes the choice
// deterministic when several respondents gave the same answer. Returns
// (nil, nil) when no duplicate exists.
func (r *EmbeddingsRepository) FindDuplicateAnswerVector(ctx context.Context, slot int, loweredBody string) ([]float32, error) {
	var vec pgvector.Vector

	err := r.db.QueryRow(ctx, `
		SELECT ae.embedding
		FROM answers a
		JOIN answer_embeddings ae ON ae.uid = a.uid AND ae.slot = a.slot
		WHERE a.slot = $1 AND lower(a.body) = $2
		ORDER BY a.uid
		LIMIT 1
	`, slot, loweredBody).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to find duplicate answer vector: %w", err)
	}

	return vec.Slice(), nil
}
