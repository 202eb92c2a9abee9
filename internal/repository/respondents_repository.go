// Package repository provides data access for respondents, comparisons, and custom questions.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
)

// RespondentsRepository handles data access for respondents and their answers.
type RespondentsRepository struct {
	db *pgxpool.Pool
}

// NewRespondentsRepository creates a new respondents repository.
func NewRespondentsRepository(db *pgxpool.Pool) *RespondentsRepository {
	return &RespondentsRepository{db: db}
}

// CreateWithVectors inserts a respondent, their answers, and the resolved
// embedding for each answer in a single transaction. Either every row lands
// or none do, so a respondent can never exist with missing vectors.
func (r *RespondentsRepository) CreateWithVectors(
	ctx context.Context,
	req *models.CreateRespondentRequest,
	vectors [models.SlotCount][]float32,
	model string,
) (*models.Respondent, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var respondent models.Respondent

	err = tx.QueryRow(ctx, `
		INSERT INTO respondents (name, age, gender, ethnicity, education, income)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uid, name, age, gender, ethnicity, education, income, created_at
	`, req.Name, req.Age, req.Gender, req.Ethnicity, req.Education, req.Income).Scan(
		&respondent.UID, &respondent.Name, &respondent.Age, &respondent.Gender,
		&respondent.Ethnicity, &respondent.Education, &respondent.Income, &respondent.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create respondent: %w", err)
	}

	for i, body := range req.Answers {
		slot := i + 1

		if _, err := tx.Exec(ctx, `
			INSERT INTO answers (uid, slot, body) VALUES ($1, $2, $3)
		`, respondent.UID, slot, body); err != nil {
			return nil, fmt.Errorf("failed to insert answer %d: %w", slot, err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO answer_embeddings (uid, slot, embedding, model) VALUES ($1, $2, $3, $4)
		`, respondent.UID, slot, pgvector.NewVector(vectors[i]), model); err != nil {
			return nil, fmt.Errorf("failed to insert embedding %d: %w", slot, err)
		}

		respondent.Answers[i] = body
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit respondent: %w", err)
	}

	return &respondent, nil
}

// GetByUID retrieves a respondent and their eight answers.
func (r *RespondentsRepository) GetByUID(ctx context.Context, uid int64) (*models.Respondent, error) {
	var respondent models.Respondent

	err := r.db.QueryRow(ctx, `
		SELECT uid, name, age, gender, ethnicity, education, income, created_at
		FROM respondents
		WHERE uid = $1
	`, uid).Scan(
		&respondent.UID, &respondent.Name, &respondent.Age, &respondent.Gender,
		&respondent.Ethnicity, &respondent.Education, &respondent.Income, &respondent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("respondent", "respondent not found")
		}

		return nil, fmt.Errorf("failed to get respondent: %w", err)
	}

	if err := r.loadAnswers(ctx, &respondent); err != nil {
		return nil, err
	}

	return &respondent, nil
}

func (r *RespondentsRepository) loadAnswers(ctx context.Context, respondent *models.Respondent) error {
	rows, err := r.db.Query(ctx, `
		SELECT slot, body FROM answers WHERE uid = $1 ORDER BY slot
	`, respondent.UID)
	if err != nil {
		return fmt.Errorf("failed to load answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			slot int
			body string
		)

		if err := rows.Scan(&slot, &body); err != nil {
			return fmt.Errorf("failed to scan answer: %w", err)
		}

		if slot < 1 || slot > models.SlotCount {
			return fmt.Errorf("answer slot %d out of range for uid %d", slot, respondent.UID)
		}

		respondent.Answers[slot-1] = body
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating answers: %w", err)
	}

	return nil
}

// List retrieves respondents in uid order with optional limit and offset.
func (r *RespondentsRepository) List(ctx context.Context, limit, offset int) ([]models.Respondent, error) {
	query := `
		SELECT uid, name, age, gender, ethnicity, education, income, created_at
		FROM respondents
		ORDER BY uid
	`

	args := []any{}
	argCount := 1

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)

		args = append(args, limit)
		argCount++
	}

	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)

		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list respondents: %w", err)
	}
	defer rows.Close()

	respondents := []models.Respondent{} // Initialize as empty slice, not nil

	for rows.Next() {
		var respondent models.Respondent

		err := rows.Scan(
			&respondent.UID, &respondent.Name, &respondent.Age, &respondent.Gender,
			&respondent.Ethnicity, &respondent.Education, &respondent.Income, &respondent.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan respondent: %w", err)
		}

		respondents = append(respondents, respondent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating respondents: %w", err)
	}

	for i := range respondents {
		if err := r.loadAnswers(ctx, &respondents[i]); err != nil {
			return nil, err
		}
	}

	return respondents, nil
}

// ListDemographics retrieves uid and the five demographic fields for every
// respondent, without answers. Used by the demographics summary.
func (r *RespondentsRepository) ListDemographics(ctx context.Context) ([]models.Respondent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT uid, age, gender, ethnicity, education, income
		FROM respondents
		ORDER BY uid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list demographics: %w", err)
	}
	defer rows.Close()

	respondents := []models.Respondent{}

	for rows.Next() {
		var respondent models.Respondent

		err := rows.Scan(
			&respondent.UID, &respondent.Age, &respondent.Gender,
			&respondent.Ethnicity, &respondent.Education, &respondent.Income,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan demographics row: %w", err)
		}

		respondents = append(respondents, respondent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demographics: %w", err)
	}

	return respondents, nil
}

// Count returns the total number of respondents.
func (r *RespondentsRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM respondents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count respondents: %w", err)
	}

	return count, nil
}
