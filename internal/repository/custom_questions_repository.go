package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semalign/hub/internal/models"
)

// CustomQuestionsRepository handles data access for ad-hoc question records.
type CustomQuestionsRepository struct {
	db *pgxpool.Pool
}

// NewCustomQuestionsRepository creates a new custom questions repository.
func NewCustomQuestionsRepository(db *pgxpool.Pool) *CustomQuestionsRepository {
	return &CustomQuestionsRepository{db: db}
}

// Insert stores an answered custom question and its similarity score.
func (r *CustomQuestionsRepository) Insert(ctx context.Context, question *models.CustomQuestion) (*models.CustomQuestion, error) {
	stored := *question

	err := r.db.QueryRow(ctx, `
		INSERT INTO custom_questions (question, human_answer, reference_answer, similarity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, question.Question, question.HumanAnswer, question.ReferenceAnswer, question.Similarity).Scan(
		&stored.ID, &stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert custom question: %w", err)
	}

	return &stored, nil
}

// List retrieves stored custom questions, oldest first.
func (r *CustomQuestionsRepository) List(ctx context.Context, limit int) ([]models.CustomQuestion, error) {
	query := `
		SELECT id, question, human_answer, reference_answer, similarity, created_at
		FROM custom_questions
		ORDER BY id
	`

	args := []any{}

	if limit > 0 {
		query += " LIMIT $1"

		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom questions: %w", err)
	}
	defer rows.Close()

	questions := []models.CustomQuestion{} // Initialize as empty slice, not nil

	for rows.Next() {
		var question models.CustomQuestion

		err := rows.Scan(
			&question.ID, &question.Question, &question.HumanAnswer,
			&question.ReferenceAnswer, &question.Similarity, &question.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom question: %w", err)
		}

		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating custom questions: %w", err)
	}

	return questions, nil
}
