package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
)

// summaryColumns maps the public summary field names onto comparison columns.
// Only values from this map are ever interpolated into SQL.
var summaryColumns = map[string]string{
	"total": "total",
	"q1":    "sim1",
	"q2":    "sim2",
	"q3":    "sim3",
	"q4":    "sim4",
	"q5":    "sim5",
	"q6":    "sim6",
	"q7":    "sim7",
	"q8":    "sim8",
}

// SummaryColumn resolves a public field name to its comparison column.
func SummaryColumn(field string) (string, error) {
	column, ok := summaryColumns[field]
	if !ok {
		return "", apperrors.NewValidationError("field", fmt.Sprintf("unknown summary field %q", field))
	}

	return column, nil
}

// ComparisonsRepository handles data access for stored similarity comparisons.
type ComparisonsRepository struct {
	db *pgxpool.Pool
}

// NewComparisonsRepository creates a new comparisons repository.
func NewComparisonsRepository(db *pgxpool.Pool) *ComparisonsRepository {
	return &ComparisonsRepository{db: db}
}

// Insert stores a comparison. Re-running a comparison for the same respondent
// appends a new row rather than overwriting the previous one.
func (r *ComparisonsRepository) Insert(ctx context.Context, comparison *models.Comparison) (*models.Comparison, error) {
	stored := *comparison

	err := r.db.QueryRow(ctx, `
		INSERT INTO comparisons (uid, reference_uid, sim1, sim2, sim3, sim4, sim5, sim6, sim7, sim8, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`,
		comparison.UID, comparison.ReferenceUID,
		comparison.Scores[0], comparison.Scores[1], comparison.Scores[2], comparison.Scores[3],
		comparison.Scores[4], comparison.Scores[5], comparison.Scores[6], comparison.Scores[7],
		comparison.Total,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comparison: %w", err)
	}

	return &stored, nil
}

// List retrieves stored comparisons, oldest first. When uid is non-zero only
// that respondent's comparisons are returned.
func (r *ComparisonsRepository) List(ctx context.Context, uid int64, limit int) ([]models.Comparison, error) {
	query := `
		SELECT id, uid, reference_uid, sim1, sim2, sim3, sim4, sim5, sim6, sim7, sim8, total, created_at
		FROM comparisons
	`

	args := []any{}
	argCount := 1

	if uid != 0 {
		query += fmt.Sprintf(" WHERE uid = $%d", argCount)

		args = append(args, uid)
		argCount++
	}

	query += " ORDER BY id"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)

		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	defer rows.Close()

	comparisons := []models.Comparison{} // Initialize as empty slice, not nil

	for rows.Next() {
		var comparison models.Comparison

		err := rows.Scan(
			&comparison.ID, &comparison.UID, &comparison.ReferenceUID,
			&comparison.Scores[0], &comparison.Scores[1], &comparison.Scores[2], &comparison.Scores[3],
			&comparison.Scores[4], &comparison.Scores[5], &comparison.Scores[6], &comparison.Scores[7],
			&comparison.Total, &comparison.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}

		comparisons = append(comparisons, comparison)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparisons: %w", err)
	}

	return comparisons, nil
}

// AverageForUIDs returns the mean of the chosen summary field over all
// comparisons of the given respondents, excluding values at or below floor.
// An empty uid set or a set with no surviving values yields 0, not an error.
func (r *ComparisonsRepository) AverageForUIDs(ctx context.Context, uids []int64, field string, floor float64) (float64, error) {
	column, err := SummaryColumn(field)
	if err != nil {
		return 0, err
	}

	if len(uids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(AVG(%s), 0)
		FROM comparisons
		WHERE uid = ANY($1) AND %s > $2
	`, column, column)

	var mean float64

	if err := r.db.QueryRow(ctx, query, uids, floor).Scan(&mean); err != nil {
		return 0, fmt.Errorf("failed to average %s: %w", field, err)
	}

	return mean, nil
}
