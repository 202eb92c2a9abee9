package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semalign/hub/internal/models"
	"github.com/semalign/hub/pkg/database"
)

// newTestPool connects to the database named by TEST_DATABASE_URL. Tests
// using it are skipped when the variable is unset, so the rest of the suite
// runs without a database.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	pool, err := database.NewPostgresPool(context.Background(), databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// createTestRespondent inserts a bare respondent row and returns its uid.
// The row (and its comparisons) are removed when the test finishes.
func createTestRespondent(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	ctx := context.Background()

	var uid int64

	err := pool.QueryRow(ctx, "INSERT INTO respondents (name) VALUES ($1) RETURNING uid", name).Scan(&uid)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, err := pool.Exec(ctx, "DELETE FROM comparisons WHERE uid = $1", uid)
		assert.NoError(t, err)

		_, err = pool.Exec(ctx, "DELETE FROM respondents WHERE uid = $1", uid)
		assert.NoError(t, err)
	})

	return uid
}

func insertTestComparison(t *testing.T, repo *ComparisonsRepository, uid, referenceUID int64, total float64) {
	t.Helper()

	comparison := &models.Comparison{UID: uid, ReferenceUID: referenceUID, Total: total}
	for i := range comparison.Scores {
		comparison.Scores[i] = total
	}

	stored, err := repo.Insert(context.Background(), comparison)
	require.NoError(t, err)
	require.NotZero(t, stored.ID)
}

func TestComparisonsRepository_AverageForUIDs_DB(t *testing.T) {
	pool := newTestPool(t)
	repo := NewComparisonsRepository(pool)
	ctx := context.Background()

	reference := createTestRespondent(t, pool, "average-test-reference")
	first := createTestRespondent(t, pool, "average-test-first")
	second := createTestRespondent(t, pool, "average-test-second")
	silent := createTestRespondent(t, pool, "average-test-silent")

	insertTestComparison(t, repo, first, reference, 0.2)
	insertTestComparison(t, repo, first, reference, 0.6)
	insertTestComparison(t, repo, second, reference, 0.8)

	t.Run("floor excludes values at or below it", func(t *testing.T) {
		mean, err := repo.AverageForUIDs(ctx, []int64{first, second}, "total", 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 0.7, mean, 1e-9)
	})

	t.Run("floor of zero keeps every positive value", func(t *testing.T) {
		mean, err := repo.AverageForUIDs(ctx, []int64{first, second}, "total", 0)
		require.NoError(t, err)
		assert.InDelta(t, (0.2+0.6+0.8)/3, mean, 1e-9)
	})

	t.Run("every comparison row counts, not just the latest", func(t *testing.T) {
		mean, err := repo.AverageForUIDs(ctx, []int64{first}, "total", 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.4, mean, 1e-9)
	})

	t.Run("no surviving values yields zero", func(t *testing.T) {
		mean, err := repo.AverageForUIDs(ctx, []int64{silent}, "total", 0)
		require.NoError(t, err)
		assert.Zero(t, mean)

		mean, err = repo.AverageForUIDs(ctx, []int64{first, second}, "total", 0.9)
		require.NoError(t, err)
		assert.Zero(t, mean)
	})

	t.Run("per-question field averages its column", func(t *testing.T) {
		mean, err := repo.AverageForUIDs(ctx, []int64{second}, "q3", 0)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, mean, 1e-9)
	})
}
