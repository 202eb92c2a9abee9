package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
)

// fakeVectorStore serves vectors from a map keyed by uid.
type fakeVectorStore struct {
	vectors map[int64]map[int][]float32
}

func (s *fakeVectorStore) VectorsByUID(_ context.Context, uid int64) (map[int][]float32, error) {
	return s.vectors[uid], nil
}

// fakeComparisonStore keeps inserted comparisons in memory.
type fakeComparisonStore struct {
	comparisons []models.Comparison
}

func (s *fakeComparisonStore) Insert(_ context.Context, comparison *models.Comparison) (*models.Comparison, error) {
	stored := *comparison
	stored.ID = int64(len(s.comparisons) + 1)
	stored.CreatedAt = time.Now()

	s.comparisons = append(s.comparisons, stored)

	return &stored, nil
}

func (s *fakeComparisonStore) List(_ context.Context, uid int64, limit int) ([]models.Comparison, error) {
	result := []models.Comparison{}

	for _, c := range s.comparisons {
		if uid != 0 && c.UID != uid {
			continue
		}

		result = append(result, c)

		if limit > 0 && len(result) == limit {
			break
		}
	}

	return result, nil
}

// fullVectorSet builds a complete slot->vector map from one base vector,
// reused for every slot.
func fullVectorSet(base []float32) map[int][]float32 {
	vectors := make(map[int][]float32, models.SlotCount)
	for slot := 1; slot <= models.SlotCount; slot++ {
		vectors[slot] = base
	}

	return vectors
}

func TestSimilarityServiceScoreAndStore(t *testing.T) {
	ctx := context.Background()

	t.Run("identical answer sets score all ones", func(t *testing.T) {
		vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
			1: fullVectorSet([]float32{1, 0, 0}),
			2: fullVectorSet([]float32{1, 0, 0}),
		}}
		comparisonStore := &fakeComparisonStore{}
		svc := NewSimilarityService(vectorStore, comparisonStore, 1, nil)

		comparison, err := svc.ScoreAndStore(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(2), comparison.UID)
		assert.Equal(t, int64(1), comparison.ReferenceUID)

		for slot, score := range comparison.Scores {
			assert.InDelta(t, 1.0, score, 1e-9, "slot %d", slot+1)
		}

		assert.InDelta(t, 1.0, comparison.Total, 1e-9)
		assert.Len(t, comparisonStore.comparisons, 1)
	})

	t.Run("total is the mean of the per-question scores", func(t *testing.T) {
		subject := map[int][]float32{}
		reference := map[int][]float32{}

		// Half the slots agree exactly, half are orthogonal.
		for slot := 1; slot <= models.SlotCount; slot++ {
			reference[slot] = []float32{1, 0}

			if slot%2 == 0 {
				subject[slot] = []float32{1, 0}
			} else {
				subject[slot] = []float32{0, 1}
			}
		}

		vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
			1: reference,
			2: subject,
		}}
		svc := NewSimilarityService(vectorStore, &fakeComparisonStore{}, 1, nil)

		comparison, err := svc.ScoreAndStore(ctx, 2)

		require.NoError(t, err)

		var sum float64
		for _, score := range comparison.Scores {
			sum += score
		}

		assert.InDelta(t, sum/models.SlotCount, comparison.Total, 1e-9)
		assert.InDelta(t, 0.5, comparison.Total, 1e-9)
	})

	t.Run("reference against itself is allowed", func(t *testing.T) {
		vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
			1: fullVectorSet([]float32{0.3, 0.4, 0.5}),
		}}
		svc := NewSimilarityService(vectorStore, &fakeComparisonStore{}, 1, nil)

		comparison, err := svc.ScoreAndStore(ctx, 1)

		require.NoError(t, err)
		assert.InDelta(t, 1.0, comparison.Total, 1e-9)
	})

	t.Run("unknown uid yields not found", func(t *testing.T) {
		vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
			1: fullVectorSet([]float32{1, 0}),
		}}
		svc := NewSimilarityService(vectorStore, &fakeComparisonStore{}, 1, nil)

		_, err := svc.ScoreAndStore(ctx, 42)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("incomplete vector set is not found", func(t *testing.T) {
		partial := fullVectorSet([]float32{1, 0})
		delete(partial, 5)

		vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
			1: fullVectorSet([]float32{1, 0}),
			2: partial,
		}}
		svc := NewSimilarityService(vectorStore, &fakeComparisonStore{}, 1, nil)

		_, err := svc.ScoreAndStore(ctx, 2)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "missing the embedding")
	})

	t.Run("re-running a comparison appends a new row", func(t *testing.T) {
		vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
			1: fullVectorSet([]float32{1, 0}),
			2: fullVectorSet([]float32{1, 0}),
		}}
		comparisonStore := &fakeComparisonStore{}
		svc := NewSimilarityService(vectorStore, comparisonStore, 1, nil)

		_, err := svc.ScoreAndStore(ctx, 2)
		require.NoError(t, err)

		_, err = svc.ScoreAndStore(ctx, 2)
		require.NoError(t, err)

		assert.Len(t, comparisonStore.comparisons, 2)
	})
}

func TestSimilarityServiceScoreAndReport(t *testing.T) {
	ctx := context.Background()

	vectorStore := &fakeVectorStore{vectors: map[int64]map[int][]float32{
		3: fullVectorSet([]float32{1, 0}),
		4: fullVectorSet([]float32{0, 1}),
	}}
	comparisonStore := &fakeComparisonStore{}
	svc := NewSimilarityService(vectorStore, comparisonStore, 1, nil)

	report, err := svc.ScoreAndReport(ctx, 3, 4)

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.UIDA)
	assert.Equal(t, int64(4), report.UIDB)
	assert.InDelta(t, 0.0, report.Total, 1e-9)
	assert.Empty(t, comparisonStore.comparisons, "ad hoc reports are never persisted")
}

func TestSimilarityServiceList(t *testing.T) {
	ctx := context.Background()

	comparisonStore := &fakeComparisonStore{}
	svc := NewSimilarityService(&fakeVectorStore{vectors: map[int64]map[int][]float32{
		1: fullVectorSet([]float32{1, 0}),
		2: fullVectorSet([]float32{1, 0}),
		3: fullVectorSet([]float32{1, 0}),
	}}, comparisonStore, 1, nil)

	_, err := svc.ScoreAndStore(ctx, 2)
	require.NoError(t, err)

	_, err = svc.ScoreAndStore(ctx, 3)
	require.NoError(t, err)

	all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	filtered, err := svc.List(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, int64(3), filtered.Data[0].UID)
}
