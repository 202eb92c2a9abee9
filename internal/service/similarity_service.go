package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
	"github.com/semalign/hub/internal/observability"
	"github.com/semalign/hub/pkg/vectors"
)

// VectorStore loads stored answer vectors by respondent.
type VectorStore interface {
	VectorsByUID(ctx context.Context, uid int64) (map[int][]float32, error)
}

// ComparisonStore persists and lists comparison results.
type ComparisonStore interface {
	Insert(ctx context.Context, comparison *models.Comparison) (*models.Comparison, error)
	List(ctx context.Context, uid int64, limit int) ([]models.Comparison, error)
}

// SimilarityService scores respondents against each other question by
// question. The persisted flow always compares against the configured
// reference respondent; ad hoc reports may pair any two respondents.
type SimilarityService struct {
	vectors      VectorStore
	comparisons  ComparisonStore
	referenceUID int64
	metrics      observability.EmbeddingMetrics
}

// NewSimilarityService creates a new similarity service. referenceUID names
// the respondent every persisted comparison is scored against.
func NewSimilarityService(
	vectorStore VectorStore, comparisonStore ComparisonStore, referenceUID int64, metrics observability.EmbeddingMetrics,
) *SimilarityService {
	return &SimilarityService{
		vectors:      vectorStore,
		comparisons:  comparisonStore,
		referenceUID: referenceUID,
		metrics:      metrics,
	}
}

// loadVectors fetches a respondent's vectors and checks all slots are present.
func (s *SimilarityService) loadVectors(ctx context.Context, uid int64) (map[int][]float32, error) {
	vecs, err := s.vectors.VectorsByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if len(vecs) == 0 {
		return nil, apperrors.NewNotFoundError("respondent", fmt.Sprintf("no embeddings stored for uid %d", uid))
	}

	for slot := 1; slot <= models.SlotCount; slot++ {
		if _, ok := vecs[slot]; !ok {
			return nil, apperrors.NewNotFoundError("embedding",
				fmt.Sprintf("uid %d is missing the embedding for answer %d", uid, slot))
		}
	}

	return vecs, nil
}

// scoreAll computes the per-question cosine similarities and their mean.
func scoreAll(a, b map[int][]float32) ([models.SlotCount]float64, float64, error) {
	var scores [models.SlotCount]float64

	var sum float64

	for slot := 1; slot <= models.SlotCount; slot++ {
		score, err := vectors.CosineSimilarity(a[slot], b[slot])
		if err != nil {
			return scores, 0, fmt.Errorf("score answer %d: %w", slot, err)
		}

		scores[slot-1] = score
		sum += score
	}

	return scores, sum / models.SlotCount, nil
}

// ScoreAndStore compares a respondent against the reference respondent and
// persists the result. Comparing the reference against itself is allowed and
// yields all-ones.
func (s *SimilarityService) ScoreAndStore(ctx context.Context, uid int64) (*models.Comparison, error) {
	subject, err := s.loadVectors(ctx, uid)
	if err != nil {
		return nil, err
	}

	reference, err := s.loadVectors(ctx, s.referenceUID)
	if err != nil {
		return nil, err
	}

	scores, total, err := scoreAll(subject, reference)
	if err != nil {
		return nil, err
	}

	comparison, err := s.comparisons.Insert(ctx, &models.Comparison{
		UID:          uid,
		ReferenceUID: s.referenceUID,
		Scores:       scores,
		Total:        total,
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordComparisonStored(ctx)
	}

	slog.Info("comparison stored", "uid", uid, "reference_uid", s.referenceUID, "total", total)

	return comparison, nil
}

// ScoreAndReport compares any two respondents without persisting anything.
func (s *SimilarityService) ScoreAndReport(ctx context.Context, uidA, uidB int64) (*models.SimilarityReport, error) {
	a, err := s.loadVectors(ctx, uidA)
	if err != nil {
		return nil, err
	}

	b, err := s.loadVectors(ctx, uidB)
	if err != nil {
		return nil, err
	}

	scores, total, err := scoreAll(a, b)
	if err != nil {
		return nil, err
	}

	return &models.SimilarityReport{UIDA: uidA, UIDB: uidB, Scores: scores, Total: total}, nil
}

// List returns stored comparisons; uid filters to one respondent when non-zero.
func (s *SimilarityService) List(ctx context.Context, uid int64, limit int) (*models.ListComparisonsResponse, error) {
	comparisons, err := s.comparisons.List(ctx, uid, limit)
	if err != nil {
		return nil, err
	}

	return &models.ListComparisonsResponse{Data: comparisons, Total: len(comparisons)}, nil
}
