// Package service implements the business logic for respondents, similarity
// comparisons, demographics summaries, and custom questions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
)

// RespondentStore persists respondents together with their answer vectors.
type RespondentStore interface {
	CreateWithVectors(ctx context.Context, req *models.CreateRespondentRequest, vectors [models.SlotCount][]float32, model string) (*models.Respondent, error)
	GetByUID(ctx context.Context, uid int64) (*models.Respondent, error)
	List(ctx context.Context, limit, offset int) ([]models.Respondent, error)
	Count(ctx context.Context) (int64, error)
}

// RespondentsService handles respondent intake: validation, embedding
// resolution for all eight answers, and a single transactional write.
type RespondentsService struct {
	store    RespondentStore
	resolver *Resolver
	model    string
}

// NewRespondentsService creates a new respondents service. model names the
// embedding model recorded alongside each stored vector.
func NewRespondentsService(store RespondentStore, resolver *Resolver, model string) *RespondentsService {
	return &RespondentsService{store: store, resolver: resolver, model: model}
}

// validateCreateRequest checks the demographic fields and the answer set.
func validateCreateRequest(req *models.CreateRespondentRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name", "name is required")
	}

	for field, value := range map[string]string{
		"age":       req.Age,
		"gender":    req.Gender,
		"ethnicity": req.Ethnicity,
		"education": req.Education,
		"income":    req.Income,
	} {
		if strings.TrimSpace(value) == "" {
			return apperrors.NewValidationError(field, field+" is required")
		}
	}

	if len(req.Answers) != models.SlotCount {
		return apperrors.NewValidationError("answers",
			fmt.Sprintf("exactly %d answers are required, got %d", models.SlotCount, len(req.Answers)))
	}

	for i, answer := range req.Answers {
		if strings.TrimSpace(answer) == "" {
			return apperrors.NewValidationError("answers", fmt.Sprintf("answer %d must not be empty", i+1))
		}
	}

	return nil
}

// Create validates the request, resolves a vector for every answer, and then
// persists the respondent, answers, and vectors in one transaction. All
// provider work happens before the write, so a failed resolution leaves no
// partial respondent behind.
func (s *RespondentsService) Create(ctx context.Context, req *models.CreateRespondentRequest) (*models.Respondent, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	var vectors [models.SlotCount][]float32

	for i, answer := range req.Answers {
		vector, err := s.resolver.Resolve(ctx, i+1, answer)
		if err != nil {
			return nil, fmt.Errorf("resolve answer %d: %w", i+1, err)
		}

		vectors[i] = vector
	}

	respondent, err := s.store.CreateWithVectors(ctx, req, vectors, s.model)
	if err != nil {
		return nil, err
	}

	slog.Info("respondent created", "uid", respondent.UID)

	return respondent, nil
}

// GetByUID returns a single respondent with their answers.
func (s *RespondentsService) GetByUID(ctx context.Context, uid int64) (*models.Respondent, error) {
	return s.store.GetByUID(ctx, uid)
}

// List returns respondents in uid order along with the total count.
func (s *RespondentsService) List(ctx context.Context, limit, offset int) (*models.ListRespondentsResponse, error) {
	respondents, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ListRespondentsResponse{Data: respondents, Total: total}, nil
}
