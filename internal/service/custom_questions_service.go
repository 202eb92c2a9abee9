package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/semalign/hub/internal/apperrors"
	"github.com/semalign/hub/internal/models"
	"github.com/semalign/hub/pkg/vectors"
)

// customQuestionSystemPrompt frames the completion the human answer is scored
// against. Kept short so the reference answer resembles a survey response
// rather than an essay.
const customQuestionSystemPrompt = "You are answering a one-question survey. " +
	"Answer the question directly in a few sentences, as a person would."

// CustomQuestionStore persists answered custom questions.
type CustomQuestionStore interface {
	Insert(ctx context.Context, question *models.CustomQuestion) (*models.CustomQuestion, error)
	List(ctx context.Context, limit int) ([]models.CustomQuestion, error)
}

// CustomQuestionsService answers ad hoc questions: it generates a reference
// answer with the completion provider, embeds both answers, and stores the
// question with its similarity score.
type CustomQuestionsService struct {
	store      CustomQuestionStore
	completion CompletionClient
	embedding  EmbeddingClient
}

// NewCustomQuestionsService creates a new custom questions service.
func NewCustomQuestionsService(
	store CustomQuestionStore, completion CompletionClient, embedding EmbeddingClient,
) *CustomQuestionsService {
	return &CustomQuestionsService{store: store, completion: completion, embedding: embedding}
}

// Ask generates the reference answer, scores the human answer against it, and
// persists the result. Both provider calls finish before anything is written.
func (s *CustomQuestionsService) Ask(ctx context.Context, req *models.CreateCustomQuestionRequest) (*models.CustomQuestion, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperrors.NewValidationError("question", "question is required")
	}

	humanAnswer := strings.TrimSpace(req.HumanAnswer)
	if humanAnswer == "" {
		return nil, apperrors.NewValidationError("human_answer", "human_answer is required")
	}

	referenceAnswer, err := s.completion.CreateCompletion(ctx, customQuestionSystemPrompt, question)
	if err != nil {
		return nil, err
	}

	humanVector, err := s.embedding.CreateEmbedding(ctx, humanAnswer)
	if err != nil {
		return nil, err
	}

	referenceVector, err := s.embedding.CreateEmbedding(ctx, referenceAnswer)
	if err != nil {
		return nil, err
	}

	similarity, err := vectors.CosineSimilarity(humanVector, referenceVector)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Insert(ctx, &models.CustomQuestion{
		Question:        question,
		HumanAnswer:     humanAnswer,
		ReferenceAnswer: referenceAnswer,
		Similarity:      similarity,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("custom question answered", "id", stored.ID, "similarity", similarity)

	return stored, nil
}

// List returns stored custom questions, oldest first.
func (s *CustomQuestionsService) List(ctx context.Context, limit int) (*models.ListCustomQuestionsResponse, error) {
	questions, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &models.ListCustomQuestionsResponse{Data: questions, Total: len(questions)}, nil
}
