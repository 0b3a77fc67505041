package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/go-resty/resty/v2"
)

type QuestionREST struct {
	client *resty.Client
	logger *slog.Logger
}

// ListByQuiz fetches every question of a quiz with its options.
func (r *QuestionREST) ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("quiz_id", strconv.FormatUint(uint64(quizID), 10)).
		Get("/quizzes/{quiz_id}/questions")
	if err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", repositories.ErrFetchFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: list questions: %v", repositories.ErrFetchFailed, responseError(resp))
	}

	items, err := decodeList[wireQuestion](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrFetchFailed, err)
	}

	questions := make([]*models.Question, len(items))
	for i, item := range items {
		questions[i] = item.toModel()
	}
	return questions, nil
}

// Create posts a new question. Options carry is_correct as a boolean.
func (r *QuestionREST) Create(ctx context.Context, quizID uint, submission *models.QuestionSubmission) (*models.Question, error) {
	sub := *submission
	sub.QuizID = quizID
	payload := encodeSubmission(&sub, EncodeBool, false)

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/questions")
	if err := r.checkSave(resp, err, "create", 0); err != nil {
		return nil, err
	}

	returned, err := decodeQuestion(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrSaveFailed, err)
	}
	if returned == nil || returned.ID == 0 {
		return nil, fmt.Errorf("%w: backend did not return a question id", repositories.ErrSaveFailed)
	}

	r.logger.Info("Question created on backend", "question_id", returned.ID, "quiz_id", quizID)
	return repositories.Canonicalize(returned.ID, &sub, returned.toModel()), nil
}

// Update patches an existing question. Options carry is_correct as 0 or 1
// and keep their ids; options without an id are created by the backend.
func (r *QuestionREST) Update(ctx context.Context, questionID uint, submission *models.QuestionSubmission) (*models.Question, error) {
	payload := encodeSubmission(submission, EncodeInt, true)

	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(questionID), 10)).
		SetBody(payload).
		Patch("/questions/{id}")
	if err := r.checkSave(resp, err, "update", questionID); err != nil {
		return nil, err
	}

	returned, err := decodeQuestion(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrSaveFailed, err)
	}

	r.logger.Info("Question updated on backend", "question_id", questionID)
	var model *models.Question
	if returned != nil {
		model = returned.toModel()
	}
	return repositories.Canonicalize(questionID, submission, model), nil
}

func (r *QuestionREST) Delete(ctx context.Context, questionID uint) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(questionID), 10)).
		Delete("/questions/{id}")
	if err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrDeleteFailed, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("question %d: %w", questionID, repositories.ErrNotFound)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %v", repositories.ErrDeleteFailed, responseError(resp))
	}
	return nil
}

func (r *QuestionREST) checkSave(resp *resty.Response, err error, op string, questionID uint) error {
	if err != nil {
		r.logger.Error("Question save request failed", "op", op, "question_id", questionID, "error", err)
		return fmt.Errorf("%w: %s: %v", repositories.ErrSaveFailed, op, err)
	}
	if resp.StatusCode() == http.StatusNotFound && questionID != 0 {
		r.logger.Warn("Question to update not found", "op", op, "question_id", questionID)
		return fmt.Errorf("%w: %s: question %d: %w", repositories.ErrSaveFailed, op, questionID, repositories.ErrNotFound)
	}
	if resp.IsError() {
		cause := responseError(resp)
		r.logger.Warn("Backend rejected question save", "op", op, "question_id", questionID, "status_code", resp.StatusCode(), "error", cause)
		return fmt.Errorf("%w: %s: %v", repositories.ErrSaveFailed, op, cause)
	}
	return nil
}
