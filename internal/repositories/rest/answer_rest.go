package rest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/go-resty/resty/v2"
)

type AnswerREST struct {
	client *resty.Client
	logger *slog.Logger
}

func (r *AnswerREST) List(ctx context.Context, filters repositories.AnswerFilters) ([]models.AnswerRecord, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	req := r.client.R().SetContext(ctx)
	if filters.QuizID != nil {
		req.SetQueryParam("quiz_id", strconv.FormatUint(uint64(*filters.QuizID), 10))
	}
	if filters.StudentID != nil {
		req.SetQueryParam("student_id", strconv.FormatUint(uint64(*filters.StudentID), 10))
	}

	resp, err := req.Get("/answers")
	if err != nil {
		return nil, fmt.Errorf("%w: list answers: %v", repositories.ErrFetchFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: list answers: %v", repositories.ErrFetchFailed, responseError(resp))
	}

	items, err := decodeList[wireAnswer](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrFetchFailed, err)
	}

	answers := make([]models.AnswerRecord, len(items))
	for i, item := range items {
		answers[i] = item.toModel()
	}
	r.logger.Debug("Fetched answers from backend", "count", len(answers))
	return answers, nil
}
