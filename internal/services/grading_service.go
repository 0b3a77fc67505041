package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/grading"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// GradingService turns graded answers into per-student summaries
type GradingService interface {
	StudentSummaries(ctx context.Context, filters repositories.AnswerFilters) (*SummaryReport, error)
	ExportSummaries(ctx context.Context, filters repositories.AnswerFilters) ([]byte, error)
}

type SummaryReport struct {
	Students []models.StudentAggregate `json:"students"`
	Summary  grading.Summary           `json:"summary"`
}

type gradingService struct {
	answers repositories.AnswerRepository
	logger  *ServiceLogger
}

func NewGradingService(answers repositories.AnswerRepository, logger *slog.Logger) GradingService {
	return &gradingService{
		answers: answers,
		logger:  NewServiceLogger(logger, "grading"),
	}
}

// StudentSummaries fetches the scoped answers and aggregates them per student.
// A failed fetch reports ErrNoAnswersFound and nothing is aggregated.
func (s *gradingService) StudentSummaries(ctx context.Context, filters repositories.AnswerFilters) (*SummaryReport, error) {
	aggregates, err := s.aggregate(ctx, filters)
	if err != nil {
		return nil, err
	}
	return &SummaryReport{
		Students: aggregates,
		Summary:  grading.Summarize(aggregates),
	}, nil
}

func (s *gradingService) ExportSummaries(ctx context.Context, filters repositories.AnswerFilters) ([]byte, error) {
	aggregates, err := s.aggregate(ctx, filters)
	if err != nil {
		return nil, err
	}
	return grading.ExportExcel(aggregates)
}

func (s *gradingService) aggregate(ctx context.Context, filters repositories.AnswerFilters) ([]models.StudentAggregate, error) {
	if filters.Validate() != nil {
		return nil, ErrAnswerScopeRequired
	}

	op := s.logger.WithOperation(ctx, "student_summaries", scopeLabel(filters))
	answers, err := s.answers.List(ctx, filters)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrNoAnswersFound, err)
		op.LogResult(err)
		return nil, err
	}
	op.LogResult(nil)

	return grading.Aggregate(answers), nil
}

func scopeLabel(f repositories.AnswerFilters) string {
	label := ""
	if f.QuizID != nil {
		label = fmt.Sprintf("quiz:%d", *f.QuizID)
	}
	if f.StudentID != nil {
		if label != "" {
			label += ","
		}
		label += fmt.Sprintf("student:%d", *f.StudentID)
	}
	return label
}
