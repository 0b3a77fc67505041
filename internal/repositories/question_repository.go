package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// QuestionRepository persists quiz questions with their options.
//
// Create and Update return the canonical question: the backend's copy, with
// the submitted fields filling anything the backend did not echo back. Failed
// saves are not retried.
type QuestionRepository interface {
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
	Create(ctx context.Context, quizID uint, submission *models.QuestionSubmission) (*models.Question, error)
	Update(ctx context.Context, questionID uint, submission *models.QuestionSubmission) (*models.Question, error)
	Delete(ctx context.Context, questionID uint) error
}

// Canonicalize merges a backend response over the submission it answered.
// A response without question text is treated as an acknowledgement carrying
// only the id; otherwise the backend copy wins, with the quiz id and options
// taken from the submission when the backend left them out.
func Canonicalize(id uint, submission *models.QuestionSubmission, returned *models.Question) *models.Question {
	q := &models.Question{
		ID:     id,
		QuizID: submission.QuizID,
		Text:   submission.Text,
		Score:  submission.Score,
	}
	if returned != nil {
		if returned.ID != 0 {
			q.ID = returned.ID
		}
		if returned.Text != "" {
			q.Text = returned.Text
			q.Score = returned.Score
			q.CreatedAt = returned.CreatedAt
			q.UpdatedAt = returned.UpdatedAt
			if returned.QuizID != 0 {
				q.QuizID = returned.QuizID
			}
			if len(returned.Options) > 0 {
				q.Options = returned.Options
				return q
			}
		}
	}

	q.Options = make([]models.Option, len(submission.Options))
	for i, opt := range submission.Options {
		q.Options[i] = models.Option{
			ID:         opt.ID,
			QuestionID: q.ID,
			Text:       opt.Text,
			IsCorrect:  opt.IsCorrect,
		}
	}
	return q
}
