package draft

import (
	"strings"

	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Submission turns a valid draft into the persistence input: trimmed text,
// blank options dropped, existing option ids kept. An invalid draft yields a
// *errors.ValidationError carrying the violation code as its rule.
func (d Draft) Submission() (*models.QuestionSubmission, error) {
	if v := d.Validate(); v != Valid {
		return nil, apperrors.NewValidationErrorWithRule(v.Field(), v.Message(), v.String(), nil)
	}

	kept := d.nonBlankOptions()
	sub := &models.QuestionSubmission{
		QuizID:  d.quizID,
		Text:    strings.TrimSpace(d.text),
		Score:   *d.score,
		Options: make([]models.SubmittedOption, len(kept)),
	}
	for i, opt := range kept {
		sub.Options[i] = models.SubmittedOption{
			ID:        opt.ID,
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		}
	}
	return sub, nil
}
