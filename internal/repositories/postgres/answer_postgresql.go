package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) *AnswerPostgreSQL {
	return &AnswerPostgreSQL{db: db}
}

// List retrieves answers scoped by quiz and/or student, with the question
// score and selected option text preloaded.
func (a *AnswerPostgreSQL) List(ctx context.Context, filters repositories.AnswerFilters) ([]models.AnswerRecord, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	query := a.db.WithContext(ctx).Model(&models.AnswerRecord{}).Select("answers.*")
	if filters.QuizID != nil {
		query = query.
			Joins("JOIN questions ON questions.id = answers.question_id").
			Where("questions.quiz_id = ?", *filters.QuizID)
	}
	if filters.StudentID != nil {
		query = query.Where("answers.student_id = ?", *filters.StudentID)
	}

	answers := []models.AnswerRecord{}
	err := query.
		Preload("Question").
		Preload("SelectedOption").
		Order("answers.id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list answers: %v", repositories.ErrFetchFailed, err)
	}
	return answers, nil
}
