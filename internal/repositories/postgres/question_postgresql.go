package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) *QuestionPostgreSQL {
	return &QuestionPostgreSQL{db: db}
}

// ListByQuiz retrieves the questions of a quiz in creation order
func (q *QuestionPostgreSQL) ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", repositories.ErrFetchFailed, err)
	}
	return questions, nil
}

// Create inserts a question with its options in one transaction
func (q *QuestionPostgreSQL) Create(ctx context.Context, quizID uint, submission *models.QuestionSubmission) (*models.Question, error) {
	question := &models.Question{
		QuizID:  quizID,
		Text:    submission.Text,
		Score:   submission.Score,
		Options: make([]models.Option, len(submission.Options)),
	}
	for i, opt := range submission.Options {
		question.Options[i] = models.Option{Text: opt.Text, IsCorrect: opt.IsCorrect}
	}

	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return nil, fmt.Errorf("%w: create: %v", repositories.ErrSaveFailed, err)
	}
	return question, nil
}

// Update rewrites the question and reconciles its options: submitted options
// with an id are updated, options without one are inserted and stored options
// left out of the submission are removed.
func (q *QuestionPostgreSQL) Update(ctx context.Context, questionID uint, submission *models.QuestionSubmission) (*models.Question, error) {
	var saved models.Question
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&saved, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("question %d: %w", questionID, repositories.ErrNotFound)
			}
			return err
		}

		if err := tx.Model(&saved).Updates(map[string]interface{}{
			"quiz_id": submission.QuizID,
			"text":    submission.Text,
			"score":   submission.Score,
		}).Error; err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		saved.QuizID = submission.QuizID
		saved.Text = submission.Text
		saved.Score = submission.Score

		kept := make([]uint, 0, len(submission.Options))
		for _, opt := range submission.Options {
			if opt.ID != 0 {
				kept = append(kept, opt.ID)
			}
		}

		stale := tx.Where("question_id = ?", questionID)
		if len(kept) > 0 {
			stale = stale.Where("id NOT IN ?", kept)
		}
		if err := stale.Delete(&models.Option{}).Error; err != nil {
			return fmt.Errorf("failed to remove options: %w", err)
		}

		saved.Options = make([]models.Option, len(submission.Options))
		for i, opt := range submission.Options {
			option := models.Option{ID: opt.ID, QuestionID: questionID, Text: opt.Text, IsCorrect: opt.IsCorrect}
			if opt.ID == 0 {
				if err := tx.Create(&option).Error; err != nil {
					return fmt.Errorf("failed to create option: %w", err)
				}
			} else {
				result := tx.Model(&models.Option{}).
					Where("id = ? AND question_id = ?", opt.ID, questionID).
					Updates(map[string]interface{}{"text": opt.Text, "is_correct": opt.IsCorrect})
				if result.Error != nil {
					return fmt.Errorf("failed to update option %d: %w", opt.ID, result.Error)
				}
				if result.RowsAffected == 0 {
					return fmt.Errorf("option %d does not belong to question %d", opt.ID, questionID)
				}
			}
			saved.Options[i] = option
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: update: %w", repositories.ErrSaveFailed, err)
	}

	return repositories.Canonicalize(questionID, submission, &saved), nil
}

// Delete soft deletes a question
func (q *QuestionPostgreSQL) Delete(ctx context.Context, questionID uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, questionID)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", repositories.ErrDeleteFailed, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("question %d: %w", questionID, repositories.ErrNotFound)
	}
	return nil
}
