package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrSaveFailed    = errors.New("failed to save question")
	ErrDeleteFailed  = errors.New("failed to delete question")
	ErrFetchFailed   = errors.New("failed to fetch from backend")
	ErrScopeRequired = errors.New("at least one of quiz_id or student_id is required")
)

// ===== SHARED FILTER STRUCTS =====

// AnswerFilters scopes an answer fetch. At least one of QuizID or StudentID
// must be set; a zero id counts as unset.
type AnswerFilters struct {
	QuizID    *uint `json:"quiz_id" form:"quiz_id" validate:"required_without=StudentID"`
	StudentID *uint `json:"student_id" form:"student_id" validate:"required_without=QuizID"`
}

func (f AnswerFilters) Validate() error {
	if isUnset(f.QuizID) && isUnset(f.StudentID) {
		return ErrScopeRequired
	}
	return nil
}

// Normalize drops zero ids, e.g. from an empty query parameter.
func (f AnswerFilters) Normalize() AnswerFilters {
	if isUnset(f.QuizID) {
		f.QuizID = nil
	}
	if isUnset(f.StudentID) {
		f.StudentID = nil
	}
	return f
}

func isUnset(id *uint) bool {
	return id == nil || *id == 0
}

// Repository groups the backend collaborators of the service.
type Repository interface {
	Question() QuestionRepository
	Answer() AnswerRepository
	Ping(ctx context.Context) error
	Close() error
}

// AnswerRepository fetches graded answers. Records come back with their
// question score and selected option text filled in.
type AnswerRepository interface {
	List(ctx context.Context, filters AnswerFilters) ([]models.AnswerRecord, error)
}

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
