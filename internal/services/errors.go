package services

import (
	"errors"

	"github.com/SAP-F-2025/quiz-service/internal/draft"
	apperrors "github.com/SAP-F-2025/quiz-service/internal/errors"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrDraftNotFound    = errors.New("draft session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSaveInProgress   = errors.New("a save is already in progress for this draft")

	// Persistence failures surface as the repository sentinels
	ErrSaveFailed   = repositories.ErrSaveFailed
	ErrDeleteFailed = repositories.ErrDeleteFailed
	ErrFetchFailed  = repositories.ErrFetchFailed

	ErrNoAnswersFound      = errors.New("no answers found")
	ErrAnswerScopeRequired = errors.New("quiz_id or student_id is required")

	ErrOptionIndex = draft.ErrOptionIndex
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDraftNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, repositories.ErrNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var ves apperrors.ValidationErrors
	return errors.As(err, &ves)
}

// IsConflict checks if error represents a busy draft
func IsConflict(err error) bool {
	return errors.Is(err, ErrSaveInProgress)
}

// AsGuard extracts the notice of a blocked option add or remove
func AsGuard(err error) (*draft.GuardError, bool) {
	var guard *draft.GuardError
	ok := errors.As(err, &guard)
	return guard, ok
}
