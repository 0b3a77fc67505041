package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and response helpers for all handlers
type BaseHandler struct {
	logger    utils.Logger
	validator *validator.Validator
}

func NewBaseHandler(logger utils.Logger, validator *validator.Validator) BaseHandler {
	return BaseHandler{
		logger:    logger,
		validator: validator,
	}
}

// log picks the request-scoped logger set by ContextLogger when there is one
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs an incoming request with its route context
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
	}
	fields = append(fields, additionalFields...)
	h.log(c).Info(message, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)
	h.log(c).LogError(err, message, fields...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)
	h.log(c).Warn(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
		Code:    code,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// bindJSON decodes and validates the request body. It writes the 400 response
// itself and reports false when the body is unusable.
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid_payload", "Invalid request payload", err, err.Error())
		return false
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "validation_failed", "Validation failed", err, err)
		return false
	}
	return true
}

// handleServiceError maps service and repository errors onto HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, validationError.Rule, validationError.Message, err, gin.H{
			"reason": validationError.Rule,
			"field":  validationError.Field,
		})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "validation_failed", "Validation failed", err, validationErrors)
		return
	}

	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		h.RespondWithError(c, http.StatusNotFound, "draft_not_found", "Draft session not found", err)
	case errors.Is(err, services.ErrQuestionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "question_not_found", "Question not found", err)
	case errors.Is(err, services.ErrSaveInProgress):
		h.RespondWithError(c, http.StatusConflict, "save_in_progress", "A save is already in progress for this draft", err)
	case errors.Is(err, services.ErrOptionIndex):
		h.RespondWithError(c, http.StatusBadRequest, "invalid_option_index", "Option index out of range", err)
	case errors.Is(err, services.ErrAnswerScopeRequired):
		h.RespondWithError(c, http.StatusBadRequest, "scope_required", "quiz_id or student_id is required", err)
	case errors.Is(err, services.ErrNoAnswersFound):
		h.RespondWithError(c, http.StatusBadGateway, "no_answers_found", "No answers found", err)
	case errors.Is(err, services.ErrSaveFailed):
		h.RespondWithError(c, http.StatusBadGateway, "save_failed", "Failed to save question", err)
	case errors.Is(err, services.ErrDeleteFailed):
		h.RespondWithError(c, http.StatusBadGateway, "delete_failed", "Failed to delete question", err)
	case errors.Is(err, services.ErrFetchFailed):
		h.RespondWithError(c, http.StatusBadGateway, "fetch_failed", "Failed to fetch from backend", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Internal server error", err)
	}
}
