package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
}

func NewGradingHandler(
	gradingService services.GradingService,
	validator *validator.Validator,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger, validator),
		gradingService: gradingService,
	}
}

// GetStudentSummaries aggregates graded answers per student
// @Summary Student answer summaries
// @Tags answers
// @Produce json
// @Param quiz_id query uint false "Quiz ID"
// @Param student_id query uint false "Student ID"
// @Success 200 {object} services.SummaryReport
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /answers/summary [get]
func (h *GradingHandler) GetStudentSummaries(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Summarizing answers", "quiz_id", filters.QuizID, "student_id", filters.StudentID)

	report, err := h.gradingService.StudentSummaries(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportStudentSummaries renders the summaries as an xlsx workbook
// @Summary Export student answer summaries
// @Tags answers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param quiz_id query uint false "Quiz ID"
// @Param student_id query uint false "Student ID"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /answers/summary/export [get]
func (h *GradingHandler) ExportStudentSummaries(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting answer summaries", "quiz_id", filters.QuizID, "student_id", filters.StudentID)

	data, err := h.gradingService.ExportSummaries(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("answer-summary-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *GradingHandler) bindFilters(c *gin.Context) (repositories.AnswerFilters, bool) {
	var filters repositories.AnswerFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid_query", "Invalid query parameters", err, err.Error())
		return filters, false
	}

	filters = filters.Normalize()
	if err := h.validator.ValidateStruct(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "scope_required", "quiz_id or student_id is required", err, err)
		return filters, false
	}
	return filters, true
}
