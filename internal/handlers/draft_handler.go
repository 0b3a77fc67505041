package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// ===== REQUEST STRUCTURES =====

// OpenDraftRequest starts a session for a new question, or for an existing one
// when question_id is set.
type OpenDraftRequest struct {
	QuizID     uint  `json:"quiz_id" validate:"required"`
	QuestionID *uint `json:"question_id" validate:"omitempty,gt=0"`
}

type SetTextRequest struct {
	Text string `json:"text"`
}

// SetScoreRequest sets the score; a null score clears it. Range checks are the
// draft's own validation.
type SetScoreRequest struct {
	Score *float64 `json:"score" validate:"omitempty,finite"`
}

type optionPath struct {
	Index int `uri:"index" json:"index" validate:"option_index"`
}

// ===== HANDLER =====

// DraftHandler exposes draft-editing sessions
type DraftHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewDraftHandler(
	questionService services.QuestionService,
	validator *validator.Validator,
	logger utils.Logger,
) *DraftHandler {
	return &DraftHandler{
		BaseHandler:     NewBaseHandler(logger, validator),
		questionService: questionService,
	}
}

// OpenDraft starts a draft session
// @Summary Open draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft body OpenDraftRequest true "Quiz and optional question"
// @Success 201 {object} services.DraftView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /drafts [post]
func (h *DraftHandler) OpenDraft(c *gin.Context) {
	var req OpenDraftRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Opening draft", "quiz_id", req.QuizID, "question_id", req.QuestionID)

	view, err := h.questionService.OpenDraft(c.Request.Context(), req.QuizID, req.QuestionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetDraft returns the current state of a draft session
// @Summary Get draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft session ID"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.questionService.GetDraft(id)
	h.respondView(c, view, err)
}

func (h *DraftHandler) SetText(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req SetTextRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, err := h.questionService.SetQuestionText(id, req.Text)
	h.respondView(c, view, err)
}

func (h *DraftHandler) SetScore(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	var req SetScoreRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, err := h.questionService.SetScore(id, req.Score)
	h.respondView(c, view, err)
}

// AddOption appends a blank option. At the upper bound the draft is returned
// unchanged with a notice.
// @Summary Add option
// @Tags drafts
// @Produce json
// @Param id path string true "Draft session ID"
// @Success 200 {object} services.DraftView
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id}/options [post]
func (h *DraftHandler) AddOption(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.questionService.AddOption(id)
	h.respondView(c, view, err)
}

// RemoveOption drops the option at index. At the lower bound the draft is
// returned unchanged with a notice.
// @Summary Remove option
// @Tags drafts
// @Produce json
// @Param id path string true "Draft session ID"
// @Param index path int true "Option index"
// @Success 200 {object} services.DraftView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id}/options/{index} [delete]
func (h *DraftHandler) RemoveOption(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	index, ok := h.parseOptionIndex(c)
	if !ok {
		return
	}

	view, err := h.questionService.RemoveOption(id, index)
	h.respondView(c, view, err)
}

func (h *DraftHandler) SetOptionText(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	index, ok := h.parseOptionIndex(c)
	if !ok {
		return
	}
	var req SetTextRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, err := h.questionService.SetOptionText(id, index, req.Text)
	h.respondView(c, view, err)
}

func (h *DraftHandler) ToggleCorrect(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	index, ok := h.parseOptionIndex(c)
	if !ok {
		return
	}

	view, err := h.questionService.ToggleCorrect(id, index)
	h.respondView(c, view, err)
}

func (h *DraftHandler) Undo(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.questionService.Undo(id)
	h.respondView(c, view, err)
}

func (h *DraftHandler) Redo(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	view, err := h.questionService.Redo(id)
	h.respondView(c, view, err)
}

// Validate reports the first unmet submission rule without saving
// @Summary Validate draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft session ID"
// @Success 200 {object} services.ValidationResult
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id}/validation [get]
func (h *DraftHandler) Validate(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.questionService.Validate(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Submit saves the draft, creating or updating the question
// @Summary Submit draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft session ID"
// @Success 201 {object} services.SaveResult "question created"
// @Success 200 {object} services.SaveResult "question updated"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting draft", "session_id", id)

	result, err := h.questionService.Save(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// Discard closes a draft session without saving
// @Summary Discard draft
// @Tags drafts
// @Param id path string true "Draft session ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Discard(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.questionService.Discard(id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Draft discarded", nil)
}

func (h *DraftHandler) respondView(c *gin.Context, view *services.DraftView, err error) {
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if view.Notice != nil {
		h.LogWarn(c, "Option change blocked", "action", view.Notice.Action, "count", view.Notice.Count)
	}
	c.JSON(http.StatusOK, view)
}

func (h *DraftHandler) parseOptionIndex(c *gin.Context) (int, bool) {
	var path optionPath
	if err := c.ShouldBindUri(&path); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid_option_index", "Invalid index", err, err.Error())
		return 0, false
	}
	if err := h.validator.ValidateStruct(&path); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid_option_index", "Invalid index", err, err)
		return 0, false
	}
	return path.Index, true
}
