package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the persistence backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	draftHandler    *DraftHandler
	questionHandler *QuestionHandler
	gradingHandler  *GradingHandler
	backend         Pinger
	logger          utils.Logger
}

func NewHandlerManager(
	questionService services.QuestionService,
	gradingService services.GradingService,
	backend Pinger,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		draftHandler:    NewDraftHandler(questionService, validator, logger),
		questionHandler: NewQuestionHandler(questionService, validator, logger),
		gradingHandler:  NewGradingHandler(gradingService, validator, logger),
		backend:         backend,
		logger:          logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/quizzes/:quiz_id/questions", hm.questionHandler.ListQuizQuestions)
		v1.DELETE("/questions/:id", hm.questionHandler.DeleteQuestion)

		// Draft editing sessions
		drafts := v1.Group("/drafts")
		{
			drafts.POST("", hm.draftHandler.OpenDraft)
			drafts.GET("/:id", hm.draftHandler.GetDraft)
			drafts.DELETE("/:id", hm.draftHandler.Discard)
			drafts.PUT("/:id/text", hm.draftHandler.SetText)
			drafts.PUT("/:id/score", hm.draftHandler.SetScore)
			drafts.POST("/:id/options", hm.draftHandler.AddOption)
			drafts.PUT("/:id/options/:index", hm.draftHandler.SetOptionText)
			drafts.DELETE("/:id/options/:index", hm.draftHandler.RemoveOption)
			drafts.POST("/:id/options/:index/toggle", hm.draftHandler.ToggleCorrect)
			drafts.POST("/:id/undo", hm.draftHandler.Undo)
			drafts.POST("/:id/redo", hm.draftHandler.Redo)
			drafts.GET("/:id/validation", hm.draftHandler.Validate)
			drafts.POST("/:id/submit", hm.draftHandler.Submit)
		}

		answers := v1.Group("/answers")
		{
			answers.GET("/summary", hm.gradingHandler.GetStudentSummaries)
			answers.GET("/summary/export", hm.gradingHandler.ExportStudentSummaries)
		}
	}
}

// HealthCheck reports service health along with backend reachability
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "healthy",
		"service": "quiz-service",
		"backend": "ok",
	}

	if hm.backend != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := hm.backend.Ping(ctx); err != nil {
			hm.logger.Warn("Backend health check failed", "error", err)
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["backend"] = err.Error()
		}
	}

	c.JSON(status, body)
}
