package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

const DefaultTTL = 5 * time.Minute

// QuestionListKey is the cache key of a quiz's question listing.
func QuestionListKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:questions", quizID)
}

const questionListPattern = "quiz:*:questions"

// CachedQuestionRepository caches quiz listings in front of another
// QuestionRepository. Writes go straight through and drop the affected
// listings. Cache failures never fail a call.
type CachedQuestionRepository struct {
	next   repositories.QuestionRepository
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedQuestionRepository(next repositories.QuestionRepository, cache CacheService, ttl time.Duration, logger *slog.Logger) *CachedQuestionRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedQuestionRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedQuestionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	key := QuestionListKey(quizID)

	var cached []*models.Question
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("Question cache unavailable", "quiz_id", quizID, "error", err)
	}

	questions, err := c.next.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, questions, c.ttl); err != nil {
		c.logger.Warn("Failed to cache question list", "quiz_id", quizID, "error", err)
	}
	return questions, nil
}

func (c *CachedQuestionRepository) Create(ctx context.Context, quizID uint, submission *models.QuestionSubmission) (*models.Question, error) {
	q, err := c.next.Create(ctx, quizID, submission)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, QuestionListKey(q.QuizID))
	return q, nil
}

func (c *CachedQuestionRepository) Update(ctx context.Context, questionID uint, submission *models.QuestionSubmission) (*models.Question, error) {
	q, err := c.next.Update(ctx, questionID, submission)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, QuestionListKey(q.QuizID))
	return q, nil
}

// Delete drops every listing since the quiz of the question is not known here.
func (c *CachedQuestionRepository) Delete(ctx context.Context, questionID uint) error {
	if err := c.next.Delete(ctx, questionID); err != nil {
		return err
	}
	if err := c.cache.DeletePattern(ctx, questionListPattern); err != nil {
		c.logger.Warn("Failed to invalidate question lists", "question_id", questionID, "error", err)
	}
	return nil
}

func (c *CachedQuestionRepository) invalidate(ctx context.Context, key string) {
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Warn("Failed to invalidate question list", "key", key, "error", err)
	}
}
