// Package rest talks to the course backend over its REST API.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/go-resty/resty/v2"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Backend implements repositories.Repository against the REST backend.
type Backend struct {
	client    *resty.Client
	logger    *slog.Logger
	questions *QuestionREST
	answers   *AnswerREST
}

func NewBackend(cfg Config) *Backend {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Backend{
		client:    client,
		logger:    logger,
		questions: &QuestionREST{client: client, logger: logger},
		answers:   &AnswerREST{client: client, logger: logger},
	}
}

func (b *Backend) Question() repositories.QuestionRepository {
	return b.questions
}

func (b *Backend) Answer() repositories.AnswerRepository {
	return b.answers
}

// Ping checks that the backend answers its health endpoint.
func (b *Backend) Ping(ctx context.Context) error {
	resp, err := b.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("backend unhealthy: status %d", resp.StatusCode())
	}
	return nil
}

func (b *Backend) Close() error {
	return nil
}

// responseError builds an error for a non-2xx reply, keeping the backend's
// message when it sent one.
func responseError(resp *resty.Response) error {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode(), body.Message)
	}
	return fmt.Errorf("backend returned %d", resp.StatusCode())
}
