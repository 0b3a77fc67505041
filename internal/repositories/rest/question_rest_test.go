package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBackend(Config{
		BaseURL: server.URL,
		Token:   "secret",
		Timeout: 2 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func submission() *models.QuestionSubmission {
	return &models.QuestionSubmission{
		QuizID: 3,
		Text:   "Capital of France?",
		Score:  10,
		Options: []models.SubmittedOption{
			{Text: "Paris", IsCorrect: true},
			{Text: "London"},
		},
	}
}

func TestCreateSendsBooleanCorrectness(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body := decodeBody(t, r)
		assert.Equal(t, float64(3), body["quiz_id"])
		options := body["options"].([]interface{})
		require.Len(t, options, 2)
		first := options[0].(map[string]interface{})
		assert.Equal(t, true, first["is_correct"])
		_, hasID := first["id"]
		assert.False(t, hasID)
		assert.Equal(t, false, options[1].(map[string]interface{})["is_correct"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created","data":{"id":42}}`))
	})

	q, err := backend.Question().Create(context.Background(), 3, submission())
	require.NoError(t, err)

	assert.Equal(t, uint(42), q.ID)
	assert.Equal(t, uint(3), q.QuizID)
	assert.Equal(t, "Capital of France?", q.Text)
	assert.Equal(t, 10.0, q.Score)
	require.Len(t, q.Options, 2)
	assert.True(t, q.Options[0].IsCorrect)
	assert.Equal(t, uint(42), q.Options[0].QuestionID)
}

func TestCreateUsesReturnedOptions(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":42,"quiz_id":3,"text":"Capital of France?","score":10,
			"options":[{"id":7,"text":"Paris","is_correct":1},{"id":8,"text":"London","is_correct":0}]}}`))
	})

	q, err := backend.Question().Create(context.Background(), 3, submission())
	require.NoError(t, err)

	assert.Equal(t, []models.Option{
		{ID: 7, QuestionID: 42, Text: "Paris", IsCorrect: true},
		{ID: 8, QuestionID: 42, Text: "London", IsCorrect: false},
	}, q.Options)
}

func TestCreateWithoutIDFails(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := backend.Question().Create(context.Background(), 3, submission())
	assert.ErrorIs(t, err, repositories.ErrSaveFailed)
}

func TestUpdateSendsIntegerCorrectnessAndIDs(t *testing.T) {
	sub := submission()
	sub.Options[0].ID = 7
	sub.Options[1].ID = 8
	sub.Options = append(sub.Options, models.SubmittedOption{Text: "Berlin"})

	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/questions/42", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(3), body["quiz_id"])
		options := body["options"].([]interface{})
		require.Len(t, options, 3)
		first := options[0].(map[string]interface{})
		assert.Equal(t, float64(7), first["id"])
		assert.Equal(t, float64(1), first["is_correct"])
		assert.Equal(t, float64(0), options[1].(map[string]interface{})["is_correct"])
		_, hasID := options[2].(map[string]interface{})["id"]
		assert.False(t, hasID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"question":{"id":42,"quiz_id":3,"text":"Capital of France?","score":10,
			"options":[{"id":7,"text":"Paris","is_correct":"1"},{"id":8,"text":"London","is_correct":false},{"id":9,"text":"Berlin","is_correct":0}]}}`))
	})

	q, err := backend.Question().Update(context.Background(), 42, sub)
	require.NoError(t, err)

	require.Len(t, q.Options, 3)
	assert.Equal(t, uint(9), q.Options[2].ID)
	assert.True(t, q.Options[0].IsCorrect)
	assert.False(t, q.Options[2].IsCorrect)
}

func TestUpdateWithEmptyResponseKeepsSubmission(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	q, err := backend.Question().Update(context.Background(), 42, submission())
	require.NoError(t, err)

	assert.Equal(t, uint(42), q.ID)
	assert.Equal(t, "Capital of France?", q.Text)
	assert.Len(t, q.Options, 2)
}

func TestSaveFailureIsGeneric(t *testing.T) {
	calls := 0
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The given data was invalid.","errors":{"text":["required"]}}`))
	})

	_, err := backend.Question().Update(context.Background(), 42, submission())

	assert.ErrorIs(t, err, repositories.ErrSaveFailed)
	assert.Contains(t, err.Error(), "The given data was invalid.")
	assert.Equal(t, 1, calls)
}

func TestUpdateOfMissingQuestion(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := backend.Question().Update(context.Background(), 42, submission())

	assert.ErrorIs(t, err, repositories.ErrSaveFailed)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSaveTransportFailure(t *testing.T) {
	backend := NewBackend(Config{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})

	_, err := backend.Question().Create(context.Background(), 3, submission())
	assert.ErrorIs(t, err, repositories.ErrSaveFailed)
}

func TestListByQuiz(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quizzes/3/questions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"quiz_id":3,"text":"Q1","score":2,
			"options":[{"id":10,"text":"A","is_correct":true},{"id":11,"text":"B","is_correct":false}]},
			{"id":2,"quiz_id":3,"text":"Q2","score":0}]}`))
	})

	questions, err := backend.Question().ListByQuiz(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, "Q1", questions[0].Text)
	assert.Len(t, questions[0].Options, 2)
	assert.True(t, questions[0].Options[0].IsCorrect)
	assert.Empty(t, questions[1].Options)
}

func TestListByQuizBareArray(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"quiz_id":3,"text":"Q1","score":2}]`))
	})

	questions, err := backend.Question().ListByQuiz(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestListByQuizFailure(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := backend.Question().ListByQuiz(context.Background(), 3)
	assert.ErrorIs(t, err, repositories.ErrFetchFailed)
}

func TestDelete(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/questions/1":
			w.WriteHeader(http.StatusOK)
		case "/questions/2":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	assert.NoError(t, backend.Question().Delete(context.Background(), 1))
	assert.ErrorIs(t, backend.Question().Delete(context.Background(), 2), repositories.ErrNotFound)
	assert.ErrorIs(t, backend.Question().Delete(context.Background(), 3), repositories.ErrDeleteFailed)
}

func TestPing(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, backend.Ping(context.Background()))
}
