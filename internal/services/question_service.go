package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/draft"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// QuestionService drives draft-editing sessions and question persistence
type QuestionService interface {
	OpenDraft(ctx context.Context, quizID uint, questionID *uint) (*DraftView, error)
	GetDraft(sessionID string) (*DraftView, error)
	Discard(sessionID string) error

	SetQuestionText(sessionID, text string) (*DraftView, error)
	SetScore(sessionID string, score *float64) (*DraftView, error)
	AddOption(sessionID string) (*DraftView, error)
	RemoveOption(sessionID string, index int) (*DraftView, error)
	SetOptionText(sessionID string, index int, text string) (*DraftView, error)
	ToggleCorrect(sessionID string, index int) (*DraftView, error)
	Undo(sessionID string) (*DraftView, error)
	Redo(sessionID string) (*DraftView, error)

	Validate(sessionID string) (*ValidationResult, error)
	Save(ctx context.Context, sessionID string) (*SaveResult, error)

	ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error)
	DeleteQuestion(ctx context.Context, questionID uint) error
}

// ===== RESPONSE TYPES =====

// Notice reports an option add or remove that was blocked by the bounds.
type Notice struct {
	Action  string `json:"action"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type DraftView struct {
	SessionID  string          `json:"session_id"`
	QuestionID uint            `json:"question_id,omitempty"`
	QuizID     uint            `json:"quiz_id"`
	Text       string          `json:"text"`
	Score      *float64        `json:"score"`
	Options    []draft.Option  `json:"options"`
	Validation draft.Violation `json:"validation"`
	CanUndo    bool            `json:"can_undo"`
	CanRedo    bool            `json:"can_redo"`
	Saving     bool            `json:"saving"`
	Notice     *Notice         `json:"notice,omitempty"`
}

type ValidationResult struct {
	Valid   bool            `json:"valid"`
	Reason  draft.Violation `json:"reason"`
	Field   string          `json:"field,omitempty"`
	Message string          `json:"message"`
}

type SaveResult struct {
	Created  bool             `json:"created"`
	Question *models.Question `json:"question"`
	Draft    *DraftView       `json:"draft"`
}

// ===== IMPLEMENTATION =====

type questionService struct {
	questions repositories.QuestionRepository
	sessions  *SessionStore
	publisher events.EventPublisher
	logger    *ServiceLogger
}

func NewQuestionService(
	questions repositories.QuestionRepository,
	sessions *SessionStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
) QuestionService {
	return &questionService{
		questions: questions,
		sessions:  sessions,
		publisher: publisher,
		logger:    NewServiceLogger(logger, "question"),
	}
}

// OpenDraft starts a session. With questionID set the draft is seeded from
// the stored question, looked up in its quiz listing.
func (s *questionService) OpenDraft(ctx context.Context, quizID uint, questionID *uint) (*DraftView, error) {
	op := s.logger.WithOperation(ctx, "open_draft", quizID)

	d := draft.New(quizID)
	if questionID != nil {
		questions, err := s.questions.ListByQuiz(ctx, quizID)
		if err != nil {
			op.LogResult(err)
			return nil, err
		}
		q := findQuestion(questions, *questionID)
		if q == nil {
			err := fmt.Errorf("%w: question %d in quiz %d", ErrQuestionNotFound, *questionID, quizID)
			op.LogResult(err)
			return nil, err
		}
		d = draft.FromQuestion(q)
	}

	session := s.sessions.Create(d)
	op.LogResult(nil)
	return s.view(session, nil), nil
}

func (s *questionService) GetDraft(sessionID string) (*DraftView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session, nil), nil
}

// Discard drops the session. Nothing was persisted, so it never fails for a
// known session; a pending save still completes on its own.
func (s *questionService) Discard(sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return ErrDraftNotFound
	}
	return nil
}

func (s *questionService) SetQuestionText(sessionID, text string) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		e.SetQuestionText(text)
		return nil
	})
}

// SetScore sets the score, or clears it when score is nil.
func (s *questionService) SetScore(sessionID string, score *float64) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		if score == nil {
			e.ClearScore()
		} else {
			e.SetScore(*score)
		}
		return nil
	})
}

func (s *questionService) AddOption(sessionID string) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		return e.AddOption()
	})
}

func (s *questionService) RemoveOption(sessionID string, index int) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		return e.RemoveOption(index)
	})
}

func (s *questionService) SetOptionText(sessionID string, index int, text string) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		e.SetText(index, text)
		return nil
	})
}

func (s *questionService) ToggleCorrect(sessionID string, index int) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		e.ToggleCorrect(index)
		return nil
	})
}

func (s *questionService) Undo(sessionID string) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		e.Undo()
		return nil
	})
}

func (s *questionService) Redo(sessionID string) (*DraftView, error) {
	return s.mutate(sessionID, func(e *draft.Editor) error {
		e.Redo()
		return nil
	})
}

func (s *questionService) Validate(sessionID string) (*ValidationResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	v := session.snapshot().Validate()
	return &ValidationResult{
		Valid:   v == draft.Valid,
		Reason:  v,
		Field:   v.Field(),
		Message: v.Message(),
	}, nil
}

// Save submits the draft. Only one save per session may be in flight; the
// draft stays editable meanwhile. On success the draft is reseeded from the
// canonical question, on failure it is left exactly as it was.
func (s *questionService) Save(ctx context.Context, sessionID string) (*SaveResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer session.saving.Store(false)

	op := s.logger.WithOperation(ctx, "save_question", sessionID)

	d := session.snapshot()
	submission, err := d.Submission()
	if err != nil {
		op.LogResult(err)
		return nil, err
	}

	// An issued save is not cancellable.
	saveCtx := context.WithoutCancel(ctx)

	var saved *models.Question
	if d.IsNew() {
		saved, err = s.questions.Create(saveCtx, d.QuizID(), submission)
	} else {
		saved, err = s.questions.Update(saveCtx, d.QuestionID(), submission)
	}
	if err != nil {
		if !errors.Is(err, ErrSaveFailed) {
			err = fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
		if repositories.IsNotFoundError(err) {
			err = fmt.Errorf("%w: %w", ErrQuestionNotFound, err)
		}
		op.LogResult(err)
		return nil, err
	}

	session.update(func(e *draft.Editor) {
		e.Reset(draft.FromQuestion(saved))
	})
	session.saving.Store(false)
	op.LogResult(nil)

	s.publish(saveCtx, events.NewQuestionSavedEvent(d.IsNew(), saved))

	return &SaveResult{
		Created:  d.IsNew(),
		Question: saved,
		Draft:    s.view(session, nil),
	}, nil
}

func (s *questionService) ListQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) {
	return s.questions.ListByQuiz(ctx, quizID)
}

func (s *questionService) DeleteQuestion(ctx context.Context, questionID uint) error {
	op := s.logger.WithOperation(ctx, "delete_question", questionID)

	err := s.questions.Delete(ctx, questionID)
	if repositories.IsNotFoundError(err) {
		err = fmt.Errorf("%w: %w", ErrQuestionNotFound, err)
	}
	op.LogResult(err)
	if err != nil {
		return err
	}

	s.publish(ctx, events.NewQuestionDeletedEvent(questionID))
	return nil
}

// ===== HELPERS =====

// mutate applies fn under the session lock. A guard error becomes a notice on
// the returned view; any other error is returned with no view.
func (s *questionService) mutate(sessionID string, fn func(e *draft.Editor) error) (*DraftView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var mutErr error
	session.update(func(e *draft.Editor) {
		mutErr = fn(e)
	})

	if mutErr != nil {
		guard, ok := AsGuard(mutErr)
		if !ok {
			return nil, mutErr
		}
		return s.view(session, &Notice{Action: guard.Action, Count: guard.Count, Message: guard.Err.Error()}), nil
	}
	return s.view(session, nil), nil
}

func (s *questionService) view(session *Session, notice *Notice) *DraftView {
	session.mu.Lock()
	d := session.editor.Draft()
	canUndo, canRedo := session.editor.CanUndo(), session.editor.CanRedo()
	session.mu.Unlock()

	v := &DraftView{
		SessionID:  session.ID,
		QuestionID: d.QuestionID(),
		QuizID:     d.QuizID(),
		Text:       d.Text(),
		Options:    d.Options(),
		Validation: d.Validate(),
		CanUndo:    canUndo,
		CanRedo:    canRedo,
		Saving:     session.saving.Load(),
		Notice:     notice,
	}
	if score, ok := d.Score(); ok {
		v.Score = &score
	}
	return v
}

func (s *questionService) publish(ctx context.Context, event *events.QuestionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuestionEvent(ctx, event); err != nil {
		s.logger.Warn("Question event not published", "event_type", event.Type, "error", err)
	}
}

func findQuestion(questions []*models.Question, id uint) *models.Question {
	for _, q := range questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}
