package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/draft"
	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuestionService(repo *MockQuestionRepository) (QuestionService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(discardLogger())
	return NewQuestionService(repo, NewSessionStore(), publisher, discardLogger()), publisher
}

func uintPtr(v uint) *uint        { return &v }
func floatPtr(v float64) *float64 { return &v }

// fillValidDraft makes the session's draft submittable: text, score and two
// options with one marked correct.
func fillValidDraft(t *testing.T, svc QuestionService, id string) {
	t.Helper()
	_, err := svc.SetQuestionText(id, "  Capital of France?  ")
	require.NoError(t, err)
	_, err = svc.SetScore(id, floatPtr(10))
	require.NoError(t, err)
	_, err = svc.SetOptionText(id, 0, "Paris")
	require.NoError(t, err)
	_, err = svc.SetOptionText(id, 2, "London")
	require.NoError(t, err)
	_, err = svc.ToggleCorrect(id, 0)
	require.NoError(t, err)
}

func TestOpenDraftNew(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))

	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, uint(3), view.QuizID)
	assert.Zero(t, view.QuestionID)
	assert.Len(t, view.Options, models.DefaultOptions)
	assert.Nil(t, view.Score)
	assert.Equal(t, draft.MissingText, view.Validation)
	assert.False(t, view.CanUndo)
}

func TestOpenDraftExisting(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	repo.On("ListByQuiz", ctx, uint(3)).Return([]*models.Question{
		{ID: 41, QuizID: 3, Text: "Other", Score: 1},
		{ID: 42, QuizID: 3, Text: "Capital of France?", Score: 10, Options: []models.Option{
			{ID: 7, Text: "Paris", IsCorrect: true},
			{ID: 8, Text: "London"},
		}},
	}, nil)
	svc, _ := newQuestionService(repo)

	view, err := svc.OpenDraft(ctx, 3, uintPtr(42))
	require.NoError(t, err)

	assert.Equal(t, uint(42), view.QuestionID)
	assert.Equal(t, 10.0, *view.Score)
	assert.Equal(t, []draft.Option{
		{ID: 7, Text: "Paris", IsCorrect: true},
		{ID: 8, Text: "London"},
	}, view.Options)
	assert.Equal(t, draft.Valid, view.Validation)

	_, err = svc.OpenDraft(ctx, 3, uintPtr(99))
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.True(t, IsNotFound(err))
}

func TestOpenDraftFetchFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	repo.On("ListByQuiz", ctx, uint(3)).Return(nil, repositories.ErrFetchFailed)
	svc, _ := newQuestionService(repo)

	_, err := svc.OpenDraft(ctx, 3, uintPtr(42))
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestUnknownSession(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))

	_, err := svc.GetDraft("missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = svc.AddOption("missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = svc.Save(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, svc.Discard("missing"), ErrDraftNotFound)
}

func TestOptionGuardsReturnNotice(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))
	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)
	id := view.SessionID

	for i := models.DefaultOptions; i < models.MaxOptions; i++ {
		view, err = svc.AddOption(id)
		require.NoError(t, err)
		assert.Nil(t, view.Notice)
	}
	view, err = svc.AddOption(id)
	require.NoError(t, err)
	require.NotNil(t, view.Notice)
	assert.Equal(t, "add_option", view.Notice.Action)
	assert.Len(t, view.Options, models.MaxOptions)

	for i := models.MaxOptions; i > models.MinOptions; i-- {
		view, err = svc.RemoveOption(id, 0)
		require.NoError(t, err)
		assert.Nil(t, view.Notice)
	}
	view, err = svc.RemoveOption(id, 0)
	require.NoError(t, err)
	require.NotNil(t, view.Notice)
	assert.Equal(t, "remove_option", view.Notice.Action)
	assert.Equal(t, models.MinOptions, view.Notice.Count)
	assert.Len(t, view.Options, models.MinOptions)
}

func TestRemoveOptionBadIndex(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))
	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)

	_, err = svc.RemoveOption(view.SessionID, 7)
	assert.ErrorIs(t, err, ErrOptionIndex)
}

func TestMutationsApplyInOrderAndUndo(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))
	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)
	id := view.SessionID

	_, err = svc.SetOptionText(id, 1, "A")
	require.NoError(t, err)
	_, err = svc.SetOptionText(id, 1, "B")
	require.NoError(t, err)
	view, err = svc.ToggleCorrect(id, 1)
	require.NoError(t, err)
	assert.Equal(t, draft.Option{Text: "B", IsCorrect: true}, view.Options[1])
	assert.True(t, view.CanUndo)

	view, err = svc.Undo(id)
	require.NoError(t, err)
	assert.Equal(t, draft.Option{Text: "B"}, view.Options[1])
	assert.True(t, view.CanRedo)

	view, err = svc.Redo(id)
	require.NoError(t, err)
	assert.True(t, view.Options[1].IsCorrect)

	view, err = svc.SetScore(id, nil)
	require.NoError(t, err)
	assert.Nil(t, view.Score)
}

func TestValidate(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))
	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)
	id := view.SessionID

	result, err := svc.Validate(id)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, draft.MissingText, result.Reason)
	assert.Equal(t, "text", result.Field)

	fillValidDraft(t, svc, id)
	result, err = svc.Validate(id)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestSaveCreatesAndReseeds(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	svc, publisher := newQuestionService(repo)

	view, err := svc.OpenDraft(ctx, 3, nil)
	require.NoError(t, err)
	id := view.SessionID
	fillValidDraft(t, svc, id)

	expected := &models.QuestionSubmission{
		QuizID: 3,
		Text:   "Capital of France?",
		Score:  10,
		Options: []models.SubmittedOption{
			{Text: "Paris", IsCorrect: true},
			{Text: "London"},
		},
	}
	saved := &models.Question{ID: 42, QuizID: 3, Text: "Capital of France?", Score: 10, Options: []models.Option{
		{ID: 7, QuestionID: 42, Text: "Paris", IsCorrect: true},
		{ID: 8, QuestionID: 42, Text: "London"},
	}}
	repo.On("Create", mock.Anything, uint(3), expected).Return(saved, nil).Once()

	result, err := svc.Save(ctx, id)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, saved, result.Question)
	assert.Equal(t, uint(42), result.Draft.QuestionID)
	assert.Equal(t, uint(7), result.Draft.Options[0].ID)
	assert.Len(t, result.Draft.Options, 2)
	assert.False(t, result.Draft.CanUndo)
	assert.False(t, result.Draft.Saving)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionCreated, published[0].Type)
	repo.AssertExpectations(t)

	// The reseeded draft now updates the stored question.
	_, err = svc.SetQuestionText(id, "Capital of France")
	require.NoError(t, err)
	repo.On("Update", mock.Anything, uint(42), mock.MatchedBy(func(sub *models.QuestionSubmission) bool {
		return sub.Text == "Capital of France" && sub.Options[0].ID == 7 && sub.Options[1].ID == 8
	})).Return(saved, nil).Once()

	result, err = svc.Save(ctx, id)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, events.EventQuestionUpdated, publisher.GetPublishedEvents()[1].Type)
	repo.AssertExpectations(t)
}

func TestSaveInvalidDraft(t *testing.T) {
	repo := new(MockQuestionRepository)
	svc, publisher := newQuestionService(repo)
	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)

	_, err = svc.SetQuestionText(view.SessionID, "Capital of France?")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), view.SessionID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "invalid_score", ve.Rule)
	assert.Equal(t, "score", ve.Field)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestSaveFailurePreservesDraft(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	svc, publisher := newQuestionService(repo)
	view, err := svc.OpenDraft(ctx, 3, nil)
	require.NoError(t, err)
	id := view.SessionID
	fillValidDraft(t, svc, id)
	before, err := svc.GetDraft(id)
	require.NoError(t, err)

	repo.On("Create", mock.Anything, uint(3), mock.Anything).Return(nil, errors.New("connection reset")).Once()

	_, err = svc.Save(ctx, id)
	assert.ErrorIs(t, err, ErrSaveFailed)

	after, err := svc.GetDraft(id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestSaveWhileBusy(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	svc, _ := newQuestionService(repo)
	view, err := svc.OpenDraft(ctx, 3, nil)
	require.NoError(t, err)
	id := view.SessionID
	fillValidDraft(t, svc, id)

	started := make(chan struct{})
	release := make(chan struct{})
	repo.On("Create", mock.Anything, uint(3), mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.Question{ID: 42, QuizID: 3, Text: "Capital of France?", Score: 10}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Save(ctx, id)
		done <- err
	}()
	<-started

	_, err = svc.Save(ctx, id)
	assert.ErrorIs(t, err, ErrSaveInProgress)
	assert.True(t, IsConflict(err))

	// The draft stays editable while the save is pending.
	view, err = svc.SetScore(id, floatPtr(5))
	require.NoError(t, err)
	assert.True(t, view.Saving)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("save did not complete")
	}

	view, err = svc.GetDraft(id)
	require.NoError(t, err)
	assert.False(t, view.Saving)
	repo.AssertExpectations(t)
}

func TestDiscard(t *testing.T) {
	svc, _ := newQuestionService(new(MockQuestionRepository))
	view, err := svc.OpenDraft(context.Background(), 3, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Discard(view.SessionID))
	_, err = svc.GetDraft(view.SessionID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDeleteQuestion(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	repo.On("Delete", ctx, uint(42)).Return(nil).Once()
	repo.On("Delete", ctx, uint(43)).Return(repositories.ErrNotFound).Once()
	svc, publisher := newQuestionService(repo)

	require.NoError(t, svc.DeleteQuestion(ctx, 42))
	err := svc.DeleteQuestion(ctx, 43)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionDeleted, published[0].Type)
	repo.AssertExpectations(t)
}

func TestListQuestions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	repo.On("ListByQuiz", ctx, uint(3)).Return([]*models.Question{{ID: 1}}, nil)
	svc, _ := newQuestionService(repo)

	questions, err := svc.ListQuestions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestSaveUpdateOfMissingQuestion(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	repo.On("ListByQuiz", ctx, uint(3)).Return([]*models.Question{
		{ID: 42, QuizID: 3, Text: "Capital of France?", Score: 10, Options: []models.Option{
			{ID: 7, Text: "Paris", IsCorrect: true},
			{ID: 8, Text: "London"},
		}},
	}, nil)
	repo.On("Update", mock.Anything, uint(42), mock.Anything).
		Return(nil, fmt.Errorf("%w: update: %w", repositories.ErrSaveFailed, repositories.ErrNotFound)).Once()
	svc, publisher := newQuestionService(repo)

	view, err := svc.OpenDraft(ctx, 3, uintPtr(42))
	require.NoError(t, err)

	_, err = svc.Save(ctx, view.SessionID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.True(t, IsNotFound(err))

	after, err := svc.GetDraft(view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uint(42), after.QuestionID)
	assert.Empty(t, publisher.GetPublishedEvents())
}
