package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreCreateGetDelete(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(draft.New(1))

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, 1, store.Len())

	assert.True(t, store.Delete(session.ID))
	assert.False(t, store.Delete(session.ID))
	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSessionsAreIndependent(t *testing.T) {
	store := NewSessionStore()
	a := store.Create(draft.New(1))
	b := store.Create(draft.New(1))
	require.NotEqual(t, a.ID, b.ID)

	a.update(func(e *draft.Editor) { e.SetQuestionText("only a") })

	assert.Equal(t, "only a", a.snapshot().Text())
	assert.Empty(t, b.snapshot().Text())
}

func TestSweepSkipsActiveAndSaving(t *testing.T) {
	store := NewSessionStore()
	idle := store.Create(draft.New(1))
	saving := store.Create(draft.New(1))
	fresh := store.Create(draft.New(1))

	old := time.Now().Add(-time.Hour)
	idle.lastUsed = old
	saving.lastUsed = old
	saving.saving.Store(true)

	assert.Equal(t, 1, store.Sweep(30*time.Minute))

	_, err := store.Get(idle.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = store.Get(saving.ID)
	assert.NoError(t, err)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRunJanitorStopsWithContext(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(draft.New(1))
	session.lastUsed = time.Now().Add(-time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, 5*time.Millisecond, time.Minute)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
