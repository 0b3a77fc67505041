package events

import (
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of question lifecycle events
type EventType string

const (
	EventQuestionCreated EventType = "question.created"
	EventQuestionUpdated EventType = "question.updated"
	EventQuestionDeleted EventType = "question.deleted"
)

const (
	EventSource  = "quiz-service"
	EventVersion = "1.0"
)

// QuestionEvent is the envelope published for every question change
type QuestionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// QuestionSavedEvent is the payload of created and updated events
type QuestionSavedEvent struct {
	QuestionID  uint    `json:"question_id"`
	QuizID      uint    `json:"quiz_id"`
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
	OptionCount int     `json:"option_count"`
	CorrectIDs  []uint  `json:"correct_option_ids"`
}

type QuestionDeletedEvent struct {
	QuestionID uint `json:"question_id"`
}

func newEvent(eventType EventType, data interface{}) *QuestionEvent {
	return &QuestionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// NewQuestionSavedEvent builds a created or updated event from the canonical question
func NewQuestionSavedEvent(created bool, q *models.Question) *QuestionEvent {
	eventType := EventQuestionUpdated
	if created {
		eventType = EventQuestionCreated
	}

	correct := make([]uint, 0)
	for _, opt := range q.CorrectOptions() {
		correct = append(correct, opt.ID)
	}

	return newEvent(eventType, QuestionSavedEvent{
		QuestionID:  q.ID,
		QuizID:      q.QuizID,
		Text:        q.Text,
		Score:       q.Score,
		OptionCount: len(q.Options),
		CorrectIDs:  correct,
	})
}

func NewQuestionDeletedEvent(questionID uint) *QuestionEvent {
	return newEvent(EventQuestionDeleted, QuestionDeletedEvent{QuestionID: questionID})
}
