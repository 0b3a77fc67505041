package models

import (
	"time"

	"gorm.io/gorm"
)

// Option bounds enforced by the draft editor.
const (
	MinOptions     = 2
	MaxOptions     = 10
	DefaultOptions = 4
)

type Question struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	QuizID uint    `json:"quiz_id" gorm:"not null;index"`
	Text   string  `json:"text" gorm:"type:text;not null"`
	Score  float64 `json:"score" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Options []Option `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// Option is one answer choice. ID is zero until the option has been persisted.
type Option struct {
	ID         uint   `json:"id,omitempty" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id,omitempty" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// QuestionSubmission is what a validated draft hands to the persistence layer.
// Correctness is kept as a bool here; wire encodings are chosen per operation.
type QuestionSubmission struct {
	QuizID  uint              `json:"quiz_id"`
	Text    string            `json:"text"`
	Score   float64           `json:"score"`
	Options []SubmittedOption `json:"options"`
}

type SubmittedOption struct {
	ID        uint   `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

func (Question) TableName() string {
	return "questions"
}

func (Option) TableName() string {
	return "question_options"
}

// CorrectOptions returns the options marked correct, in display order.
func (q *Question) CorrectOptions() []Option {
	var correct []Option
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct = append(correct, opt)
		}
	}
	return correct
}
