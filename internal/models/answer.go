package models

import "time"

// AnswerRecord is a graded answer as delivered by the grading backend.
// IsCorrect is authoritative; it is never recomputed here.
type AnswerRecord struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	QuestionID       uint      `json:"question_id" gorm:"not null;index"`
	StudentID        uint      `json:"student_id" gorm:"not null;index"`
	SelectedOptionID uint      `json:"selected_option_id" gorm:"not null"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`

	// Denormalized relations
	Question       AnswerQuestion `json:"question" gorm:"foreignKey:QuestionID;-:migration"`
	SelectedOption AnswerOption   `json:"selected_option" gorm:"foreignKey:SelectedOptionID;-:migration"`
}

// AnswerQuestion is the slice of a question carried on an answer record.
type AnswerQuestion struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	QuizID uint    `json:"quiz_id"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// AnswerOption is the slice of the selected option carried on an answer record.
type AnswerOption struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Text string `json:"text"`
}

// StudentAggregate is derived per student from a list of answer records; it is
// never stored.
type StudentAggregate struct {
	StudentID    uint           `json:"student_id"`
	Answers      []AnswerRecord `json:"answers"`
	CorrectCount int            `json:"correct_count"`
	TotalCount   int            `json:"total_count"`
	TotalScore   float64        `json:"total_score"`
}

func (AnswerRecord) TableName() string {
	return "answers"
}

func (AnswerQuestion) TableName() string {
	return "questions"
}

func (AnswerOption) TableName() string {
	return "question_options"
}
