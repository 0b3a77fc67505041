package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// CorrectnessEncoding selects how is_correct is written on the wire. The
// backend takes a JSON boolean on create and a 0/1 integer on update.
type CorrectnessEncoding int

const (
	EncodeBool CorrectnessEncoding = iota
	EncodeInt
)

func (e CorrectnessEncoding) encode(v bool) interface{} {
	if e == EncodeInt {
		if v {
			return 1
		}
		return 0
	}
	return v
}

type optionPayload struct {
	ID        uint        `json:"id,omitempty"`
	Text      string      `json:"text"`
	IsCorrect interface{} `json:"is_correct"`
}

type questionPayload struct {
	QuizID  uint            `json:"quiz_id"`
	Text    string          `json:"text"`
	Score   float64         `json:"score"`
	Options []optionPayload `json:"options"`
}

func encodeSubmission(sub *models.QuestionSubmission, enc CorrectnessEncoding, withIDs bool) questionPayload {
	p := questionPayload{
		QuizID:  sub.QuizID,
		Text:    sub.Text,
		Score:   sub.Score,
		Options: make([]optionPayload, len(sub.Options)),
	}
	for i, opt := range sub.Options {
		p.Options[i] = optionPayload{Text: opt.Text, IsCorrect: enc.encode(opt.IsCorrect)}
		if withIDs {
			p.Options[i].ID = opt.ID
		}
	}
	return p
}

// flexBool accepts true/false, 0/1 and their quoted forms.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "true", "1":
		*b = true
	case "false", "0", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %s", data)
	}
	return nil
}

type wireOption struct {
	ID         uint     `json:"id"`
	QuestionID uint     `json:"question_id"`
	Text       string   `json:"text"`
	IsCorrect  flexBool `json:"is_correct"`
}

type wireQuestion struct {
	ID        uint         `json:"id"`
	QuizID    uint         `json:"quiz_id"`
	Text      string       `json:"text"`
	Score     float64      `json:"score"`
	Options   []wireOption `json:"options"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (w wireQuestion) toModel() *models.Question {
	q := &models.Question{
		ID:        w.ID,
		QuizID:    w.QuizID,
		Text:      w.Text,
		Score:     w.Score,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if len(w.Options) > 0 {
		q.Options = make([]models.Option, len(w.Options))
		for i, opt := range w.Options {
			questionID := opt.QuestionID
			if questionID == 0 {
				questionID = w.ID
			}
			q.Options[i] = models.Option{
				ID:         opt.ID,
				QuestionID: questionID,
				Text:       opt.Text,
				IsCorrect:  bool(opt.IsCorrect),
			}
		}
	}
	return q
}

type wireAnswer struct {
	ID               uint     `json:"id"`
	QuestionID       uint     `json:"question_id"`
	StudentID        uint     `json:"student_id"`
	SelectedOptionID uint     `json:"selected_option_id"`
	IsCorrect        flexBool `json:"is_correct"`
	Question         struct {
		ID     uint    `json:"id"`
		QuizID uint    `json:"quiz_id"`
		Text   string  `json:"text"`
		Score  float64 `json:"score"`
	} `json:"question"`
	SelectedOption struct {
		ID   uint   `json:"id"`
		Text string `json:"text"`
	} `json:"selected_option"`
	CreatedAt time.Time `json:"created_at"`
}

func (w wireAnswer) toModel() models.AnswerRecord {
	return models.AnswerRecord{
		ID:               w.ID,
		QuestionID:       w.QuestionID,
		StudentID:        w.StudentID,
		SelectedOptionID: w.SelectedOptionID,
		IsCorrect:        bool(w.IsCorrect),
		CreatedAt:        w.CreatedAt,
		Question: models.AnswerQuestion{
			ID:     w.Question.ID,
			QuizID: w.Question.QuizID,
			Text:   w.Question.Text,
			Score:  w.Question.Score,
		},
		SelectedOption: models.AnswerOption{
			ID:   w.SelectedOption.ID,
			Text: w.SelectedOption.Text,
		},
	}
}

// envelope covers the response shapes the backend uses: {"data": ...} on
// create and list, {"question": ...} on update, or a bare body.
type envelope struct {
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Question json.RawMessage `json:"question"`
}

func unwrap(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed
	}
	if len(env.Question) > 0 && string(env.Question) != "null" {
		return env.Question
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return trimmed
}

func decodeQuestion(body []byte) (*wireQuestion, error) {
	payload := unwrap(body)
	if len(payload) == 0 {
		return nil, nil
	}
	var w wireQuestion
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("failed to decode question response: %w", err)
	}
	return &w, nil
}

func decodeList[T any](body []byte) ([]T, error) {
	payload := unwrap(body)
	if len(payload) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	return items, nil
}

type errorBody struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
