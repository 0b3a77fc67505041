// Package draft holds the in-memory model of a quiz question while it is being
// authored or edited. A Draft is an immutable value: every mutation returns a
// new Draft backed by a freshly allocated option slice.
package draft

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

var (
	ErrTooManyOptions = errors.New("a question can have at most 10 options")
	ErrTooFewOptions  = errors.New("a question must keep at least 2 options")
	ErrOptionIndex    = errors.New("option index out of range")
)

// GuardError is an informational notice for an add/remove that was blocked.
// The draft it was returned with is unchanged.
type GuardError struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
	Err    error  `json:"-"`
}

func (g *GuardError) Error() string {
	return fmt.Sprintf("%s blocked at %d options: %v", g.Action, g.Count, g.Err)
}

func (g *GuardError) Unwrap() error {
	return g.Err
}

type Draft struct {
	questionID uint
	quizID     uint
	text       string
	score      *float64
	options    []Option
}

// New starts an empty draft for quizID seeded with DefaultOptions blank options.
func New(quizID uint) Draft {
	return Draft{
		quizID:  quizID,
		options: make([]Option, models.DefaultOptions),
	}
}

// FromQuestion seeds a draft from a persisted question. Option ids are kept so
// the adapter can tell updated options from new ones.
func FromQuestion(q *models.Question) Draft {
	score := q.Score
	d := Draft{
		questionID: q.ID,
		quizID:     q.QuizID,
		text:       q.Text,
		score:      &score,
		options:    make([]Option, len(q.Options)),
	}
	for i, opt := range q.Options {
		d.options[i] = Option{ID: opt.ID, Text: opt.Text, IsCorrect: opt.IsCorrect}
	}
	return d
}

func (d Draft) QuestionID() uint { return d.questionID }
func (d Draft) QuizID() uint     { return d.quizID }
func (d Draft) Text() string     { return d.text }

// IsNew reports whether the draft has never been saved.
func (d Draft) IsNew() bool {
	return d.questionID == 0
}

// Score returns the entered score and whether one has been entered.
func (d Draft) Score() (float64, bool) {
	if d.score == nil {
		return 0, false
	}
	return *d.score, true
}

// Options returns a copy of the option list.
func (d Draft) Options() []Option {
	out := make([]Option, len(d.options))
	copy(out, d.options)
	return out
}

func (d Draft) OptionCount() int {
	return len(d.options)
}

func (d Draft) SetQuestionText(value string) Draft {
	next := d.clone()
	next.text = value
	return next
}

func (d Draft) SetScore(value float64) Draft {
	next := d.clone()
	next.score = &value
	return next
}

// ClearScore marks the score as not entered.
func (d Draft) ClearScore() Draft {
	next := d.clone()
	next.score = nil
	return next
}

// AddOption appends a blank, incorrect option. At MaxOptions it returns the
// draft unchanged with a *GuardError.
func (d Draft) AddOption() (Draft, error) {
	if len(d.options) >= models.MaxOptions {
		return d, &GuardError{Action: "add_option", Count: len(d.options), Err: ErrTooManyOptions}
	}
	next := d.clone()
	next.options = append(next.options, Option{})
	return next, nil
}

// RemoveOption drops the option at index. At MinOptions it returns the draft
// unchanged with a *GuardError.
func (d Draft) RemoveOption(index int) (Draft, error) {
	if len(d.options) <= models.MinOptions {
		return d, &GuardError{Action: "remove_option", Count: len(d.options), Err: ErrTooFewOptions}
	}
	if index < 0 || index >= len(d.options) {
		return d, ErrOptionIndex
	}
	next := d.clone()
	next.options = make([]Option, 0, len(d.options)-1)
	next.options = append(next.options, d.options[:index]...)
	next.options = append(next.options, d.options[index+1:]...)
	return next, nil
}

func (d Draft) clone() Draft {
	next := d
	next.options = make([]Option, len(d.options), len(d.options)+1)
	copy(next.options, d.options)
	if d.score != nil {
		score := *d.score
		next.score = &score
	}
	return next
}
