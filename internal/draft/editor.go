package draft

import "github.com/SAP-F-2025/quiz-service/internal/models"

// Editor keeps the current draft together with its undo and redo history.
// It is not safe for concurrent use; callers serialize access.
type Editor struct {
	current Draft
	past    []Draft
	future  []Draft
}

func NewEditor(d Draft) *Editor {
	return &Editor{current: d}
}

func (e *Editor) Draft() Draft {
	return e.current
}

func (e *Editor) SetQuestionText(value string) {
	e.apply(e.current.SetQuestionText(value))
}

func (e *Editor) SetScore(value float64) {
	e.apply(e.current.SetScore(value))
}

func (e *Editor) ClearScore() {
	e.apply(e.current.ClearScore())
}

func (e *Editor) SetText(index int, value string) {
	if index < 0 || index >= e.current.OptionCount() {
		return
	}
	e.apply(e.current.SetText(index, value))
}

func (e *Editor) ToggleCorrect(index int) {
	if index < 0 || index >= e.current.OptionCount() {
		return
	}
	e.apply(e.current.ToggleCorrect(index))
}

func (e *Editor) AddOption() error {
	next, err := e.current.AddOption()
	if err != nil {
		return err
	}
	e.apply(next)
	return nil
}

func (e *Editor) RemoveOption(index int) error {
	next, err := e.current.RemoveOption(index)
	if err != nil {
		return err
	}
	e.apply(next)
	return nil
}

func (e *Editor) Validate() Violation {
	return e.current.Validate()
}

func (e *Editor) Submission() (*models.QuestionSubmission, error) {
	return e.current.Submission()
}

// Undo steps back one mutation. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	if len(e.past) == 0 {
		return false
	}
	e.future = append(e.future, e.current)
	e.current = e.past[len(e.past)-1]
	e.past = e.past[:len(e.past)-1]
	return true
}

func (e *Editor) Redo() bool {
	if len(e.future) == 0 {
		return false
	}
	e.past = append(e.past, e.current)
	e.current = e.future[len(e.future)-1]
	e.future = e.future[:len(e.future)-1]
	return true
}

func (e *Editor) CanUndo() bool { return len(e.past) > 0 }
func (e *Editor) CanRedo() bool { return len(e.future) > 0 }

// Reset replaces the draft and clears history, e.g. with the canonical copy
// returned by a successful save.
func (e *Editor) Reset(d Draft) {
	e.current = d
	e.past = nil
	e.future = nil
}

func (e *Editor) apply(next Draft) {
	e.past = append(e.past, e.current)
	e.future = nil
	e.current = next
}
