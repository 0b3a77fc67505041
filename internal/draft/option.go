package draft

import "strings"

// Option is an answer choice being edited. ID is zero for options added
// during the current editing session.
type Option struct {
	ID        uint   `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// HasID reports whether the option already exists on the backend.
func (o Option) HasID() bool {
	return o.ID != 0
}

// IsBlank reports whether the option text is empty after trimming.
func (o Option) IsBlank() bool {
	return strings.TrimSpace(o.Text) == ""
}

// SetText returns a copy of the draft with the option at index renamed.
// An out-of-range index returns the draft unchanged.
func (d Draft) SetText(index int, value string) Draft {
	if index < 0 || index >= len(d.options) {
		return d
	}
	next := d.clone()
	next.options[index].Text = value
	return next
}

// ToggleCorrect returns a copy of the draft with the correctness of the option
// at index flipped. Other options are untouched, so several can be correct.
func (d Draft) ToggleCorrect(index int) Draft {
	if index < 0 || index >= len(d.options) {
		return d
	}
	next := d.clone()
	next.options[index].IsCorrect = !next.options[index].IsCorrect
	return next
}
