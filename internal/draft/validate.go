package draft

import (
	"fmt"
	"math"
	"strings"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Violation names the first unmet submission rule of a draft.
type Violation int

const (
	Valid Violation = iota
	MissingText
	InvalidScore
	InsufficientOptions
	NoCorrectOption
)

var violationCodes = map[Violation]string{
	Valid:               "valid",
	MissingText:         "missing_text",
	InvalidScore:        "invalid_score",
	InsufficientOptions: "insufficient_options",
	NoCorrectOption:     "no_correct_option",
}

var violationMessages = map[Violation]string{
	Valid:               "question is valid",
	MissingText:         "question text is required",
	InvalidScore:        "score is required and must be a non-negative number",
	InsufficientOptions: "at least 2 options must have text",
	NoCorrectOption:     "at least one option must be marked correct",
}

func (v Violation) String() string {
	return violationCodes[v]
}

// Message is the user-facing text for the violation.
func (v Violation) Message() string {
	return violationMessages[v]
}

func (v Violation) Field() string {
	switch v {
	case MissingText:
		return "text"
	case InvalidScore:
		return "score"
	case InsufficientOptions, NoCorrectOption:
		return "options"
	}
	return ""
}

func (v Violation) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Violation) UnmarshalText(text []byte) error {
	for code, name := range violationCodes {
		if name == string(text) {
			*v = code
			return nil
		}
	}
	return fmt.Errorf("unknown violation %q", text)
}

// Validate checks the submission rules in a fixed order and reports the first
// one that fails.
func (d Draft) Validate() Violation {
	if strings.TrimSpace(d.text) == "" {
		return MissingText
	}
	if d.score == nil || math.IsNaN(*d.score) || math.IsInf(*d.score, 0) || *d.score < 0 {
		return InvalidScore
	}

	kept := d.nonBlankOptions()
	if len(kept) < models.MinOptions {
		return InsufficientOptions
	}
	for _, opt := range kept {
		if opt.IsCorrect {
			return Valid
		}
	}
	return NoCorrectOption
}

func (d Draft) nonBlankOptions() []Option {
	kept := make([]Option, 0, len(d.options))
	for _, opt := range d.options {
		if !opt.IsBlank() {
			kept = append(kept, opt)
		}
	}
	return kept
}
