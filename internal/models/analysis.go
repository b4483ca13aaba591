package models

import "strings"

// Rubric names a grading emphasis passed to the feedback generator.
type Rubric string

const (
	RubricBasic     Rubric = "basic"
	RubricMechanics Rubric = "mechanics"
	RubricEvidence  Rubric = "evidence"
	RubricCustomary Rubric = "customary"
)

// ParseRubric normalises user input, falling back to basic for unknown values.
func ParseRubric(value string) Rubric {
	switch r := Rubric(strings.ToLower(strings.TrimSpace(value))); r {
	case RubricBasic, RubricMechanics, RubricEvidence, RubricCustomary:
		return r
	default:
		return RubricBasic
	}
}

// Rubrics lists the supported presets in display order.
func Rubrics() []Rubric {
	return []Rubric{RubricBasic, RubricMechanics, RubricEvidence, RubricCustomary}
}

// AnalysisOptions are built per request from the current client state.
type AnalysisOptions struct {
	Rubric  Rubric `json:"rubric"`
	Explain bool   `json:"explain"`
	Model   string `json:"model"`
}

// AnalysisResult is the feedback produced for a single essay. It is never
// persisted on its own; approving it folds it into a Report.
type AnalysisResult struct {
	Grammar string `json:"grammar"`
	Clarity string `json:"clarity"`
	Score   int    `json:"score"`
	Raw     string `json:"raw"`
}

// ClampScore bounds a score to the 0..100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
