package model

// FixSuggestion is an AI generated remediation hint for one finding.
type FixSuggestion struct {
	Finding    Finding `json:"finding"`
	Suggestion string  `json:"suggestion"`
}
