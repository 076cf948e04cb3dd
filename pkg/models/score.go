package models

// ContentScore is the result of rubric scoring a piece of generated text.
// Passed is always derived from Score and the configured pass threshold.
type ContentScore struct {
	Score        int      `json:"score"`
	Passed       bool     `json:"passed"`
	Strengths    []string `json:"strengths,omitempty"`
	Flagged      []string `json:"flagged,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

// IdentityMatch is the result of matching a candidate handle against known
// reference facts. Confidence is a [0,1] sum of independently weighted
// evidence signals; IsLikely is derived from the confidence threshold.
type IdentityMatch struct {
	Confidence float64 `json:"confidence"`
	IsLikely   bool    `json:"is_likely"`
	Reason     string  `json:"reason"`
}
