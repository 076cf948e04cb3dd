// Package score converts noisy, partial evidence into bounded scores with
// human-readable reasons. Two specializations share the shape: content
// quality judges generated text against a rubric, identity match aggregates
// weighted search-evidence signals into a [0,1] confidence. Both are cheap,
// deterministic, and never require a network call of their own.
package score

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Scoring constants for the content-quality specialization. The base sits
// below the pass threshold so empty or generic text fails by default, and
// only concrete, specific writing climbs over it.
const (
	contentBase            = 60
	genericPhrasePenalty   = 15
	specificitySignalBonus = 6
	missingSectionPenalty  = 10
	lengthPenalty          = 10

	// DefaultContentPassThreshold derives Passed from Score when the caller
	// does not configure a threshold.
	DefaultContentPassThreshold = 70
)

// genericPhrases is the fixed list of boilerplate expressions penalized in
// generated text. Matching is case-insensitive substring.
var genericPhrases = []string{
	"in today's fast-paced world",
	"in today's digital age",
	"in conclusion",
	"it's important to note",
	"it goes without saying",
	"at the end of the day",
	"game changer",
	"game-changer",
	"unlock the potential",
	"unlock your potential",
	"take it to the next level",
	"elevate your",
	"leverage the power",
	"look no further",
	"dive into the world of",
	"revolutionize the way",
	"unleash",
	"in the ever-evolving",
}

// Specificity signal detectors: concrete numbers, percentages, social
// handles, and dates are what separate real research output from filler.
var (
	numberPattern  = regexp.MustCompile(`\b\d[\d,]*(\.\d+)?\b`)
	percentPattern = regexp.MustCompile(`\b\d+(\.\d+)?\s?%`)
	handlePattern  = regexp.MustCompile(`@[A-Za-z0-9_.]{2,30}`)
	datePattern    = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|q[1-4]|\d{4})\b`)
)

// ContentOptions describes what the generated text was supposed to contain.
type ContentOptions struct {
	// Sections are the rubric section keys the text must cover, matched by
	// case-insensitive keyword presence (underscores read as spaces).
	Sections []string
	// MinWords and MaxWords bound the target length; zero disables the bound.
	MinWords int
	MaxWords int
	// PassThreshold overrides DefaultContentPassThreshold when positive.
	PassThreshold int
}

// Content scores generated text against the rubric. Generic phrases lower
// the score and are recorded as flagged signals; specificity signals raise
// it and are recorded as strengths; each missing rubric section lowers it
// and is recorded as an actionable improvement. The final score is clamped
// to [0,100] and Passed is derived from the threshold, never set directly.
func Content(text string, opts ContentOptions) models.ContentScore {
	threshold := opts.PassThreshold
	if threshold <= 0 {
		threshold = DefaultContentPassThreshold
	}

	lower := strings.ToLower(text)
	score := contentBase
	var result models.ContentScore

	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			score -= genericPhrasePenalty
			result.Flagged = append(result.Flagged, phrase)
		}
	}

	signals := []struct {
		name    string
		pattern *regexp.Regexp
	}{
		{"concrete numbers", numberPattern},
		{"percentages", percentPattern},
		{"named handles", handlePattern},
		{"dates or periods", datePattern},
	}
	for _, sig := range signals {
		if sig.pattern.MatchString(text) {
			score += specificitySignalBonus
			result.Strengths = append(result.Strengths, "includes "+sig.name)
		}
	}

	for _, section := range opts.Sections {
		keyword := strings.ToLower(strings.ReplaceAll(section, "_", " "))
		if !strings.Contains(lower, keyword) {
			score -= missingSectionPenalty
			result.Improvements = append(result.Improvements,
				fmt.Sprintf("section %q is not covered: add content mentioning %q", section, keyword))
		}
	}

	words := len(strings.Fields(text))
	if opts.MinWords > 0 && words < opts.MinWords {
		score -= lengthPenalty
		result.Improvements = append(result.Improvements,
			fmt.Sprintf("too short: %d words, target at least %d", words, opts.MinWords))
	} else if opts.MaxWords > 0 && words > opts.MaxWords {
		score -= lengthPenalty
		result.Improvements = append(result.Improvements,
			fmt.Sprintf("too long: %d words, target at most %d", words, opts.MaxWords))
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result.Score = score
	result.Passed = score >= threshold
	return result
}
