package score

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Weights of the independent identity signals. They sum to 1.0: a candidate
// backed by its domain, its name tokens, and a summary mention reaches full
// confidence, and any single signal alone stays explainable.
const (
	domainMatchWeight   = 0.6
	nameTokenWeight     = 0.15
	nameTokenWeightCap  = 0.3
	summaryMentionWeight = 0.1

	// DefaultIdentityThreshold derives IsLikely from Confidence.
	DefaultIdentityThreshold = 0.5
)

var nameSeparators = regexp.MustCompile(`[\s_\-./|]+`)

// NormalizeDomain strips the scheme, a leading "www.", and any path from a
// website URL and lowercases the rest.
func NormalizeDomain(website string) string {
	d := strings.ToLower(strings.TrimSpace(website))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	return d
}

// NormalizeName lowercases a reference name and collapses separator runs to
// single spaces.
func NormalizeName(name string) string {
	return strings.TrimSpace(nameSeparators.ReplaceAllString(strings.ToLower(name), " "))
}

// IdentityFromEvidence aggregates weighted signals from search evidence into
// a [0,1] confidence that the candidate handle belongs to the referenced
// entity. refWebsite and refName may each be empty; only available reference
// facts contribute. Absence of proof is never treated as proof: no signals
// means confidence 0, not an error.
func IdentityFromEvidence(handle, refWebsite, refName string, evidence []models.SearchResult) models.IdentityMatch {
	var raw, summary strings.Builder
	for _, r := range evidence {
		raw.WriteString(strings.ToLower(r.Title))
		raw.WriteString(" ")
		raw.WriteString(strings.ToLower(r.URL))
		raw.WriteString(" ")
		summary.WriteString(strings.ToLower(r.Snippet))
		summary.WriteString(" ")
	}
	rawBlob := raw.String()
	summaryBlob := summary.String()

	var confidence float64
	var reasons []string
	domain := NormalizeDomain(refWebsite)

	domainInRaw := false
	if domain != "" && strings.Contains(rawBlob, domain) {
		domainInRaw = true
		confidence += domainMatchWeight
		reasons = append(reasons, fmt.Sprintf("evidence links reference the domain %s", domain))
	}

	if name := NormalizeName(refName); name != "" {
		matched := 0
		blob := rawBlob + summaryBlob
		for _, token := range strings.Fields(name) {
			// Short tokens ("of", "the", "co") match everything and prove nothing.
			if len(token) <= 2 {
				continue
			}
			if strings.Contains(blob, token) {
				matched++
			}
		}
		if matched > 0 {
			w := nameTokenWeight * float64(matched)
			if w > nameTokenWeightCap {
				w = nameTokenWeightCap
			}
			confidence += w
			reasons = append(reasons, fmt.Sprintf("%d name token(s) of %q appear in the evidence", matched, refName))
		}
	}

	// A summary mention only adds signal when the domain did not already
	// match in the raw evidence; counting it twice would inflate one fact.
	if domain != "" && !domainInRaw && strings.Contains(summaryBlob, domain) {
		confidence += summaryMentionWeight
		reasons = append(reasons, fmt.Sprintf("summary text mentions the domain %s", domain))
	}

	if confidence > 1 {
		confidence = 1
	}

	reason := fmt.Sprintf("no evidence linking @%s to the reference facts", handle)
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	return models.IdentityMatch{
		Confidence: confidence,
		IsLikely:   confidence >= DefaultIdentityThreshold,
		Reason:     reason,
	}
}
