package score

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.GlowSkin.co/about":  "glowskin.co",
		"http://glowskin.co":             "glowskin.co",
		"www.glowskin.co?ref=ig":         "glowskin.co",
		"glowskin.co":                    "glowskin.co",
	}
	for in, want := range cases {
		if got := NormalizeDomain(in); got != want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("Glow-Skin_Labs"); got != "glow skin labs" {
		t.Errorf("got %q", got)
	}
}

func TestDomainMatchDominates(t *testing.T) {
	evidence := []models.SearchResult{
		{Title: "GlowSkin (@glowskin) on Instagram", URL: "https://instagram.com/glowskin"},
		{Title: "About us", URL: "https://www.glowskin.co/about", Snippet: "Official site."},
	}

	m := IdentityFromEvidence("glowskin", "https://www.glowskin.co", "", evidence)
	if m.Confidence < 0.6 {
		t.Errorf("expected confidence >= 0.6 on domain match, got %v", m.Confidence)
	}
	if !m.IsLikely {
		t.Error("expected IsLikely on domain match")
	}
	if !strings.Contains(m.Reason, "glowskin.co") {
		t.Errorf("reason should cite the domain: %s", m.Reason)
	}
}

func TestNoSignalsMeansZeroConfidence(t *testing.T) {
	evidence := []models.SearchResult{
		{Title: "Unrelated store", URL: "https://example.com", Snippet: "Nothing relevant."},
	}

	m := IdentityFromEvidence("glowskin", "https://glowskin.co", "GlowSkin Labs", evidence)
	if m.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", m.Confidence)
	}
	if m.IsLikely {
		t.Error("absence of proof must never read as likely")
	}
}

func TestNameTokensCapped(t *testing.T) {
	evidence := []models.SearchResult{
		{Title: "Glow Skin Labs Collective interview", URL: "https://blog.example.com",
			Snippet: "The glow skin labs collective team talks growth."},
	}

	m := IdentityFromEvidence("glowskin", "", "Glow Skin Labs Collective", evidence)
	// Four tokens match ("glow" is too short? no: len 4) but the weight caps at 0.3.
	if m.Confidence != 0.3 {
		t.Errorf("expected capped 0.3, got %v", m.Confidence)
	}
	if m.IsLikely {
		t.Error("name tokens alone must stay below the likely threshold")
	}
}

func TestShortTokensIgnored(t *testing.T) {
	evidence := []models.SearchResult{
		{Title: "of co on it", URL: "https://example.com", Snippet: "of co on it"},
	}

	m := IdentityFromEvidence("handle", "", "Co Of It", evidence)
	if m.Confidence != 0 {
		t.Errorf("short noise tokens must not score, got %v", m.Confidence)
	}
}

func TestSummaryMentionOnlyWhenDomainUnmatched(t *testing.T) {
	snippetOnly := []models.SearchResult{
		{Title: "Skincare roundup", URL: "https://blog.example.com",
			Snippet: "Find them at glowskin.co for the full catalog."},
	}
	m := IdentityFromEvidence("glowskin", "glowskin.co", "", snippetOnly)
	if m.Confidence != 0.1 {
		t.Errorf("expected 0.1 summary-only weight, got %v", m.Confidence)
	}

	both := []models.SearchResult{
		{Title: "GlowSkin", URL: "https://glowskin.co",
			Snippet: "Find them at glowskin.co for the full catalog."},
	}
	m = IdentityFromEvidence("glowskin", "glowskin.co", "", both)
	if m.Confidence != 0.6 {
		t.Errorf("domain must not be counted twice, got %v", m.Confidence)
	}
}

func TestConfidenceClamped(t *testing.T) {
	evidence := []models.SearchResult{
		{Title: "Glow Skin Labs — glowskin.co", URL: "https://glowskin.co",
			Snippet: "glow skin labs at glowskin.co"},
	}
	m := IdentityFromEvidence("glowskin", "glowskin.co", "Glow Skin Labs", evidence)
	if m.Confidence > 1 {
		t.Errorf("confidence above 1: %v", m.Confidence)
	}
}

type stubSource struct {
	results []models.SearchResult
	err     error
}

func (s stubSource) Gather(context.Context, string, string, string) ([]models.SearchResult, error) {
	return s.results, s.err
}

func TestVerifierScoresEvidence(t *testing.T) {
	v := NewVerifier(stubSource{results: []models.SearchResult{
		{Title: "GlowSkin", URL: "https://glowskin.co"},
	}})

	m := v.Verify(context.Background(), "glowskin", "instagram", "https://glowskin.co", "")
	if !m.IsLikely {
		t.Errorf("expected likely match, got %+v", m)
	}
}

func TestVerifierDegradesOnRetrievalFailure(t *testing.T) {
	v := NewVerifier(stubSource{err: errors.New("search timeout")})

	m := v.Verify(context.Background(), "glowskin", "instagram", "https://glowskin.co", "GlowSkin")
	if m.Confidence != 0 || m.IsLikely {
		t.Errorf("retrieval failure must degrade to unverified, got %+v", m)
	}
	if !strings.Contains(m.Reason, "could not be completed") {
		t.Errorf("reason must say verification could not be completed: %s", m.Reason)
	}
}
