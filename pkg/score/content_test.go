package score

import (
	"strings"
	"testing"
)

func TestGenericTextFails(t *testing.T) {
	text := "In today's fast-paced world, content is a game changer. " +
		"At the end of the day, you should elevate your brand."

	result := Content(text, ContentOptions{})
	if result.Passed {
		t.Errorf("generic text passed with score %d", result.Score)
	}
	if len(result.Flagged) < 2 {
		t.Errorf("expected multiple flagged phrases, got %v", result.Flagged)
	}
}

func TestSpecificTextPasses(t *testing.T) {
	text := "Engagement grew 34% between March and May. @gymtalk posted 18 reels; " +
		"the hook lands in the first 2 seconds and the cta drives profile visits."

	result := Content(text, ContentOptions{Sections: []string{"hook", "cta"}})
	if !result.Passed {
		t.Errorf("specific text failed with score %d: %v", result.Score, result.Improvements)
	}
	if len(result.Strengths) < 3 {
		t.Errorf("expected numbers, percentages and handles as strengths, got %v", result.Strengths)
	}
	if len(result.Flagged) != 0 {
		t.Errorf("unexpected flagged phrases: %v", result.Flagged)
	}
}

func TestMissingSectionRecordedAsImprovement(t *testing.T) {
	text := "Audience grew 12% in June with three viral posts from @fitwithmaria."

	result := Content(text, ContentOptions{Sections: []string{"posting_schedule"}})
	if len(result.Improvements) != 1 {
		t.Fatalf("expected 1 improvement, got %v", result.Improvements)
	}
	if !strings.Contains(result.Improvements[0], "posting_schedule") {
		t.Errorf("improvement should name the missing section: %s", result.Improvements[0])
	}

	covered := Content(text+" The posting schedule stays at four reels per week.",
		ContentOptions{Sections: []string{"posting_schedule"}})
	if covered.Score <= result.Score {
		t.Errorf("covering the section should raise the score: %d vs %d", covered.Score, result.Score)
	}
}

func TestLengthBounds(t *testing.T) {
	short := Content("Grew 40% in May via @handle.", ContentOptions{MinWords: 50})
	if len(short.Improvements) == 0 || !strings.Contains(short.Improvements[0], "too short") {
		t.Errorf("expected too-short improvement, got %v", short.Improvements)
	}

	long := Content(strings.Repeat("growth 12% in May via @handle ", 40), ContentOptions{MaxWords: 20})
	if len(long.Improvements) == 0 || !strings.Contains(long.Improvements[0], "too long") {
		t.Errorf("expected too-long improvement, got %v", long.Improvements)
	}
}

func TestScoreClampedAndPassedDerived(t *testing.T) {
	// Pile on enough generic phrases to push the raw score below zero.
	text := "In conclusion, at the end of the day, it goes without saying that this " +
		"game changer will revolutionize the way you unlock the potential and " +
		"take it to the next level. Look no further."

	result := Content(text, ContentOptions{Sections: []string{"metrics", "competitors", "schedule"}})
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("score out of range: %d", result.Score)
	}
	if result.Passed != (result.Score >= DefaultContentPassThreshold) {
		t.Error("Passed must be derived from Score and the threshold")
	}
}

func TestCustomThreshold(t *testing.T) {
	text := "Reach grew 9% in April."
	strict := Content(text, ContentOptions{PassThreshold: 90})
	lax := Content(text, ContentOptions{PassThreshold: 10})

	if strict.Passed {
		t.Error("expected failure under strict threshold")
	}
	if !lax.Passed {
		t.Error("expected pass under lax threshold")
	}
	if strict.Score != lax.Score {
		t.Error("threshold must not change the score itself")
	}
}
