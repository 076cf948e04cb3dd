package score

import (
	"context"
	"fmt"

	"github.com/hearsay-ai/hearsay/pkg/logging"
	"github.com/hearsay-ai/hearsay/pkg/metrics"
	"github.com/hearsay-ai/hearsay/pkg/models"
)

// EvidenceSource retrieves external search evidence about a candidate handle.
type EvidenceSource interface {
	Gather(ctx context.Context, handle, platform, refName string) ([]models.SearchResult, error)
}

// Verifier ties an EvidenceSource to the identity scorer. It is advisory:
// every failure mode degrades to a low-confidence "please confirm" outcome
// instead of an error, because a crashed verification must never block a
// research pipeline, and an unverifiable handle must never pass as verified.
type Verifier struct {
	source EvidenceSource
}

// NewVerifier creates a Verifier over the given evidence source.
func NewVerifier(source EvidenceSource) *Verifier {
	return &Verifier{source: source}
}

// Verify gathers evidence about candidateHandle on platform and scores it
// against the reference facts. When evidence retrieval fails, the result is
// confidence 0 with an explicit could-not-verify reason, which is a distinct
// outcome from "no match found" in the reason text and diagnostics even
// though both resolve to IsLikely == false.
func (v *Verifier) Verify(ctx context.Context, candidateHandle, platform, refWebsite, refName string) models.IdentityMatch {
	evidence, err := v.source.Gather(ctx, candidateHandle, platform, refName)
	if err != nil {
		metrics.Warnings.WithLabelValues("verifier").Inc()
		logging.For("verifier").Warn("evidence retrieval failed",
			"handle", candidateHandle, "platform", platform, "error", err)
		return models.IdentityMatch{
			Confidence: 0,
			IsLikely:   false,
			Reason:     fmt.Sprintf("verification could not be completed: %v", err),
		}
	}
	return IdentityFromEvidence(candidateHandle, refWebsite, refName, evidence)
}
