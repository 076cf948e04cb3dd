package search

import (
	"context"
	"fmt"

	"github.com/hearsay-ai/hearsay/pkg/logging"
	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Searcher runs a single search query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Gatherer collects identity evidence about a candidate handle by fanning a
// small fixed query set through a Searcher and deduplicating by URL. It
// implements score.EvidenceSource.
type Gatherer struct {
	searcher Searcher
}

// NewGatherer creates a Gatherer over the given searcher.
func NewGatherer(searcher Searcher) *Gatherer {
	return &Gatherer{searcher: searcher}
}

// Gather runs the evidence queries for a handle. Individual query failures
// are tolerated as long as at least one query succeeds; if every query
// fails, the last error is returned so the caller can report that
// verification could not be completed.
func (g *Gatherer) Gather(ctx context.Context, handle, platform, refName string) ([]models.SearchResult, error) {
	queries := evidenceQueries(handle, platform, refName)

	var all []models.SearchResult
	seen := make(map[string]bool)
	var lastErr error
	failed := 0

	for _, q := range queries {
		results, err := g.searcher.Search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			lastErr = err
			logging.For("search").Warn("evidence query failed", "query", q, "error", err)
			continue
		}
		for _, r := range results {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			all = append(all, r)
		}
	}

	if failed == len(queries) {
		return nil, fmt.Errorf("all evidence queries failed: %w", lastErr)
	}
	return all, nil
}

// evidenceQueries builds the query set for a candidate handle, mirroring the
// brand-context searches the research pipeline runs: a site-restricted
// profile lookup, a mention search, and (when known) the reference name.
func evidenceQueries(handle, platform, refName string) []string {
	queries := []string{
		fmt.Sprintf(`site:%s.com %q`, platform, handle),
		fmt.Sprintf(`@%s %s`, handle, platform),
	}
	if refName != "" {
		queries = append(queries,
			fmt.Sprintf(`%q official website`, refName),
			fmt.Sprintf(`%q %s`, refName, platform),
		)
	}
	return queries
}
