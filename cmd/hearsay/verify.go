package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/pkg/audit"
	"github.com/hearsay-ai/hearsay/pkg/budget"
	"github.com/hearsay-ai/hearsay/pkg/cache"
	"github.com/hearsay-ai/hearsay/pkg/cache/memory"
	"github.com/hearsay-ai/hearsay/pkg/cache/sqlite"
	"github.com/hearsay-ai/hearsay/pkg/config"
	"github.com/hearsay-ai/hearsay/pkg/models"
	"github.com/hearsay-ai/hearsay/pkg/pacing"
	"github.com/hearsay-ai/hearsay/pkg/relay"
	"github.com/hearsay-ai/hearsay/pkg/score"
	"github.com/hearsay-ai/hearsay/pkg/search"
)

// searchCallCost is the nominal ledger cost of one evidence search.
const searchCallCost = 0.01

const auditRetentionDays = 30

func newVerifyCmd() *cobra.Command {
	var (
		configPath string
		handle     string
		platform   string
		website    string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check whether a social handle matches a known person or brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handle == "" {
				return fmt.Errorf("--handle is required")
			}
			if website == "" && name == "" {
				return fmt.Errorf("at least one of --website or --name is required")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			core, cleanup, err := openCore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			verifier := score.NewVerifier(search.NewGatherer(newRelaySearcher(cfg, core)))

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			match := verifier.Verify(ctx, handle, platform, website, name)
			if threshold := cfg.Scoring.IdentityThreshold; threshold > 0 {
				match.IsLikely = match.Confidence >= threshold
			}

			fmt.Printf("Handle:     @%s (%s)\n", handle, platform)
			fmt.Printf("Confidence: %.2f\n", match.Confidence)
			fmt.Printf("Likely:     %t\n", match.IsLikely)
			fmt.Printf("Reason:     %s\n", match.Reason)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&handle, "handle", "", "candidate handle, without the @")
	cmd.Flags().StringVar(&platform, "platform", "instagram", "platform the handle lives on")
	cmd.Flags().StringVar(&website, "website", "", "reference website of the person or brand")
	cmd.Flags().StringVar(&name, "name", "", "reference name of the person or brand")

	return cmd
}

// openCore assembles the paced, budgeted, cached call core from config.
// The returned cleanup closes every durable handle.
func openCore(cfg *config.Config) (*relay.Relay, func(), error) {
	gate := pacing.New(cfg.Pacing.Warmup, cfg.Pacing.MinInterval)
	for class := range cfg.Pacing.Classes {
		cp := cfg.ClassPacingFor(class)
		gate.WithOverride(class, pacing.Interval{Warmup: cp.Warmup, MinInterval: cp.MinInterval})
	}

	var store cache.Store
	var durable *sqlite.Store
	if cfg.Cache.Enabled {
		var err error
		durable, err = sqlite.New(cfg.DBPath, cfg.Cache.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("open result cache: %w", err)
		}
		store = cache.NewFailover(durable, memory.New(cfg.Cache.TTL))
	} else {
		// A zero TTL expires entries on the read after the write, so every
		// lookup is a miss and the relay always produces.
		store = memory.New(0)
	}

	journal, err := budget.OpenJournal(cfg.DBPath)
	if err != nil {
		closeQuiet(durable)
		return nil, nil, fmt.Errorf("open budget journal: %w", err)
	}
	ledger, err := budget.NewWithJournal(cfg.Budget.Ceiling, cfg.Budget.Simulate, journal)
	if err != nil {
		closeQuiet(durable)
		_ = journal.Close()
		return nil, nil, fmt.Errorf("load budget totals: %w", err)
	}

	callLog, err := audit.New(cfg.DBPath, auditRetentionDays)
	if err != nil {
		closeQuiet(durable)
		_ = journal.Close()
		return nil, nil, fmt.Errorf("open call log: %w", err)
	}

	cleanup := func() {
		_ = callLog.Close()
		_ = journal.Close()
		_ = store.Close()
	}
	return relay.New(store, ledger, gate, callLog), cleanup, nil
}

func closeQuiet(s *sqlite.Store) {
	if s != nil {
		_ = s.Close()
	}
}

// relaySearcher routes every search through the relay so that caching,
// budget enforcement, and the call log apply uniformly. The relay owns
// pacing, so the inner client is built on an unrestricted gate and the
// wait is never served twice.
type relaySearcher struct {
	relay    *relay.Relay
	client   *search.DuckDuckGo
	simulate bool
}

func newRelaySearcher(cfg *config.Config, r *relay.Relay) *relaySearcher {
	opts := []search.Option{
		search.WithHTTPClient(&http.Client{Timeout: cfg.Search.Timeout}),
		search.WithMaxResults(cfg.Search.MaxResults),
	}
	if cfg.Search.Endpoint != "" {
		opts = append(opts, search.WithEndpoint(cfg.Search.Endpoint))
	}
	return &relaySearcher{
		relay:    r,
		client:   search.New(pacing.New(0, 0), opts...),
		simulate: cfg.Budget.Simulate,
	}
}

func (s *relaySearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	producer := s.producer(query)
	if s.simulate {
		producer = relay.SyntheticProducer([]byte("[]"), 1)
	}

	res, err := s.relay.Execute(ctx, relay.Request{
		Fingerprint:   cache.Fingerprint(search.EndpointClass, query),
		EndpointClass: search.EndpointClass,
		CostEstimate:  searchCallCost,
		Producer:      producer,
	})
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	if err := json.Unmarshal(res.Payload, &results); err != nil {
		return nil, fmt.Errorf("decode cached search results: %w", err)
	}
	return results, nil
}

func (s *relaySearcher) producer(query string) relay.Producer {
	return func(ctx context.Context) (*relay.Outcome, error) {
		results, err := s.client.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(results)
		if err != nil {
			return nil, fmt.Errorf("encode search results: %w", err)
		}
		return &relay.Outcome{Payload: payload, Units: int64(len(results))}, nil
	}
}
