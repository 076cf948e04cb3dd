package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/pkg/config"
	"github.com/hearsay-ai/hearsay/pkg/logging"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "hearsay",
		Short:   "Hearsay — paced, budgeted, cached external-call core for social research",
		Version: version,
	}

	root.AddCommand(
		newVerifyCmd(),
		newScoreCmd(),
		newBudgetCmd(),
		newCacheCmd(),
		newCallsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the YAML config at path, or the built-in defaults when
// path is empty, and applies the logging settings.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
