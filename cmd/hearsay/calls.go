package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/pkg/audit"
	"github.com/hearsay-ai/hearsay/pkg/models"
)

func newCallsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Query the external call log",
	}

	cmd.AddCommand(
		newCallsListCmd(),
		newCallsStatsCmd(),
		newCallsCleanupCmd(),
	)
	return cmd
}

func openCallLog(configPath string) (*audit.Log, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	l, err := audit.New(cfg.DBPath, auditRetentionDays)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Close() }, nil
}

func newCallsListCmd() *cobra.Command {
	var (
		configPath  string
		class       string
		status      string
		fingerprint string
		since       string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openCallLog(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := models.CallQueryOpts{
				EndpointClass: class,
				Status:        status,
				Fingerprint:   fingerprint,
				Limit:         limit,
			}
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
				}
				opts.Since = t
			}

			records, err := l.Query(context.Background(), opts)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No calls recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tENDPOINT CLASS\tSTATUS\tUNITS\tCOST\tLATENCY\tFINGERPRINT")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t$%.4f\t%dms\t%.12s\n",
					r.CreatedAt.Format(time.RFC3339), r.EndpointClass, r.Status,
					r.Units, r.Cost, r.LatencyMs, r.Fingerprint)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&class, "class", "", "filter by endpoint class")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (success, error, rejected, cache_hit)")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "filter by request fingerprint")
	cmd.Flags().StringVar(&since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max records to return")

	return cmd
}

func newCallsStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate calls by endpoint class and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openCallLog(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := l.Stats(context.Background())
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Println("No calls recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DAY\tENDPOINT CLASS\tCALLS\tCACHE HITS\tCOST")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t$%.4f\n",
					s.Day, s.EndpointClass, s.Count, s.CacheHits, s.TotalCost)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func newCallsCleanupCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete call records older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openCallLog(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := l.Cleanup(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d call records.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}
