package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/pkg/budget"
)

func newBudgetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Inspect and manage the spend ledger",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show spend against the configured ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			journal, err := budget.OpenJournal(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = journal.Close() }()

			ledger, err := budget.NewWithJournal(cfg.Budget.Ceiling, cfg.Budget.Simulate, journal)
			if err != nil {
				return err
			}

			st := ledger.Stats()
			fmt.Printf("Ceiling:   $%.2f\n", st.Ceiling)
			fmt.Printf("Spent:     $%.4f\n", st.EstimatedCost)
			fmt.Printf("Remaining: $%.4f\n", st.Remaining)
			fmt.Printf("Units:     %d\n", st.TotalUnits)
			if ledger.Simulated() {
				fmt.Println("Mode:      simulation (no real upstream calls)")
			}

			spend, err := journal.SpendByClass(context.Background())
			if err != nil {
				return err
			}
			if len(spend) == 0 {
				return nil
			}

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ENDPOINT CLASS\tCHARGES\tUNITS\tCOST")
			for _, s := range spend {
				fmt.Fprintf(w, "%s\t%d\t%d\t$%.4f\n",
					s.EndpointClass, s.ChargeCount, s.TotalUnits, s.TotalCost)
			}
			return w.Flush()
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero the spend counters and clear the charge journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			journal, err := budget.OpenJournal(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = journal.Close() }()

			ledger, err := budget.NewWithJournal(cfg.Budget.Ceiling, cfg.Budget.Simulate, journal)
			if err != nil {
				return err
			}
			if err := ledger.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("Budget reset.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(statusCmd, resetCmd)
	return cmd
}
