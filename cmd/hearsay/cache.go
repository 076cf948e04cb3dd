package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/pkg/cache/sqlite"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the result cache",
	}

	openStore := func() (*sqlite.Store, error) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		return sqlite.New(cfg.DBPath, cfg.Cache.TTL)
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			st, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\n", st.Entries)
			return nil
		},
	}

	var fingerprint string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if fingerprint != "" {
				if err := store.Clear(fingerprint); err != nil {
					return err
				}
				fmt.Println("Entry cleared.")
				return nil
			}
			if err := store.ClearAll(); err != nil {
				return err
			}
			fmt.Println("Cache cleared.")
			return nil
		},
	}
	clearCmd.Flags().StringVar(&fingerprint, "fingerprint", "", "clear a single entry by fingerprint")

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.ClearExpired()
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d expired entries.\n", n)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd, pruneCmd)
	return cmd
}
