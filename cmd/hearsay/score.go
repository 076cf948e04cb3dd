package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearsay-ai/hearsay/pkg/score"
)

func newScoreCmd() *cobra.Command {
	var (
		configPath string
		sections   []string
		minWords   int
		maxWords   int
	)

	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score generated content against the quality rubric",
		Long: `Score reads generated text from a file (or stdin when no file is given)
and reports a 0-100 quality score, what the text does well, which generic
phrases were flagged, and what to improve.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			var text []byte
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
			} else {
				text, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			result := score.Content(string(text), score.ContentOptions{
				Sections:      sections,
				MinWords:      minWords,
				MaxWords:      maxWords,
				PassThreshold: cfg.Scoring.ContentPassThreshold,
			})

			fmt.Printf("Score:  %d/100\n", result.Score)
			fmt.Printf("Passed: %t\n", result.Passed)
			printList("Strengths", result.Strengths)
			printList("Flagged", result.Flagged)
			printList("Improvements", result.Improvements)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringSliceVar(&sections, "sections", nil, "rubric sections the text must cover")
	cmd.Flags().IntVar(&minWords, "min-words", 0, "minimum word count (0 disables)")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "maximum word count (0 disables)")

	return cmd
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}
