package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rexlunae/employment-barage/internal/aggregator"
	"github.com/rexlunae/employment-barage/internal/browse"
	"github.com/rexlunae/employment-barage/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse jobs interactively (TUI)",
	Long:  "Shows the source picker, fetches with a spinner, then opens the list/detail browser.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Log output while the TUI owns the terminal corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sources, err := buildSources(cfg, silentLogger)
	if err != nil {
		return err
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	q := defaultQuery(cfg)

	for {
		choice, err := browse.RunSourcePicker(names)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}

		selected, label := sources, "all sources"
		if choice != browse.AllSources {
			selected, label = sources[choice-1:choice], names[choice-1]
		}
		agg := aggregator.New(selected, silentLogger)

		jobs, err := browse.RunLoader(label, func(ctx context.Context) ([]model.Job, error) {
			res := agg.Run(ctx, q)
			if len(res.Jobs) == 0 && len(res.Failures) > 0 {
				return nil, res.Failures[0].Err
			}
			return res.Jobs, nil
		})
		if err != nil {
			fmt.Printf("Error fetching jobs: %v\n", err)
			continue
		}

		wantQuit, err := browse.RunBrowser(jobs)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
