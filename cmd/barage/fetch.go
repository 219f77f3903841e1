package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rexlunae/employment-barage/internal/store"
)

var fetchFlags struct {
	keywords string
	location string
	limit    int
	save     bool
	asJSON   bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch jobs from every enabled source once",
	Long:  "Runs one aggregation over all enabled sources and prints the merged list. Unset flags fall back to the search section of the config.",
	RunE:  runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringVarP(&fetchFlags.keywords, "keywords", "k", "", "keywords to match in title, description, company or requirements")
	f.StringVarP(&fetchFlags.location, "location", "l", "", "location to match (\"remote\" matches any remote job)")
	f.IntVarP(&fetchFlags.limit, "limit", "n", 0, "maximum jobs per source")
	f.BoolVar(&fetchFlags.save, "save", false, "upsert the fetched jobs into the database")
	f.BoolVar(&fetchFlags.asJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	q := defaultQuery(cfg)
	if cmd.Flags().Changed("keywords") {
		q.Keywords = fetchFlags.keywords
	}
	if cmd.Flags().Changed("location") {
		q.Location = fetchFlags.location
	}
	if cmd.Flags().Changed("limit") {
		q.Limit = fetchFlags.limit
	}

	agg, err := buildAggregator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := agg.Run(ctx, q)
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "warning: %s failed: %v\n", f.Source, f.Err)
	}

	if fetchFlags.save {
		sqlStore, err := store.NewSQLiteStore(cfg.Database)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer sqlStore.Close()

		created, updated := 0, 0
		for _, job := range res.Jobs {
			_, isNew, err := sqlStore.UpsertBySourceURL(ctx, job)
			if err != nil {
				return fmt.Errorf("save %s: %w", job.SourceURL, err)
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}
		logger.Info("saved jobs", "created", created, "updated", updated, "database", cfg.Database)
	}

	return writeJobs(os.Stdout, res.Jobs, fetchFlags.asJSON, colorEnabled(os.Stdout))
}
