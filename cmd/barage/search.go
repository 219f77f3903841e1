package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rexlunae/employment-barage/internal/model"
	"github.com/rexlunae/employment-barage/internal/store"
)

var searchFlags struct {
	keywords  string
	location  string
	minSalary int
	sources   []string
	remote    bool
	limit     int
	offset    int
	asJSON    bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search jobs saved in the database",
	Long:  "Queries jobs stored by fetch --save, watch or serve, newest first.",
	RunE:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchFlags.keywords, "keywords", "k", "", "match title, description or company")
	f.StringVarP(&searchFlags.location, "location", "l", "", "match location")
	f.IntVar(&searchFlags.minSalary, "min-salary", 0, "minimum salary (lower bound of the range)")
	f.StringSliceVar(&searchFlags.sources, "source", nil, "restrict to sources, e.g. Remotive,HNWhoIsHiring,Arbeitnow")
	f.BoolVar(&searchFlags.remote, "remote", false, "remote jobs only")
	f.IntVarP(&searchFlags.limit, "limit", "n", 20, "maximum results")
	f.IntVar(&searchFlags.offset, "offset", 0, "skip the first N results")
	f.BoolVar(&searchFlags.asJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	q := model.SearchQuery{
		Keywords:   searchFlags.keywords,
		Location:   searchFlags.location,
		MinSalary:  searchFlags.minSalary,
		RemoteOnly: searchFlags.remote,
		Limit:      searchFlags.limit,
		Offset:     searchFlags.offset,
	}
	for _, s := range searchFlags.sources {
		q.Sources = append(q.Sources, model.JobSource(s))
	}

	jobs, err := sqlStore.Search(context.Background(), q)
	if err != nil {
		return err
	}
	return writeJobs(os.Stdout, jobs, searchFlags.asJSON, colorEnabled(os.Stdout))
}
