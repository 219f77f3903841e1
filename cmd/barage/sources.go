package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	Long:  "Reads the config and prints a table of all configured sources.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-18s %-10s %-9s %s\n", "Name", "Source", "Status", "Timeout", "Min delay")
	fmt.Println(strings.Repeat("─", 62))

	enabled, disabled := 0, 0
	for _, sc := range cfg.Sources {
		src, err := newAdapter(sc.Name, http.DefaultClient)
		if err != nil {
			return err
		}
		status := "enabled"
		if !sc.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		fmt.Printf("%-12s %-18s %-10s %-9s %s\n",
			sc.Name, src.Name(), status, sc.Timeout, cfg.RateLimit.MinDelayFor(src.Name()))
	}

	fmt.Printf("\nTotal: %d sources (%d enabled, %d disabled)\n", len(cfg.Sources), enabled, disabled)
	return nil
}
