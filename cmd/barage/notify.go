package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rexlunae/employment-barage/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Sends a sample job through the configured notifier.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	n := setupNotifier(cfg, logger)
	if err := notifier.SendTestMessage(n); err != nil {
		return fmt.Errorf("test notification failed: %w", err)
	}
	logger.Info("test notification sent successfully")
	return nil
}
