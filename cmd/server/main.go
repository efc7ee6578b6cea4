package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/todo-tracker/todo-api/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "todo-api",
	Short: "Project and task tracker API",
	Long: `A multi-user project and task tracker.

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "Path to a YAML config file (environment variables take precedence)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(superuserCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
