package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/task-category-api/internal/config"
)

var flags struct {
	addr     string
	dbDriver string
	dsn      string
}

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Task and category HTTP API",
	Long: `Serves the task and category API. Running without a subcommand is the
same as "server serve".`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	rootCmd.PersistentFlags().StringVar(&flags.dbDriver, "db-driver", "", "sqlite, postgres or mysql (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "database connection string (overrides DB_DSN)")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// loadConfig reads the environment and applies any command-line overrides
func loadConfig() *config.Config {
	cfg := config.Load()
	if flags.addr != "" {
		cfg.ServerAddr = flags.addr
	}
	if flags.dbDriver != "" {
		cfg.DBDriver = flags.dbDriver
	}
	if flags.dsn != "" {
		cfg.DBDSN = flags.dsn
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
