package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kcitlyn/Astrarium1/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "astrarium",
	Short: "Gamified skill retention tracker",
	Long:  "Astrarium — a spaced-repetition backend where practicing real skills keeps a celestial companion alive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ASTRARIUM_DB_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(oracleCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then ASTRARIUM_DB_PATH, then the per-user default.
func resolveDBPath(cmd *cobra.Command, envPath string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	if envPath != "" {
		return envPath, nil
	}
	return store.DefaultDBPath()
}
