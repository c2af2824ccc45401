package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mapquiz/internal/config"
	"github.com/abhisek/mapquiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mapquiz",
	Short: "Name the highlighted region on a map",
	Long: `mapquiz: a terminal quiz that highlights one region of a map and asks
which of four names belongs to it. Three correct answers in a row master a
region and bring a new one into play.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides MAPQUIZ_DB env var)")
	pf.String("catalog", "", `Region catalog: JSON file, http(s) URL, "-" for stdin, or "demo" (overrides MAPQUIZ_CATALOG)`)
	pf.String("config-env", "", "Path to a .env file (default: .env when present)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings: flags over MAPQUIZ_* env over defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("config-env")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if c, _ := cmd.Flags().GetString("catalog"); c != "" {
		cfg.Catalog = c
	}
	cfg.DBPath, err = resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MAPQUIZ_DB (already in fromEnv), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, fromEnv string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if fromEnv != "" {
		return fromEnv, store.EnsureDir(fromEnv)
	}
	return store.DefaultDBPath()
}
