package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/logging"
	"github.com/abhisek/mapquiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz over HTTP and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		log := logging.New(os.Stderr, cfg.Log.Level)

		regions, err := catalog.Load(cmd.Context(), cfg.Catalog)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", cfg.Catalog, err)
		}
		log.Info("catalog loaded", "source", cfg.Catalog, "regions", len(regions))

		name := catalog.Name(cfg.Catalog)
		b, err := openBackend(cfg, name, log)
		if err != nil {
			return err
		}
		defer b.Close()
		log.Info("store opened", "backend", b.Name())

		srv, err := server.New(server.Options{
			Catalog:        name,
			Regions:        regions,
			WorkingSetSize: cfg.Game.WorkingSetSize,
			RoundDelay:     cfg.Game.RoundDelay,
			Shuffle:        cfg.Game.Shuffle,
			Scores:         b.scores,
			Games:          b.games,
			Logger:         log,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MAPQUIZ_HTTP_ADDR, default :8080)")
}
