package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mapquiz/internal/app"
	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/logging"
	"github.com/abhisek/mapquiz/internal/screens/quiz"
)

// runApp opens the store, builds dependencies, and launches the TUI. The
// terminal belongs to the UI, so logs go to a file.
func runApp(cmd *cobra.Command, play bool) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = logging.DefaultFile(cfg.DBPath)
	}
	log, logFile, err := logging.OpenFile(logPath, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	name := catalog.Name(cfg.Catalog)
	b, err := openBackend(cfg, name, log)
	if err != nil {
		return err
	}
	defer b.Close()

	highScore, err := b.scores.HighScore(ctx)
	if err != nil {
		log.Warn("read high score", "error", err)
	}

	source, shuffle := cfg.Catalog, cfg.Game.Shuffle
	load := func(ctx context.Context) ([]catalog.Region, error) {
		regions, err := catalog.Load(ctx, source)
		if err != nil {
			log.Error("load catalog", "source", source, "error", err)
			return nil, fmt.Errorf("load catalog %s: %w", source, err)
		}
		if shuffle {
			catalog.Shuffle(regions, nil)
		}
		log.Info("catalog loaded", "source", source, "regions", len(regions))
		return regions, nil
	}

	return app.Run(app.Options{
		CatalogName: name,
		Load:        load,
		Quiz: quiz.Config{
			WorkingSetSize: cfg.Game.WorkingSetSize,
			RoundDelay:     cfg.Game.RoundDelay,
			HighScore:      highScore,
			Scores:         b.scores,
			Games:          b.games,
			Logger:         log,
		},
		Scores:  b.scores,
		History: b.games,
		Logger:  log,
		Play:    play,
	})
}
