package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/logging"
	"github.com/abhisek/mapquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the high score and recent games",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		name := catalog.Name(cfg.Catalog)
		b, err := openBackend(cfg, name, logging.Discard())
		if err != nil {
			return err
		}
		defer b.Close()

		out := cmd.OutOrStdout()

		best, err := b.scores.HighScore(ctx)
		if err != nil {
			return fmt.Errorf("read high score: %w", err)
		}
		fmt.Fprintf(out, "High score:  %d\n", best)

		if b.sqlite != nil {
			st, err := b.sqlite.Games(name).Stats(ctx)
			if err != nil {
				return fmt.Errorf("game stats: %w", err)
			}
			fmt.Fprintf(out, "Games:       %d\n", st.Games)
			fmt.Fprintf(out, "Answered:    %d, %.0f%% correct\n", st.Answered, st.Accuracy()*100)
			fmt.Fprintf(out, "Mastered:    %d\n", st.Mastered)
		}

		games, err := b.games.Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		fmt.Fprintln(out)
		if len(games) == 0 {
			fmt.Fprintln(out, "No games played yet.")
			return nil
		}
		fmt.Fprintln(out, "Recent games")
		printGames(out, games)

		if b.redis != nil {
			top, err := b.redis.Top(ctx, limit)
			if err != nil {
				return fmt.Errorf("leaderboard: %w", err)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Top games")
			printGames(out, top)
		}
		return nil
	},
}

func printGames(out io.Writer, games []store.GameRecord) {
	fmt.Fprintf(out, "%-16s  %6s  %8s  %7s  %8s  %s\n",
		"Ended", "Score", "Answered", "Correct", "Mastered", "Duration")
	fmt.Fprintln(out, strings.Repeat("─", 66))
	for _, g := range games {
		fmt.Fprintf(out, "%-16s  %6d  %8d  %6.0f%%  %8d  %s\n",
			g.EndedAt.Local().Format("2006-01-02 15:04"),
			g.Score, g.Answered, g.Accuracy()*100, g.Mastered,
			g.Duration().Round(time.Second))
	}
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of games to list")
}
