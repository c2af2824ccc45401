package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mapquiz/internal/catalog"
	"github.com/abhisek/mapquiz/internal/logging"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the high score and game history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprint(cmd.OutOrStdout(), "Clear the high score and all recorded games? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		b, err := openBackend(cfg, catalog.Name(cfg.Catalog), logging.Discard())
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset %s store: %w", b.Name(), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "High score and history cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
