package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mapquiz/internal/catalog"
)

var convertCmd = &cobra.Command{
	Use:   "convert [map.svg]",
	Short: "Extract a region catalog from an SVG map",
	Long: `Reads an SVG map and writes a JSON catalog with one {id, path} entry
per <path> element that has an id. Paths whose id starts with "outline" or
"background" are skipped. Reads stdin when no file is given or it is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open svg: %w", err)
			}
			defer f.Close()
			in = f
		}

		regions, err := catalog.ExtractSVG(in)
		if err != nil {
			return err
		}
		if len(regions) == 0 {
			return errors.New("no region paths found in svg")
		}

		var out io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" && path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := catalog.Write(out, regions); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d regions\n", len(regions))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
