package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/movies-catalog/internal/fixture"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the shape of a catalog data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := v.GetString("data")
		if path == "" {
			return fmt.Errorf("check needs --data")
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		report, err := fixture.Check(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		out := cmd.OutOrStdout()
		if v.GetBool("json") {
			if err := printJSON(out, report); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "%s: %d movies, %d genres, %d actors\n", path, report.Movies, report.Genres, report.Actors)
			for _, res := range report.Results {
				mark := "ok  "
				if !res.OK {
					mark = "FAIL"
				}
				fmt.Fprintf(out, "%s [%s] %s\n", mark, res.Section, res.Message)
			}
		}

		if failed := report.Failed(); len(failed) > 0 {
			return fmt.Errorf("%d of %d checks failed", len(failed), len(report.Results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
