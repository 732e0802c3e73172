package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/movies-catalog/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		report := stats.Compute(catalog.Movies, catalog.Actors, catalog.Genres)

		out := cmd.OutOrStdout()
		if v.GetBool("json") {
			return printJSON(out, report)
		}
		printReport(out, report)
		return nil
	},
}

func printReport(out io.Writer, r stats.Report) {
	fmt.Fprintf(out, "movies %d\n", r.TotalMovies)
	fmt.Fprintf(out, "actors %d\n", r.TotalActors)
	fmt.Fprintf(out, "genres %d\n", r.TotalGenres)
	fmt.Fprintf(out, "oscars %d\n", r.TotalOscars)

	printCounts(out, "oscars by type", r.OscarsByType, stats.AwardLabel)
	printCounts(out, "oscars by genre", r.OscarsByGenre, nil)
	printCounts(out, "movies by decade", r.MoviesByDecade, nil)
	printCounts(out, "movies by genre", r.MoviesByGenre, nil)

	printGaps(out, "actors without details", r.ActorsWithoutDetails)
	printGaps(out, "movies without details", r.MoviesWithoutDetails)
	printGaps(out, "genres without details", r.GenresWithoutDetails)
}

func printCounts(out io.Writer, title string, counts stats.Counts, label func(string) string) {
	fmt.Fprintf(out, "\n%s\n", title)
	for _, c := range counts {
		key := c.Key
		if label != nil {
			key = label(key)
		}
		fmt.Fprintf(out, "  %-28s %d\n", key, c.Count)
	}
}

func printGaps(out io.Writer, title string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(out, "\n%s: none\n", title)
		return
	}
	fmt.Fprintf(out, "\n%s: %s\n", title, strings.Join(names, ", "))
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
