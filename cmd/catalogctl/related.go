package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/xref"
)

var relatedCmd = &cobra.Command{
	Use:   "related",
	Short: "Print the movies related to one movie",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := v.GetInt("id")
		if id <= 0 {
			return fmt.Errorf("related needs a positive --id")
		}
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		var target *domain.Movie
		for i := range catalog.Movies {
			if catalog.Movies[i].ID == id {
				target = &catalog.Movies[i]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("movie %d not found", id)
		}
		related := xref.RelatedTo(*target, catalog.Movies, v.GetInt("limit"))

		out := cmd.OutOrStdout()
		if v.GetBool("json") {
			return printJSON(out, related)
		}
		fmt.Fprintf(out, "%s (%d)\n", target.Title, target.Year)
		printMovies(out, "same genre", related.ByGenre)
		printMovies(out, "same director", related.ByDirector)
		printMovies(out, "shared cast", related.ByCast)
		return nil
	},
}

func printMovies(out io.Writer, title string, movies []domain.Movie) {
	fmt.Fprintf(out, "\n%s\n", title)
	if len(movies) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	for _, m := range movies {
		fmt.Fprintf(out, "  %-4d %s (%d)\n", m.ID, m.Title, m.Year)
	}
}

func init() {
	relatedCmd.Flags().Int("id", 0, "movie id")
	relatedCmd.Flags().Int("limit", 0, "maximum movies per list (0 keeps all)")
	rootCmd.AddCommand(relatedCmd)
}
