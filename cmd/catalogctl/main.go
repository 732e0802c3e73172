package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/fixture"
	"github.com/Clark-Hu/movies-catalog/internal/upstream"
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Inspect a movies catalog",
	Long:          `catalogctl validates catalog data files and prints derived views of a catalog read from a file or a running backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return v.BindPFlags(cmd.Flags())
	},
}

// v resolves every option from flags first, then CATALOG_* environment variables.
var v = viper.New()

func init() {
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("data", "", "catalog data file")
	rootCmd.PersistentFlags().String("url", "", "catalog backend base URL (mock server or compatible)")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Second, "backend request timeout")
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level for diagnostics on stderr")
}

func newLogger() log.Logger {
	return log.With(
		log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(log.ParseLevel(v.GetString("log-level")))),
		"service", "catalogctl",
	)
}

// loadCatalog reads the catalog from --data or, failing that, from --url.
func loadCatalog(ctx context.Context) (domain.Catalog, error) {
	data, url := v.GetString("data"), v.GetString("url")
	switch {
	case data != "" && url != "":
		return domain.Catalog{}, fmt.Errorf("--data and --url are mutually exclusive")
	case data != "":
		return fixture.Load(data)
	case url != "":
		client, err := upstream.NewClient(url, v.GetDuration("timeout"), newLogger())
		if err != nil {
			return domain.Catalog{}, err
		}
		return client.Catalog(ctx)
	default:
		return domain.Catalog{}, fmt.Errorf("one of --data or --url is required")
	}
}

func printJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
