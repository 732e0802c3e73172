package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/Clark-Hu/movies-catalog/internal/fixture"
	"github.com/Clark-Hu/movies-catalog/internal/mockserver"
	"github.com/Clark-Hu/movies-catalog/internal/repository"
)

func main() {
	var (
		port        = flag.String("port", "3000", "port to listen on")
		data        = flag.String("data", "db/movie-data.json", "path to the catalog data file")
		logRequests = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	logger := log.With(log.NewStdLogger(os.Stdout), "ts", log.DefaultTimestamp, "service", "catalog-mock")
	helper := log.NewHelper(logger)

	catalog, err := fixture.Load(*data)
	if err != nil {
		helper.Fatalf("load mock data: %v", err)
	}

	srv := mockserver.New(repository.NewMemory(catalog), mockserver.Options{
		DataPath:    *data,
		LogRequests: *logRequests,
		Logger:      logger,
	})

	addr := ":" + *port
	helper.Infof("mock catalog listening on %s (%d movies, %d genres, %d actors)",
		addr, len(catalog.Movies), len(catalog.Genres), len(catalog.Actors))

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		helper.Fatalf("server error: %v", err)
	}
}
