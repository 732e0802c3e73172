package httpserver

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/stats"
	"github.com/Clark-Hu/movies-catalog/internal/view"
	"github.com/Clark-Hu/movies-catalog/internal/xref"
)

type movieViewResponse struct {
	Items     []domain.Movie `json:"items"`
	Count     int            `json:"count"`
	Sort      view.Key       `json:"sort"`
	Direction view.Direction `json:"dir"`
}

type castEntryResponse struct {
	Actor     string        `json:"actor"`
	Character string        `json:"character"`
	Details   *domain.Actor `json:"details"`
	Missing   bool          `json:"missing"`
}

type castResponse struct {
	MovieID int                 `json:"movieId"`
	Title   string              `json:"title"`
	Cast    []castEntryResponse `json:"cast"`
}

type notableWorkResponse struct {
	Title     string        `json:"title"`
	Movie     *domain.Movie `json:"movie"`
	Matches   int           `json:"matches"`
	Ambiguous bool          `json:"ambiguous"`
	Missing   bool          `json:"missing"`
}

type filmographyResponse struct {
	Actor        domain.Actor          `json:"actor"`
	Movies       []xref.Role           `json:"movies"`
	NotableWorks []notableWorkResponse `json:"notableWorks"`
}

func (s *Server) handleMovieView(w http.ResponseWriter, r *http.Request) {
	filter, order, err := buildMovieView(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movies, err := s.repo.Movies.List(r.Context())
	if err != nil {
		s.respondStoreError(w, "list movies", err)
		return
	}

	items := view.Apply(movies, filter, order)
	s.respondJSON(w, http.StatusOK, movieViewResponse{
		Items:     items,
		Count:     len(items),
		Sort:      order.Key,
		Direction: order.Direction,
	})
}

// buildMovieView parses the list page query. An empty or unknown sort key
// orders by id.
func buildMovieView(query url.Values) (view.Filter, view.Sort, error) {
	var filter view.Filter

	filter.Title = strings.TrimSpace(query.Get("title"))
	filter.Genre = strings.TrimSpace(query.Get("genre"))
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return filter, view.Sort{}, fmt.Errorf("invalid year value")
		}
		filter.Year = &year
	}
	if val := strings.TrimSpace(query.Get("minRating")); val != "" {
		rating, err := strconv.ParseFloat(val, 64)
		if err != nil || math.IsNaN(rating) {
			return filter, view.Sort{}, fmt.Errorf("invalid minRating value")
		}
		filter.MinRating = &rating
	}

	dir, err := view.ParseDirection(query.Get("dir"))
	if err != nil {
		return filter, view.Sort{}, err
	}
	key := view.ParseKey(query.Get("sort"))
	if key == "" {
		key = view.KeyID
	}
	return filter, view.Sort{Key: key, Direction: dir}, nil
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	limit := 0
	if val := strings.TrimSpace(r.URL.Query().Get("limit")); val != "" {
		limit, err = strconv.Atoi(val)
		if err != nil || limit < 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid limit value")
			return
		}
	}

	target, err := s.repo.Movies.Get(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, "get movie", err)
		return
	}
	movies, err := s.repo.Movies.List(r.Context())
	if err != nil {
		s.respondStoreError(w, "list movies", err)
		return
	}
	s.respondJSON(w, http.StatusOK, xref.RelatedTo(target, movies, limit))
}

func (s *Server) handleCast(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movie, err := s.repo.Movies.Get(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, "get movie", err)
		return
	}
	actors, err := s.repo.Actors.List(r.Context())
	if err != nil {
		s.respondStoreError(w, "list actors", err)
		return
	}

	entries := xref.ResolveCast(movie, actors)
	resp := castResponse{MovieID: movie.ID, Title: movie.Title, Cast: make([]castEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Cast = append(resp.Cast, castEntryResponse{
			Actor:     e.Actor,
			Character: e.Character,
			Details:   e.Details,
			Missing:   e.Missing(),
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFilmography(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	actor, err := s.repo.Actors.Get(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, "get actor", err)
		return
	}
	movies, err := s.repo.Movies.List(r.Context())
	if err != nil {
		s.respondStoreError(w, "list movies", err)
		return
	}

	works := xref.NotableWorks(actor, movies)
	resp := filmographyResponse{
		Actor:        actor,
		Movies:       xref.Filmography(actor.Name, movies),
		NotableWorks: make([]notableWorkResponse, 0, len(works)),
	}
	for _, nw := range works {
		resp.NotableWorks = append(resp.NotableWorks, notableWorkResponse{
			Title:     nw.Title,
			Movie:     nw.Movie,
			Matches:   nw.Matches,
			Ambiguous: nw.Ambiguous,
			Missing:   nw.Missing(),
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.repo.Snapshot(r.Context())
	if err != nil {
		s.log.Errorf("snapshot catalog error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}
	s.respondJSON(w, http.StatusOK, stats.Compute(catalog.Movies, catalog.Actors, catalog.Genres))
}
