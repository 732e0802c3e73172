// Package mockserver serves a catalog over a json-server style REST API and
// writes every mutation back to the data file it was loaded from.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/tidwall/gjson"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/fixture"
	"github.com/Clark-Hu/movies-catalog/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Options configures a Server.
type Options struct {
	// DataPath is rewritten after each mutation. Empty disables write-back.
	DataPath string
	// LogRequests enables chi access logging.
	LogRequests bool
	Logger      log.Logger
}

// Server holds the catalog and its routes.
type Server struct {
	repo     *repository.Repository
	dataPath string
	log      *log.Helper
	router   chi.Router

	// mu serializes mutations together with the file rewrite that follows.
	mu sync.Mutex
}

// New builds a Server over repo.
func New(repo *repository.Repository, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	r := chi.NewRouter()
	if opts.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	s := &Server{
		repo:     repo,
		dataPath: opts.DataPath,
		log:      log.NewHelper(log.With(logger, "module", "mockserver")),
		router:   r,
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/db", s.handleDB)
	mountResource(s, "/movies", "Movie", s.repo.Movies)
	mountResource(s, "/actors", "Actor", s.repo.Actors)
	mountResource(s, "/genres", "Genre", s.repo.Genres)
}

func (s *Server) handleDB(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.repo.Snapshot(r.Context())
	if err != nil {
		s.log.Errorf("snapshot: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to read catalog")
		return
	}
	s.respondJSON(w, http.StatusOK, catalog)
}

// resource serves one collection.
type resource[T repository.Entity[T]] struct {
	srv    *Server
	entity string
	store  repository.Store[T]
}

func mountResource[T repository.Entity[T]](s *Server, path, entity string, st repository.Store[T]) {
	res := &resource[T]{srv: s, entity: entity, store: st}
	s.router.Route(path, func(r chi.Router) {
		r.Get("/", res.list)
		r.Post("/", res.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", res.get)
			r.Put("/", res.replace)
			r.Patch("/", res.patch)
			r.Delete("/", res.remove)
		})
	})
}

// list supports json-server style exact-match filters: every query parameter
// not starting with "_" names a field path that must equal one of its values.
func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := res.store.List(r.Context())
	if err != nil {
		res.srv.fail(w, "list "+res.entity, err)
		return
	}

	query := r.URL.Query()
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if matchQuery(it, query) {
			filtered = append(filtered, it)
		}
	}
	res.srv.respondJSON(w, http.StatusOK, filtered)
}

func (res *resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := res.id(w, r)
	if !ok {
		return
	}
	item, err := res.store.Get(r.Context(), id)
	if err != nil {
		res.srv.fail(w, res.entity, err)
		return
	}
	res.srv.respondJSON(w, http.StatusOK, item)
}

// create always assigns max(id)+1, ignoring any id in the body.
func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var body T
	if err := decodeBody(w, r, &body); err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	res.srv.mutate(w, r, res.entity, http.StatusCreated, func(ctx context.Context) (any, error) {
		created, err := res.store.Create(ctx, body.WithID(0))
		if err != nil {
			return nil, err
		}
		res.srv.log.Infof("created %s with id %d", strings.ToLower(res.entity), created.EntityID())
		return created, nil
	})
}

func (res *resource[T]) replace(w http.ResponseWriter, r *http.Request) {
	id, ok := res.id(w, r)
	if !ok {
		return
	}
	var body T
	if err := decodeBody(w, r, &body); err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	res.srv.mutate(w, r, res.entity, http.StatusOK, func(ctx context.Context) (any, error) {
		return res.store.Update(ctx, body.WithID(id))
	})
}

func (res *resource[T]) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := res.id(w, r)
	if !ok {
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	res.srv.mutate(w, r, res.entity, http.StatusOK, func(ctx context.Context) (any, error) {
		return repository.Patch(ctx, res.store, id, payload)
	})
}

func (res *resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := res.id(w, r)
	if !ok {
		return
	}
	res.srv.mutate(w, r, res.entity, http.StatusOK, func(ctx context.Context) (any, error) {
		if err := res.store.Delete(ctx, id); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	})
}

// id parses the {id} path parameter; an unparsable id cannot exist.
func (res *resource[T]) id(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		res.srv.respondError(w, http.StatusNotFound, res.entity+" not found")
		return 0, false
	}
	return id, true
}

// mutate runs op and, on success, rewrites the data file before responding.
// A failed write rolls the collections back to their state before op.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, entity string, status int, op func(context.Context) (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var before domain.Catalog
	if s.dataPath != "" {
		snap, err := s.repo.Snapshot(r.Context())
		if err != nil {
			s.log.Errorf("snapshot before %s write: %v", entity, err)
			s.respondError(w, http.StatusInternalServerError, "Failed to save data")
			return
		}
		before = snap
	}

	result, err := op(r.Context())
	if err != nil {
		s.fail(w, entity, err)
		return
	}
	if err := s.persist(r.Context()); err != nil {
		s.log.Errorf("write back %s: %v", s.dataPath, err)
		if rerr := s.repo.Restore(before); rerr != nil {
			s.log.Errorf("roll back %s write: %v", entity, rerr)
		}
		s.respondError(w, http.StatusInternalServerError, "Failed to save data")
		return
	}
	s.respondJSON(w, status, result)
}

func (s *Server) persist(ctx context.Context) error {
	if s.dataPath == "" {
		return nil
	}
	catalog, err := s.repo.Snapshot(ctx)
	if err != nil {
		return err
	}
	return fixture.Save(s.dataPath, catalog)
}

func (s *Server) fail(w http.ResponseWriter, entity string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, repository.ErrConflict):
		s.respondError(w, http.StatusConflict, entity+" already exists")
	case errors.Is(err, repository.ErrInvalidPatch):
		s.respondError(w, http.StatusBadRequest, "Invalid patch")
	default:
		s.log.Errorf("%s: %v", entity, err)
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func matchQuery(item any, query map[string][]string) bool {
	if len(query) == 0 {
		return true
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return false
	}
	for key, values := range query {
		if strings.HasPrefix(key, "_") {
			continue
		}
		field := gjson.GetBytes(doc, key)
		if !field.Exists() {
			return false
		}
		matched := false
		for _, v := range values {
			if field.String() == v {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warnf("failed to encode response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
