package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// resourceKind describes one CRUD collection.
type resourceKind[T any] struct {
	name     string
	validate func(T) error
}

type resource[T repository.Entity[T]] struct {
	srv   *Server
	path  string
	kind  resourceKind[T]
	store repository.Store[T]
}

// mountResource registers list/get/create/replace/patch/delete under path.
// extra adds sub-routes below /{id}.
func mountResource[T repository.Entity[T]](s *Server, path string, kind resourceKind[T], st repository.Store[T], extra func(chi.Router)) {
	res := &resource[T]{srv: s, path: path, kind: kind, store: st}
	s.router.Route(path, func(r chi.Router) {
		r.Get("/", res.handleList)
		r.Post("/", res.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", res.handleGet)
			r.Put("/", res.handleReplace)
			r.Patch("/", res.handlePatch)
			r.Delete("/", res.handleDelete)
			if extra != nil {
				extra(r)
			}
		})
	})
}

func (res *resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.store.List(r.Context())
	if err != nil {
		res.srv.respondStoreError(w, "list "+res.kind.name+"s", err)
		return
	}
	res.srv.respondJSON(w, http.StatusOK, listResponse[T]{Items: items, Count: len(items)})
}

func (res *resource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	item, err := res.store.Get(r.Context(), id)
	if err != nil {
		res.srv.respondStoreError(w, "get "+res.kind.name, err)
		return
	}
	res.srv.respondJSON(w, http.StatusOK, item)
}

func (res *resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body T
	if err := decodeJSONBody(w, r, &body); err != nil {
		res.srv.respondDecodeError(w, err)
		return
	}
	if err := res.kind.validate(body); err != nil {
		res.srv.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	created, err := res.store.Create(r.Context(), body)
	if err != nil {
		res.srv.respondStoreError(w, "create "+res.kind.name, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("%s/%d", res.path, created.EntityID()))
	res.srv.respondJSON(w, http.StatusCreated, created)
}

func (res *resource[T]) handleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var body T
	if err := decodeJSONBody(w, r, &body); err != nil {
		res.srv.respondDecodeError(w, err)
		return
	}
	body = body.WithID(id)
	if err := res.kind.validate(body); err != nil {
		res.srv.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, err := res.store.Update(r.Context(), body)
	if err != nil {
		res.srv.respondStoreError(w, "update "+res.kind.name, err)
		return
	}
	res.srv.respondJSON(w, http.StatusOK, updated)
}

func (res *resource[T]) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to read request body")
		return
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		res.srv.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
		return
	}

	current, err := res.store.Get(r.Context(), id)
	if err != nil {
		res.srv.respondStoreError(w, "patch "+res.kind.name, err)
		return
	}
	next, err := repository.Merge(current, payload)
	if err != nil {
		res.srv.respondStoreError(w, "patch "+res.kind.name, err)
		return
	}
	if err := res.kind.validate(next); err != nil {
		res.srv.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	patched, err := res.store.Update(r.Context(), next)
	if err != nil {
		res.srv.respondStoreError(w, "patch "+res.kind.name, err)
		return
	}
	res.srv.respondJSON(w, http.StatusOK, patched)
}

func (res *resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		res.srv.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := res.store.Delete(r.Context(), id); err != nil {
		res.srv.respondStoreError(w, "delete "+res.kind.name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateMovie(m domain.Movie) error {
	switch {
	case strings.TrimSpace(m.Title) == "":
		return errors.New("title is required")
	case m.Rating < 0 || m.Rating > 10:
		return errors.New("rating must be between 0 and 10")
	}
	for _, c := range m.Cast {
		if c.Actor == "" || c.Character == "" {
			return errors.New("cast entries need an actor and a character")
		}
	}
	return nil
}

func validateActor(a domain.Actor) error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateGenre(g domain.Genre) error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func parseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id parameter")
	}
	return id, nil
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.log.Warnf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondStoreError maps gateway errors onto the error envelope. op names the
// failed operation in the log line.
func (s *Server) respondStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, repository.ErrConflict):
		s.respondError(w, http.StatusConflict, "CONFLICT", "Resource already exists")
	case errors.Is(err, repository.ErrInvalidPatch):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Patch does not produce a valid resource")
	default:
		s.log.Errorf("%s error: %v", op, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+op)
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}
