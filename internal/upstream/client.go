// Package upstream implements the repository gateway over a remote REST
// backend that speaks the catalog wire format (the mock server or any
// json-server style API).
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/Clark-Hu/movies-catalog/internal/domain"
	"github.com/Clark-Hu/movies-catalog/internal/repository"
)

// RequestIDHeader carries a per-call id so upstream logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody caps how much of an error response is read for logging.
const maxErrorBody = 4 << 10

// Client talks JSON to the remote backend.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	log     *log.Helper
}

// NewClient constructs an HTTP client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.DefaultLogger
	}
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse upstream url: %q is not absolute", baseURL)
	}
	return &Client{
		baseURL: parsed,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost:   8,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		log: log.NewHelper(log.With(logger, "module", "upstream")),
	}, nil
}

// Catalog fetches the whole catalog from GET /db.
func (c *Client) Catalog(ctx context.Context) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := c.do(ctx, http.MethodGet, "/db", nil, &catalog); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

// HealthCheck verifies the backend answers a cheap collection request.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/genres", nil, nil)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// do sends body (if any) as JSON and decodes a successful response into out
// (if non-nil). 404 maps to repository.ErrNotFound, 409 to ErrConflict.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return repository.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return repository.ErrConflict
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := errorMessage(payload)
		c.log.Warnf("upstream: unexpected status %d for %s %s (request %s): %s", resp.StatusCode, method, path, requestID, msg)
		return fmt.Errorf("upstream: %s %s returned %d: %s", method, path, resp.StatusCode, msg)
	}
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error
// body, falling back to the trimmed body text.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "no response body"
	}
	return text
}

// Resource is the Store for one collection path, e.g. "/movies".
type Resource[T repository.Entity[T]] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to c.
func NewResource[T repository.Entity[T]](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource[T]) itemPath(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}

// List fetches every entity of the collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := r.client.do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one entity by id.
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var item T
	if err := r.client.do(ctx, http.MethodGet, r.itemPath(id), nil, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Create posts the entity. The backend owns id assignment: the returned id may
// differ from entity's, and a taken id is not reported as ErrConflict.
func (r *Resource[T]) Create(ctx context.Context, entity T) (T, error) {
	var created T
	if entity.EntityID() < 0 {
		entity = entity.WithID(0)
	}
	if err := r.client.do(ctx, http.MethodPost, r.path, entity, &created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update replaces the entity with a PUT.
func (r *Resource[T]) Update(ctx context.Context, entity T) (T, error) {
	var updated T
	if err := r.client.do(ctx, http.MethodPut, r.itemPath(entity.EntityID()), entity, &updated); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Delete removes the entity.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

// NewRepository exposes the remote collections as a repository.Repository.
func NewRepository(c *Client) *repository.Repository {
	return &repository.Repository{
		Movies: NewResource[domain.Movie](c, "movies"),
		Actors: NewResource[domain.Actor](c, "actors"),
		Genres: NewResource[domain.Genre](c, "genres"),
	}
}
