package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/akowalsk/distill"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ShutdownTimeout is the time to wait for in-flight requests on Close.
const ShutdownTimeout = 5 * time.Second

// Search pagination bounds, enforced at the API edge.
const (
	DefaultSearchPages = 3
	MaxSearchPages     = 10
)

// MaxBatchURLs caps the number of URLs accepted by a batch scrape.
const MaxBatchURLs = 20

// Server is the HTTP API for the scraping service.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *mux.Router
	logger *slog.Logger

	// Addr is the bind address for the server, e.g. ":5000".
	Addr string

	Pages    distill.PageService
	Searcher distill.Searcher
	Browser  distill.Browser
}

// NewServer creates a new Server with routes registered.
func NewServer(logger *slog.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}
	s.server = &http.Server{}

	s.router.Use(s.requestLogger)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/scrape", s.handleScrape).Methods(http.MethodGet)
	s.router.HandleFunc("/batch", s.handleBatch).Methods(http.MethodPost)
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/restart", s.handleRestart).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.server.Handler = s.router
	return s
}

// Open begins listening on Addr. It returns immediately; requests are
// served on a background goroutine until Close is called.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server", "err", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL the server is listening on.
// Only valid after Open.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// searchRequest is the POST body for /search.
type searchRequest struct {
	Query    string `json:"query"`
	MaxPages int    `json:"max_pages"`
}

// searchResponse is the JSON response for /search.
type searchResponse struct {
	Query        string                 `json:"query"`
	PagesScraped int                    `json:"pages_scraped"`
	TotalResults int                    `json:"total_results"`
	Results      []distill.SearchResult `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query string
	var maxPages int

	switch r.Method {
	case http.MethodPost:
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Error(w, r, distill.Errorf(distill.EINVALID, "invalid JSON body"))
			return
		}
		query = req.Query
		maxPages = req.MaxPages
	default:
		query = r.URL.Query().Get("query")
		maxPages = intParam(r, "max_pages")
	}

	if query == "" {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "query parameter required"))
		return
	}
	if maxPages < 1 {
		maxPages = DefaultSearchPages
	} else if maxPages > MaxSearchPages {
		maxPages = MaxSearchPages
	}

	results, err := s.Searcher.Search(r.Context(), query, maxPages)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	pagesScraped := 0
	for _, res := range results {
		if res.Page > pagesScraped {
			pagesScraped = res.Page
		}
	}

	s.respondJSON(w, http.StatusOK, searchResponse{
		Query:        query,
		PagesScraped: pagesScraped,
		TotalResults: len(results),
		Results:      results,
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if err := validateURL(rawURL); err != nil {
		s.Error(w, r, err)
		return
	}

	mode := distill.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = distill.ModeRaw
	}
	if !mode.Valid() {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "unknown scrape mode %q", mode))
		return
	}

	opts := distill.ScrapeOptions{NoCache: r.URL.Query().Get("nocache") != ""}

	page, err := s.Pages.Scrape(r.Context(), rawURL, mode, opts)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	contentType := "text/html; charset=utf-8"
	if mode == distill.ModeMarkdown {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Hash", page.ContentHash)
	if page.FromCache {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write([]byte(page.Content))
}

// batchRequest is the POST body for /batch.
type batchRequest struct {
	URLs    []string     `json:"urls"`
	Mode    distill.Mode `json:"mode"`
	NoCache bool         `json:"nocache"`
}

// batchItem is the per-URL entry in a /batch response.
type batchItem struct {
	URL         string `json:"url"`
	Content     string `json:"content,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	FromCache   bool   `json:"from_cache,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "invalid JSON body"))
		return
	}
	if len(req.URLs) == 0 {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "urls required"))
		return
	}
	if len(req.URLs) > MaxBatchURLs {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "at most %d urls per batch", MaxBatchURLs))
		return
	}
	if req.Mode == "" {
		req.Mode = distill.ModeRaw
	}
	if !req.Mode.Valid() {
		s.Error(w, r, distill.Errorf(distill.EINVALID, "unknown scrape mode %q", req.Mode))
		return
	}

	items, err := s.Pages.ScrapeAll(r.Context(), req.URLs, req.Mode, distill.ScrapeOptions{NoCache: req.NoCache}, nil)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	out := make([]batchItem, 0, len(items))
	for _, item := range items {
		entry := batchItem{URL: item.URL}
		if item.Err != nil {
			entry.Error = distill.ErrorMessage(item.Err)
		} else {
			entry.Content = item.Page.Content
			entry.ContentHash = item.Page.ContentHash
			entry.FromCache = item.Page.FromCache
		}
		out = append(out, entry)
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"total": len(out),
		"items": out,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.Browser.Healthy() {
		s.respondJSON(w, http.StatusOK, map[string]any{
			"status":         "healthy",
			"browser_active": true,
		})
		return
	}

	s.logger.Warn("browser unhealthy, attempting restart")
	if err := s.Browser.Restart(); err != nil {
		s.respondJSON(w, http.StatusInternalServerError, map[string]any{
			"status":         "error",
			"browser_active": false,
			"error":          distill.ErrorMessage(err),
		})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":         "restarted",
		"browser_active": true,
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.Browser.Restart(); err != nil {
		s.Error(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"message": "browser restarted successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"name":        "distill",
		"description": "Web scraping service with DOM simplification",
		"endpoints": map[string]string{
			"GET|POST /search": "search DuckDuckGo (query, max_pages)",
			"GET /scrape":      "scrape and simplify a URL (url, mode=raw|markdown|article, nocache)",
			"POST /batch":      "scrape multiple URLs (urls, mode, nocache)",
			"GET /status":      "browser health, restarts if unhealthy",
			"POST /restart":    "restart the browser",
			"GET /health":      "liveness check",
		},
	})
}

// Error writes an error response with a status derived from the error
// code. Internal errors are logged and their details hidden from the
// client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := distill.ErrorCode(err)
	status := errorStatusCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	s.respondJSON(w, status, map[string]string{"error": distill.ErrorMessage(err)})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case distill.EINVALID:
		return http.StatusBadRequest
	case distill.ENOTFOUND:
		return http.StatusNotFound
	case distill.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger assigns every request an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(begin),
		)
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// validateURL checks that raw is an absolute http(s) URL.
func validateURL(raw string) error {
	if raw == "" {
		return distill.Errorf(distill.EINVALID, "url parameter required")
	}
	u, err := neturl.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return distill.Errorf(distill.EINVALID, "invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return distill.Errorf(distill.EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	return nil
}

// intParam reads an integer query parameter, returning 0 when absent or
// malformed.
func intParam(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
