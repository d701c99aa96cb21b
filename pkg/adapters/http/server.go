package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	// DefaultSessionCookie names the cookie carrying the session identifier.
	DefaultSessionCookie = "formwork_session"

	// SessionHeader lets API clients pass the session identifier explicitly.
	SessionHeader = "X-Session-Id"

	langCookie = "formwork_lang"

	// maxPayloadBytes bounds page submissions.
	maxPayloadBytes = 5 << 20
)

// Publisher makes a definition the live version of a form.
type Publisher func(ctx context.Context, formID string, def domain.FormDefinition) error

// Server serves the pages of the forms registered in an engine.
type Server struct {
	Engine  ports.FormEngine
	Streams *StreamManager

	publish    Publisher
	metrics    http.Handler
	logger     *slog.Logger
	cookieName string
}

// Option configures the Server.
type Option func(*Server)

// WithPreview enables POST /publish, which hands definitions to publish.
func WithPreview(publish Publisher) Option {
	return func(s *Server) {
		s.publish = publish
	}
}

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStreams serves GET /events from sm.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessionCookie changes the name of the session cookie.
func WithSessionCookie(name string) Option {
	return func(s *Server) {
		s.cookieName = name
	}
}

// NewHandler creates the HTTP handler for engine.
//
// Routes:
//
//	GET  /{id}          redirect to the start page
//	GET  /{id}/{path}   page view model (or the summary rows on the default next path)
//	POST /{id}/{path}   submit a page
//	POST /publish       replace a form definition (preview mode only)
func NewHandler(engine ports.FormEngine, opts ...Option) http.Handler {
	s := &Server{
		Engine:     engine,
		logger:     logging.NewNop(),
		cookieName: DefaultSessionCookie,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.publish != nil {
		r.Post("/publish", s.Publish)
	}

	r.Get("/{id}", s.StartForm)
	r.Get("/{id}/*", s.GetPage)
	r.Post("/{id}/*", s.SubmitPage)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Formwork API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if spec, err := Spec(); err == nil && spec.Info != nil {
		apiVersion = spec.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"app":         "formwork-http",
		"version":     strings.TrimSpace(formwork.Version),
		"api_version": apiVersion,
		"forms":       s.Engine.Forms(),
	})
}

// StartForm handles the GET /{id} request.
func (s *Server) StartForm(w http.ResponseWriter, r *http.Request) {
	s.redirectToStart(w, r, chi.URLParam(r, "id"))
}

func (s *Server) redirectToStart(w http.ResponseWriter, r *http.Request, formID string) {
	start, err := s.Engine.StartPath(formID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, start, http.StatusFound)
}

// GetPage handles the GET /{id}/{path} request.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")
	path := strings.Trim(chi.URLParam(r, "*"), "/")
	if path == "" {
		s.redirectToStart(w, r, formID)
		return
	}

	sessionID := s.session(w, r)
	lang := s.language(w, r)

	vm, err := s.Engine.RenderPage(r.Context(), formID, path, sessionID, lang)
	if errors.Is(err, domain.ErrPageNotFound) && "/"+path == s.defaultNextPath(formID) {
		s.getSummary(w, r, formID, sessionID, lang)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// modelSource is implemented by engines that expose the built form models.
type modelSource interface {
	Model(formID string) (*model.Model, error)
}

// defaultNextPath is where pages without edges of formID lead, which is also
// where the summary is served.
func (s *Server) defaultNextPath(formID string) string {
	if ms, ok := s.Engine.(modelSource); ok {
		if m, err := ms.Model(formID); err == nil {
			return m.DefaultNextPath()
		}
	}
	return domain.DefaultNextPath
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request, formID, sessionID, lang string) {
	rows, err := s.Engine.Summary(r.Context(), formID, sessionID, lang)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []model.SummaryRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// SubmitPage handles the POST /{id}/{path} request.
func (s *Server) SubmitPage(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "id")
	path := strings.Trim(chi.URLParam(r, "*"), "/")

	payload, err := readPayload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		s.logger.Warn("SubmitPage: invalid request body", "form_id", formID, "page", path, "err", err)
		return
	}

	sessionID := s.session(w, r)
	res, err := s.Engine.SubmitPage(r.Context(), formID, path, sessionID, payload, r.URL.Query().Get("returnUrl"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if res.View != nil {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	w.Header().Set("Location", res.Redirect)
	writeJSON(w, http.StatusSeeOther, res)
}

type publishRequest struct {
	ID            string          `json:"id"`
	Configuration json.RawMessage `json:"configuration"`
}

// Publish handles the POST /publish request.
func (s *Server) Publish(w http.ResponseWriter, r *http.Request) {
	var body publishRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("Publish: invalid request body", "err", err)
		return
	}
	if body.ID == "" || len(body.Configuration) == 0 {
		writeError(w, http.StatusBadRequest, "id and configuration are required")
		return
	}

	var def domain.FormDefinition
	if err := json.Unmarshal(body.Configuration, &def); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid configuration: %v", err))
		return
	}
	if err := s.publish(r.Context(), body.ID, def); err != nil {
		if model.IsDefinitionError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps engine errors to responses: unknown forms and pages are 404,
// anything else is a server error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrFormNotFound), errors.Is(err, domain.ErrPageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// session returns the session of the request, starting one when the client
// has none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
	return id
}

// language picks the ?lang query, remembered in a cookie, then the cookie,
// then Accept-Language.
func (s *Server) language(w http.ResponseWriter, r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/"})
		return lang
	}
	if c, err := r.Cookie(langCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get("Accept-Language")
}

// readPayload accepts JSON objects and url-encoded or multipart forms. Only
// the first value of a repeated form key is kept.
func readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		payload := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxPayloadBytes); err != nil {
			return nil, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}

	payload := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
