package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FormsURI is the resource listing the published forms.
const FormsURI = "formwork://forms"

// FormInfo describes one published form.
type FormInfo struct {
	ID        string `json:"id" jsonschema_description:"Form identifier"`
	StartPath string `json:"start_path" jsonschema_description:"Path of the first page"`
}

// FormsResponse lists the published forms.
type FormsResponse struct {
	Forms []FormInfo `json:"forms"`
}

// PageResponse is a rendered page of a session.
type PageResponse struct {
	FormID    string          `json:"form_id"`
	SessionID string          `json:"session_id" jsonschema_description:"Pass it back to continue the same session"`
	View      model.ViewModel `json:"view" jsonschema_description:"The page with its fields and current answers"`
}

// SubmitResponse is the outcome of submitting a page.
type SubmitResponse struct {
	FormID    string `json:"form_id"`
	SessionID string `json:"session_id"`
	Accepted  bool   `json:"accepted" jsonschema_description:"False when the page has errors to fix"`
	ports.SubmitResult
}

// SummaryResponse lists the answers of a session.
type SummaryResponse struct {
	FormID    string             `json:"form_id"`
	SessionID string             `json:"session_id"`
	Rows      []model.SummaryRow `json:"rows"`
}

// Server exposes a form engine as an MCP server, letting an agent fill forms
// page by page.
type Server struct {
	engine    ports.FormEngine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.FormEngine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("formwork-mcp", strings.TrimSpace(formwork.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List the published forms and where each one starts."),
		mcp.WithOutputSchema[FormsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListForms))

	s.mcpServer.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Render a page of a form with the answers stored in the session. Omit path to get the start page; omit session_id to start a new session."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form identifier")),
		mcp.WithString("path", mcp.Description("Page path, e.g. /applicant")),
		mcp.WithString("session_id", mcp.Description("Session identifier returned by an earlier call")),
		mcp.WithString("lang", mcp.Description("Language code, e.g. en or cy")),
		mcp.WithOutputSchema[PageResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetPage))

	s.mcpServer.AddTool(mcp.NewTool("submit_page",
		mcp.WithDescription("Submit the answers of one page. Field errors come back with the page; otherwise next names the page to get."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form identifier")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("payload", mcp.Required(), mcp.Description("JSON object of field names to values; date parts use name__day, name__month, name__year")),
		mcp.WithOutputSchema[SubmitResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmitPage))

	s.mcpServer.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("List the answers given so far along the path through the form."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form identifier")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("lang", mcp.Description("Language code")),
		mcp.WithOutputSchema[SummaryResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSummary))
}

func (s *Server) forms() []FormInfo {
	ids := s.engine.Forms()
	forms := make([]FormInfo, 0, len(ids))
	for _, id := range ids {
		start, err := s.engine.StartPath(id)
		if err != nil {
			continue
		}
		forms = append(forms, FormInfo{ID: id, StartPath: pagePath(id, start)})
	}
	return forms
}

// pagePath strips the "/{formID}" prefix of a start redirect.
func pagePath(formID, start string) string {
	return strings.TrimPrefix(start, "/"+formID)
}

func (s *Server) handleListForms(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FormsResponse, error) {
	return FormsResponse{Forms: s.forms()}, nil
}

func (s *Server) handleGetPage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PageResponse, error) {
	formID, _ := args["form_id"].(string)
	path, _ := args["path"].(string)
	sessionID, _ := args["session_id"].(string)
	lang, _ := args["lang"].(string)

	if path == "" {
		start, err := s.engine.StartPath(formID)
		if err != nil {
			return PageResponse{}, err
		}
		path = pagePath(formID, start)
		if strings.Contains(path, "://") {
			return PageResponse{}, fmt.Errorf("form %q starts outside the engine at %s", formID, path)
		}
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	vm, err := s.engine.RenderPage(ctx, formID, path, sessionID, lang)
	if err != nil {
		return PageResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return PageResponse{FormID: formID, SessionID: sessionID, View: vm}, nil
}

func (s *Server) handleSubmitPage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SubmitResponse, error) {
	formID, _ := args["form_id"].(string)
	path, _ := args["path"].(string)
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return SubmitResponse{}, errors.New("session_id is required")
	}

	payload, err := decodePayload(args["payload"])
	if err != nil {
		s.logger.Warn("MCP submit_page: payload rejected", "form_id", formID, "err", err)
		return SubmitResponse{}, err
	}

	res, err := s.engine.SubmitPage(ctx, formID, path, sessionID, payload, "")
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	return SubmitResponse{
		FormID:       formID,
		SessionID:    sessionID,
		Accepted:     res.View == nil,
		SubmitResult: res,
	}, nil
}

// decodePayload accepts a JSON object either encoded as a string or passed
// as an object.
func decodePayload(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		payload := map[string]any{}
		if strings.TrimSpace(v) == "" {
			return payload, nil
		}
		if err := json.Unmarshal([]byte(v), &payload); err != nil {
			return nil, fmt.Errorf("payload must be a JSON object: %w", err)
		}
		return payload, nil
	}
	return nil, fmt.Errorf("payload must be a JSON object, got %T", raw)
}

func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SummaryResponse, error) {
	formID, _ := args["form_id"].(string)
	sessionID, _ := args["session_id"].(string)
	lang, _ := args["lang"].(string)

	rows, err := s.engine.Summary(ctx, formID, sessionID, lang)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("summary failed: %w", err)
	}
	if rows == nil {
		rows = []model.SummaryRow{}
	}
	return SummaryResponse{FormID: formID, SessionID: sessionID, Rows: rows}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FormsURI, "Published forms",
		mcp.WithMIMEType("application/json"),
	), s.readForms)
}

func (s *Server) readForms(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(FormsResponse{Forms: s.forms()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode forms: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
