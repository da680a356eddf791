package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/pkg/domain"
)

// TypesURI is the resource listing every type definition.
const TypesURI = "atv://types"

// ValidateResponse aligns with the HTTP adapter and provides a unified structure across adapters.
type ValidateResponse struct {
	Valid bool `json:"valid" jsonschema_description:"Whether the value was accepted"`
	Value any  `json:"value,omitempty" jsonschema_description:"The resolved value, when valid"`
	Error any  `json:"error,omitempty" jsonschema_description:"The aggregated validation failures, when invalid"`
}

// Validator defines what the MCP server needs from atv.
type Validator interface {
	Validate(ctx context.Context, value any, typeName string) (any, error)
	TypeMap() domain.TypeMap
}

// Server wraps a Validator and exposes it as an MCP Server.
type Server struct {
	validator Validator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(v Validator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		validator: v,
		logger:    logger,
		mcpServer: server.NewMCPServer("atv-mcp", strings.TrimSpace(atv.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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
	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Validate a JSON value against a declared type. Every failing validator is reported."),
		mcp.WithString("type_name", mcp.Required(), mcp.Description("Name of the type to validate against")),
		mcp.WithString("value", mcp.Required(), mcp.Description("The value, encoded as JSON")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_types
	s.mcpServer.AddTool(mcp.NewTool("list_types",
		mcp.WithDescription("List the names of the declared types."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.validator.TypeMap().Names())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_type
	s.mcpServer.AddTool(mcp.NewTool("get_type",
		mcp.WithDescription("Get the definition of one type."),
		mcp.WithString("type_name", mcp.Required(), mcp.Description("Name of the type")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		typeName, _ := request.GetArguments()["type_name"].(string)
		def, ok := s.validator.TypeMap()[typeName]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrTypeNotFound, typeName)), nil
		}
		jsonBytes, _ := json.Marshal(def)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	typeName, _ := args["type_name"].(string)
	raw, _ := args["value"].(string)

	if _, ok := s.validator.TypeMap()[typeName]; !ok {
		return ValidateResponse{}, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
	}

	var value any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return ValidateResponse{}, fmt.Errorf("value is not valid JSON: %w", err)
	}

	out, err := s.validator.Validate(ctx, value, typeName)
	switch {
	case err == nil:
		return ValidateResponse{Valid: true, Value: out}, nil
	case atv.IsValidationFailure(err):
		s.logger.Debug("MCP Validate: value rejected", "type", typeName, "err", err)
		return ValidateResponse{Error: domain.DescribeError(err)}, nil
	default:
		return ValidateResponse{}, fmt.Errorf("validate failed: %w", err)
	}
}

func (s *Server) readTypes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.validator.TypeMap())
	if err != nil {
		return nil, fmt.Errorf("failed to encode types: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TypesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: atv://types
	s.mcpServer.AddResource(mcp.NewResource(TypesURI, "Type Map",
		mcp.WithMIMEType("application/json"),
	), s.readTypes)
}
