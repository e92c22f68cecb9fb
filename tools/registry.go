// Package tools defines the tool catalog: one schema-validated MCP tool
// per Azure DevOps operation, each mapping to exactly one REST call (or
// one REST call plus a JSON-patch document).
package tools

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhippley/ado-mcp/azdo"
)

// Defaults supplies catalog-wide fallbacks for arguments the caller may
// omit.
type Defaults struct {
	// Project is used when a tool call omits the project argument.
	Project string
	// Team is used when a tool call omits the team argument. Empty
	// selects the project default team route.
	Team string
}

// Definition pairs a tool schema with its handler.
type Definition struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Catalog returns every tool definition, wired to the given client.
func Catalog(client *azdo.Client, defaults Defaults) ([]Definition, error) {
	if client == nil {
		return nil, errNilClient
	}
	var defs []Definition
	defs = append(defs, projectDefinitions(client)...)
	defs = append(defs, pipelineDefinitions(client, defaults)...)
	defs = append(defs, workItemDefinitions(client, defaults)...)
	defs = append(defs, boardDefinitions(client, defaults)...)
	defs = append(defs, iterationDefinitions(client, defaults)...)
	return defs, nil
}

// Register adds every definition to the server, wrapping handlers with
// invocation observability.
func Register(s *server.MCPServer, defs []Definition, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, def := range defs {
		s.AddTool(def.Tool, observed(def.Tool.Name, def.Handler, logger))
	}
}

// observed wraps a handler with request-id correlation, duration
// measurement, and observer emission. Handler errors are converted to
// internal-error results here so nothing escapes as a protocol error.
func observed(name string, handler server.ToolHandlerFunc, logger *slog.Logger) server.ToolHandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := uuid.NewString()
		start := time.Now()

		result, err := handler(ctx, req)
		if err != nil {
			result = internalErrorResult(err)
		}

		durationMS := time.Since(start).Milliseconds()
		errorCode := resultErrorCode(result)
		emitInvokeObservation(InvokeObservation{
			Tool:       name,
			RequestID:  requestID,
			DurationMS: durationMS,
			Success:    errorCode == "",
			ErrorCode:  errorCode,
		})

		attrs := []any{
			slog.String("tool", name),
			slog.String("request_id", requestID),
			slog.Int64("duration_ms", durationMS),
		}
		if errorCode != "" {
			attrs = append(attrs, slog.String("error_code", errorCode))
			logger.Warn("tool call failed", attrs...)
		} else {
			logger.Debug("tool call ok", attrs...)
		}
		return result, nil
	}
}

// requireProject resolves the project argument with the configured
// default, recording a diagnostic when neither is present.
func requireProject(args *Arguments, defaults Defaults) string {
	project := args.String("project", defaults.Project)
	if strings.TrimSpace(project) == "" {
		args.addDiagnostic("project", CodeRequired, "project is required (no default project configured)")
	}
	return project
}
