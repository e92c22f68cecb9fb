package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Error codes reported to the caller in error result envelopes.
const (
	// ErrorCodeInvalidParameters is returned when argument binding fails
	// before any HTTP request is made.
	ErrorCodeInvalidParameters = "invalid_parameters"
	// ErrorCodeInternalError is the generic code for remote/transport
	// failures surfaced at the dispatch boundary.
	ErrorCodeInternalError = "internal_error"
)

// errorEnvelope is the JSON body of an error tool result.
type errorEnvelope struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []Diagnostic `json:"fields,omitempty"`
}

// jsonResult serializes the remote payload as indented JSON text. A
// marshalling failure is reported as an internal error; it never
// escapes as a protocol error.
func jsonResult(v any) *mcp.CallToolResult {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return internalErrorResult(fmt.Errorf("encode result: %w", err))
	}
	return mcp.NewToolResultText(string(encoded))
}

// invalidParametersResult reports argument-binding failures with the
// offending fields listed.
func invalidParametersResult(diags []Diagnostic) *mcp.CallToolResult {
	envelope := errorEnvelope{
		Error:   ErrorCodeInvalidParameters,
		Message: fmt.Sprintf("%d invalid parameter(s)", len(diags)),
		Fields:  diags,
	}
	return errorResult(envelope)
}

// internalErrorResult reports a failed invocation. The underlying error
// string (which carries status code and URL for HTTP failures) is
// preserved as the message.
func internalErrorResult(err error) *mcp.CallToolResult {
	message := "tool invocation failed"
	if err != nil {
		message = err.Error()
	}
	return errorResult(errorEnvelope{
		Error:   ErrorCodeInternalError,
		Message: message,
	})
}

func errorResult(envelope errorEnvelope) *mcp.CallToolResult {
	encoded, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(envelope.Error + ": " + envelope.Message)
	}
	result := mcp.NewToolResultText(string(encoded))
	result.IsError = true
	return result
}

// resultErrorCode extracts the envelope error code from a finished
// result, for observability labeling.
func resultErrorCode(result *mcp.CallToolResult) string {
	if result == nil || !result.IsError {
		return ""
	}
	for _, content := range result.Content {
		text, ok := content.(mcp.TextContent)
		if !ok {
			continue
		}
		var envelope errorEnvelope
		if err := json.Unmarshal([]byte(text.Text), &envelope); err == nil && envelope.Error != "" {
			return envelope.Error
		}
	}
	return ErrorCodeInternalError
}

var errNilClient = errors.New("tools: azdo client is nil")
