package tools

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("len(Content) = %d, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Content[0] type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestJSONResult(t *testing.T) {
	result := jsonResult(map[string]string{"name": "Fleet"})
	if result.IsError {
		t.Fatal("IsError = true, want false")
	}
	text := resultText(t, result)
	if !strings.Contains(text, `"name": "Fleet"`) {
		t.Fatalf("text = %q, want indented JSON payload", text)
	}
}

func TestInvalidParametersResult(t *testing.T) {
	diags := []Diagnostic{
		{Field: "type", Code: CodeRequired, Message: "type is required"},
		{Field: "title", Code: CodeRequired, Message: "title is required"},
	}
	result := invalidParametersResult(diags)
	if !result.IsError {
		t.Fatal("IsError = false, want true")
	}

	var envelope errorEnvelope
	if err := json.Unmarshal([]byte(resultText(t, result)), &envelope); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if envelope.Error != ErrorCodeInvalidParameters {
		t.Fatalf("envelope.Error = %q, want %q", envelope.Error, ErrorCodeInvalidParameters)
	}
	if len(envelope.Fields) != 2 {
		t.Fatalf("envelope.Fields = %+v, want both diagnostics", envelope.Fields)
	}
	if envelope.Fields[0].Field != "type" || envelope.Fields[1].Field != "title" {
		t.Fatalf("envelope.Fields = %+v, want type then title", envelope.Fields)
	}
}

func TestInternalErrorResultPreservesMessage(t *testing.T) {
	result := internalErrorResult(errors.New("azdo: GET https://example/_apis/projects returned 503: busy"))
	if !result.IsError {
		t.Fatal("IsError = false, want true")
	}

	var envelope errorEnvelope
	if err := json.Unmarshal([]byte(resultText(t, result)), &envelope); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if envelope.Error != ErrorCodeInternalError {
		t.Fatalf("envelope.Error = %q, want %q", envelope.Error, ErrorCodeInternalError)
	}
	if !strings.Contains(envelope.Message, "returned 503") {
		t.Fatalf("envelope.Message = %q, want the remote status preserved", envelope.Message)
	}
}

func TestResultErrorCode(t *testing.T) {
	tests := []struct {
		name   string
		result *mcp.CallToolResult
		want   string
	}{
		{name: "nil result", result: nil, want: ""},
		{name: "success", result: jsonResult(map[string]int{"count": 1}), want: ""},
		{name: "invalid parameters", result: invalidParametersResult([]Diagnostic{{Field: "id", Code: CodeRequired}}), want: ErrorCodeInvalidParameters},
		{name: "internal error", result: internalErrorResult(errors.New("boom")), want: ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultErrorCode(tt.result); got != tt.want {
				t.Fatalf("resultErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
