package tools

import (
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Diagnostic codes produced by argument binding.
const (
	CodeRequired    = "REQUIRED"
	CodeInvalidType = "INVALID_TYPE"
)

// Diagnostic is one field-level argument-binding finding. All
// diagnostics are collected before the handler aborts, so the caller
// sees every offending field at once.
type Diagnostic struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Arguments binds a tool call's raw argument map to typed values,
// accumulating diagnostics instead of failing on the first problem.
type Arguments struct {
	raw   map[string]any
	diags []Diagnostic
}

// bindArguments wraps the request's argument object.
func bindArguments(req mcp.CallToolRequest) *Arguments {
	return &Arguments{raw: req.GetArguments()}
}

// Diagnostics returns the accumulated findings, nil when binding was
// clean.
func (a *Arguments) Diagnostics() []Diagnostic {
	return a.diags
}

func (a *Arguments) addDiagnostic(field, code, message string) {
	a.diags = append(a.diags, Diagnostic{Field: field, Code: code, Message: message})
}

// RequireString reads a mandatory string argument.
func (a *Arguments) RequireString(name string) string {
	value, ok := a.raw[name]
	if !ok || value == nil {
		a.addDiagnostic(name, CodeRequired, name+" is required")
		return ""
	}
	s, ok := value.(string)
	if !ok {
		a.addDiagnostic(name, CodeInvalidType, fmt.Sprintf("%s must be a string, got %T", name, value))
		return ""
	}
	if strings.TrimSpace(s) == "" {
		a.addDiagnostic(name, CodeRequired, name+" must not be empty")
		return ""
	}
	return s
}

// String reads an optional string argument, returning fallback when
// absent.
func (a *Arguments) String(name, fallback string) string {
	value, ok := a.raw[name]
	if !ok || value == nil {
		return fallback
	}
	s, ok := value.(string)
	if !ok {
		a.addDiagnostic(name, CodeInvalidType, fmt.Sprintf("%s must be a string, got %T", name, value))
		return fallback
	}
	return s
}

// RequireInt reads a mandatory integer argument. JSON numbers arrive as
// float64; fractional values are rejected.
func (a *Arguments) RequireInt(name string) int {
	value, ok := a.raw[name]
	if !ok || value == nil {
		a.addDiagnostic(name, CodeRequired, name+" is required")
		return 0
	}
	n, ok := a.asInt(name, value)
	if !ok {
		return 0
	}
	return n
}

// Int reads an optional integer argument, returning fallback when
// absent.
func (a *Arguments) Int(name string, fallback int) int {
	value, ok := a.raw[name]
	if !ok || value == nil {
		return fallback
	}
	n, ok := a.asInt(name, value)
	if !ok {
		return fallback
	}
	return n
}

func (a *Arguments) asInt(name string, value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			a.addDiagnostic(name, CodeInvalidType, name+" must be an integer")
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		a.addDiagnostic(name, CodeInvalidType, fmt.Sprintf("%s must be an integer, got %T", name, value))
		return 0, false
	}
}

// StringSlice reads an optional array-of-strings argument.
func (a *Arguments) StringSlice(name string) []string {
	value, ok := a.raw[name]
	if !ok || value == nil {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		a.addDiagnostic(name, CodeInvalidType, fmt.Sprintf("%s must be an array of strings, got %T", name, value))
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			a.addDiagnostic(fmt.Sprintf("%s[%d]", name, i), CodeInvalidType, fmt.Sprintf("%s[%d] must be a string, got %T", name, i, item))
			continue
		}
		out = append(out, s)
	}
	return out
}

// IntSlice reads an optional array-of-integers argument.
func (a *Arguments) IntSlice(name string) []int {
	value, ok := a.raw[name]
	if !ok || value == nil {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		a.addDiagnostic(name, CodeInvalidType, fmt.Sprintf("%s must be an array of integers, got %T", name, value))
		return nil
	}
	out := make([]int, 0, len(items))
	for i, item := range items {
		n, ok := a.asInt(fmt.Sprintf("%s[%d]", name, i), item)
		if !ok {
			continue
		}
		out = append(out, n)
	}
	return out
}

// RequireIntSlice reads a mandatory, non-empty array-of-integers
// argument.
func (a *Arguments) RequireIntSlice(name string) []int {
	if _, ok := a.raw[name]; !ok {
		a.addDiagnostic(name, CodeRequired, name+" is required")
		return nil
	}
	before := len(a.diags)
	out := a.IntSlice(name)
	if len(out) == 0 && len(a.diags) == before {
		a.addDiagnostic(name, CodeRequired, name+" must not be empty")
	}
	return out
}

// Object reads an optional free-form object argument.
func (a *Arguments) Object(name string) map[string]any {
	value, ok := a.raw[name]
	if !ok || value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		a.addDiagnostic(name, CodeInvalidType, fmt.Sprintf("%s must be an object, got %T", name, value))
		return nil
	}
	return m
}
