package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dhippley/ado-mcp/config"
)

func TestExitErrorCarriesCode(t *testing.T) {
	err := exitError(exitConnect, "connection check failed: %v", errors.New("401"))

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != exitConnect {
		t.Fatalf("Code = %d, want %d", exitErr.Code, exitConnect)
	}
	if !strings.Contains(exitErr.Error(), "connection check failed") {
		t.Fatalf("Error() = %q", exitErr.Error())
	}
}

func TestStartupAttrsRedactPAT(t *testing.T) {
	cfg := config.Config{
		OrganizationURL: "https://dev.azure.com/contoso",
		Project:         "Fleet",
		PAT:             "super-secret-pat",
	}

	attrs := startupAttrs(cfg)
	var patAttr *slog.Attr
	for i := range attrs {
		attr, ok := attrs[i].(slog.Attr)
		if !ok {
			t.Fatalf("attrs[%d] type = %T, want slog.Attr", i, attrs[i])
		}
		if strings.Contains(attr.Value.String(), "super-secret-pat") {
			t.Fatalf("attr %s leaks the PAT", attr.Key)
		}
		if attr.Key == "pat" {
			patAttr = &attr
		}
	}
	if patAttr == nil {
		t.Fatal("no pat attribute in startup log")
	}
	if got := patAttr.Value.String(); got != "***" {
		t.Fatalf("pat attr = %q, want ***", got)
	}
}

func TestToolsListCommand(t *testing.T) {
	cmd := NewToolsCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"list"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"NAME", "list_projects", "create_work_item", "move_work_item_to_iteration"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q:\n%s", want, output)
		}
	}
	if !strings.Contains(output, "read-only") || !strings.Contains(output, "read-write") {
		t.Fatalf("output missing access column values:\n%s", output)
	}
}

func TestToolsInspectCommand(t *testing.T) {
	cmd := NewToolsCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"inspect", "query_work_items"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "\"query_work_items\"") {
		t.Fatalf("output missing tool schema:\n%s", out.String())
	}
}

func TestToolsInspectUnknownTool(t *testing.T) {
	cmd := NewToolsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"inspect", "delete_everything"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want error")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != exitConfig {
		t.Fatalf("Code = %d, want %d", exitErr.Code, exitConfig)
	}
}
