package tools

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dhippley/ado-mcp/azdo"
)

func newCatalogClient(t *testing.T) *azdo.Client {
	t.Helper()
	client, err := azdo.NewClient(azdo.ClientConfig{
		OrganizationURL: "https://dev.azure.com/contoso",
		PAT:             "pat",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestCatalogRejectsNilClient(t *testing.T) {
	if _, err := Catalog(nil, Defaults{}); err == nil {
		t.Fatal("Catalog(nil) error = nil, want error")
	}
}

func TestCatalogNamesAreUnique(t *testing.T) {
	defs, err := Catalog(newCatalogClient(t), Defaults{})
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(defs) == 0 {
		t.Fatal("Catalog() returned no definitions")
	}

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def.Tool.Name == "" {
			t.Fatal("definition with empty tool name")
		}
		if seen[def.Tool.Name] {
			t.Fatalf("duplicate tool name %q", def.Tool.Name)
		}
		seen[def.Tool.Name] = true
		if def.Handler == nil {
			t.Fatalf("tool %q has nil handler", def.Tool.Name)
		}
		if def.Tool.Description == "" {
			t.Fatalf("tool %q has no description", def.Tool.Name)
		}
	}
}

func TestCatalogCoversEveryOperation(t *testing.T) {
	defs, err := Catalog(newCatalogClient(t), Defaults{})
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	names := make(map[string]bool, len(defs))
	for _, def := range defs {
		names[def.Tool.Name] = true
	}

	want := []string{
		"list_projects", "get_project",
		"list_pipelines", "run_pipeline",
		"list_builds", "get_build", "get_build_logs",
		"query_work_items", "get_work_item", "get_work_items_batch",
		"create_work_item", "update_work_item", "add_work_item_comment",
		"list_boards", "get_board_columns",
		"list_iterations", "get_iteration_work_items", "move_work_item_to_iteration",
	}
	for _, name := range want {
		if !names[name] {
			t.Fatalf("catalog is missing tool %q", name)
		}
	}
	if len(defs) != len(want) {
		t.Fatalf("len(defs) = %d, want %d", len(defs), len(want))
	}
}

func TestReadOnlyAnnotations(t *testing.T) {
	defs, err := Catalog(newCatalogClient(t), Defaults{})
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	mutating := map[string]bool{
		"run_pipeline":                true,
		"create_work_item":            true,
		"update_work_item":            true,
		"add_work_item_comment":       true,
		"move_work_item_to_iteration": true,
	}
	for _, def := range defs {
		readOnly := def.Tool.Annotations.ReadOnlyHint != nil && *def.Tool.Annotations.ReadOnlyHint
		if mutating[def.Tool.Name] && readOnly {
			t.Fatalf("tool %q is mutating but marked read-only", def.Tool.Name)
		}
		if !mutating[def.Tool.Name] && !readOnly {
			t.Fatalf("tool %q is read-only but not annotated", def.Tool.Name)
		}
	}
}

type recordingObserver struct {
	mu           sync.Mutex
	observations []InvokeObservation
}

func (o *recordingObserver) ObserveInvoke(observation InvokeObservation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observations = append(o.observations, observation)
}

func (o *recordingObserver) last(t *testing.T) InvokeObservation {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.observations) == 0 {
		t.Fatal("no observations recorded")
	}
	return o.observations[len(o.observations)-1]
}

func TestObservedConvertsHandlerErrors(t *testing.T) {
	observer := &recordingObserver{}
	SetObserver(observer)
	defer SetObserver(nil)

	handler := observed("get_build", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("transport exploded")
	}, nil)

	result, err := handler(context.Background(), newCallRequest(nil))
	if err != nil {
		t.Fatalf("observed handler error = %v, want nil (errors become results)", err)
	}
	if !result.IsError {
		t.Fatal("result.IsError = false, want true")
	}
	if got := resultErrorCode(result); got != ErrorCodeInternalError {
		t.Fatalf("resultErrorCode() = %q, want %q", got, ErrorCodeInternalError)
	}

	observation := observer.last(t)
	if observation.Tool != "get_build" {
		t.Fatalf("observation.Tool = %q, want get_build", observation.Tool)
	}
	if observation.Success {
		t.Fatal("observation.Success = true, want false")
	}
	if observation.ErrorCode != ErrorCodeInternalError {
		t.Fatalf("observation.ErrorCode = %q, want %q", observation.ErrorCode, ErrorCodeInternalError)
	}
	if observation.RequestID == "" {
		t.Fatal("observation.RequestID is empty")
	}
}

func TestObservedRecordsSuccess(t *testing.T) {
	observer := &recordingObserver{}
	SetObserver(observer)
	defer SetObserver(nil)

	handler := observed("list_projects", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult([]string{"Fleet"}), nil
	}, nil)

	result, err := handler(context.Background(), newCallRequest(nil))
	if err != nil {
		t.Fatalf("observed handler error = %v", err)
	}
	if result.IsError {
		t.Fatal("result.IsError = true, want false")
	}

	observation := observer.last(t)
	if !observation.Success || observation.ErrorCode != "" {
		t.Fatalf("observation = %+v, want success with no error code", observation)
	}
}

func TestRequireProjectFallsBackToDefault(t *testing.T) {
	args := bindArguments(newCallRequest(nil))
	if got := requireProject(args, Defaults{Project: "Fleet"}); got != "Fleet" {
		t.Fatalf("requireProject() = %q, want Fleet", got)
	}
	if diags := args.Diagnostics(); len(diags) != 0 {
		t.Fatalf("diagnostics = %+v, want none", diags)
	}

	args = bindArguments(newCallRequest(nil))
	requireProject(args, Defaults{})
	diags := args.Diagnostics()
	if len(diags) != 1 || diags[0].Field != "project" {
		t.Fatalf("diagnostics = %+v, want one finding for project", diags)
	}
}
