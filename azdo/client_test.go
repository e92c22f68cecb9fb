package azdo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		OrganizationURL: server.URL,
		PAT:             "secret-pat",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, server
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{name: "missing organization URL", cfg: ClientConfig{PAT: "pat"}},
		{name: "missing PAT", cfg: ClientConfig{OrganizationURL: "https://dev.azure.com/contoso"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg); err == nil {
				t.Fatal("NewClient() error = nil, want error")
			}
		})
	}
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	client, err := NewClient(ClientConfig{
		OrganizationURL: "https://dev.azure.com/contoso/",
		PAT:             "pat",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if got, want := client.BaseURL(), "https://dev.azure.com/contoso"; got != want {
		t.Fatalf("BaseURL() = %q, want %q", got, want)
	}
}

func TestListProjectsRequest(t *testing.T) {
	var gotPath, gotAuth, gotVersion, gotTop, gotSkip string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.URL.Query().Get("api-version")
		gotTop = r.URL.Query().Get("$top")
		gotSkip = r.URL.Query().Get("$skip")
		_ = json.NewEncoder(w).Encode(listResponse[Project]{
			Count: 1,
			Value: []Project{{ID: "p1", Name: "Fleet"}},
		})
	})

	projects, err := client.ListProjects(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Fleet" {
		t.Fatalf("ListProjects() = %+v, want one project named Fleet", projects)
	}

	if gotPath != "/_apis/projects" {
		t.Fatalf("path = %q, want /_apis/projects", gotPath)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(":secret-pat"))
	if gotAuth != wantAuth {
		t.Fatalf("Authorization = %q, want %q", gotAuth, wantAuth)
	}
	if gotVersion != DefaultAPIVersion {
		t.Fatalf("api-version = %q, want %q", gotVersion, DefaultAPIVersion)
	}
	if gotTop != "10" || gotSkip != "5" {
		t.Fatalf("$top/$skip = %q/%q, want 10/5", gotTop, gotSkip)
	}
}

func TestAddWorkItemCommentPinsPreviewVersion(t *testing.T) {
	var gotMethod, gotPath, gotVersion string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		_ = json.NewEncoder(w).Encode(WorkItemComment{ID: 7, Text: "done"})
	})

	comment, err := client.AddWorkItemComment(context.Background(), "Fleet", 42, "done")
	if err != nil {
		t.Fatalf("AddWorkItemComment() error = %v", err)
	}
	if comment.ID != 7 {
		t.Fatalf("comment.ID = %d, want 7", comment.ID)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/Fleet/_apis/wit/workItems/42/comments" {
		t.Fatalf("path = %q, want /Fleet/_apis/wit/workItems/42/comments", gotPath)
	}
	if gotVersion != DefaultAPIVersion+"-preview.4" {
		t.Fatalf("api-version = %q, want %q", gotVersion, DefaultAPIVersion+"-preview.4")
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		switch attempts {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_ = json.NewEncoder(w).Encode(Project{ID: "p1", Name: "Fleet"})
		}
	})

	project, err := client.GetProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if project.Name != "Fleet" {
		t.Fatalf("project.Name = %q, want Fleet", project.Name)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestGetRetryGivesUpAfterBudget(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	})

	_, err := client.GetProject(context.Background(), "p1")
	if err == nil {
		t.Fatal("GetProject() error = nil, want error")
	}
	if attempts != retryMaxAttempts {
		t.Fatalf("attempts = %d, want %d", attempts, retryMaxAttempts)
	}

	reqErr, ok := requestErrorFrom(err)
	if !ok {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode = %d, want %d", reqErr.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestRetryHookFires(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Project{ID: "p1"})
	}))
	t.Cleanup(server.Close)

	type retry struct {
		method  string
		status  int
		attempt int
	}
	var retries []retry
	client, err := NewClient(ClientConfig{
		OrganizationURL: server.URL,
		PAT:             "pat",
		OnRetry: func(method string, statusCode, attempt int) {
			retries = append(retries, retry{method: method, status: statusCode, attempt: attempt})
		},
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.GetProject(context.Background(), "p1"); err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if len(retries) != 2 {
		t.Fatalf("retries = %+v, want 2 entries", retries)
	}
	if retries[0].method != http.MethodGet || retries[0].status != http.StatusBadGateway || retries[0].attempt != 1 {
		t.Fatalf("retries[0] = %+v", retries[0])
	}
	if retries[1].attempt != 2 {
		t.Fatalf("retries[1].attempt = %d, want 2", retries[1].attempt)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"message":"project not found"}`, http.StatusNotFound)
	})

	_, err := client.GetProject(context.Background(), "missing")
	if err == nil {
		t.Fatal("GetProject() error = nil, want error")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}

	reqErr, ok := requestErrorFrom(err)
	if !ok {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Fatalf("StatusCode = %d, want 404", reqErr.StatusCode)
	}
	if !strings.Contains(reqErr.Body, "project not found") {
		t.Fatalf("Body = %q, want body excerpt with remote message", reqErr.Body)
	}
}

func TestWritesAreNeverRetried(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.QueryWorkItems(context.Background(), "Fleet", "SELECT [System.Id] FROM WorkItems", 0)
	if err == nil {
		t.Fatal("QueryWorkItems() error = nil, want error")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 (writes are not retried)", attempts)
	}
}

func TestCreateWorkItemRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotDoc PatchDocument
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotDoc)
		_ = json.NewEncoder(w).Encode(WorkItem{ID: 101})
	})

	doc := PatchDocument{}.AddField(FieldTitle, "Fix login redirect")
	item, err := client.CreateWorkItem(context.Background(), "Fleet", "User Story", doc)
	if err != nil {
		t.Fatalf("CreateWorkItem() error = %v", err)
	}
	if item.ID != 101 {
		t.Fatalf("item.ID = %d, want 101", item.ID)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/Fleet/_apis/wit/workitems/$User%20Story" {
		t.Fatalf("path = %q, want escaped $User%%20Story route", gotPath)
	}
	if gotContentType != "application/json-patch+json" {
		t.Fatalf("Content-Type = %q, want application/json-patch+json", gotContentType)
	}
	if len(gotDoc) != 1 || gotDoc[0].Path != "/fields/"+FieldTitle {
		t.Fatalf("patch document = %+v, want one title add operation", gotDoc)
	}
}

func TestBasicAuthToken(t *testing.T) {
	got := basicAuthToken("pat123")
	want := base64.StdEncoding.EncodeToString([]byte(":pat123"))
	if got != want {
		t.Fatalf("basicAuthToken() = %q, want %q", got, want)
	}
}

func TestExcerptTruncatesLongBodies(t *testing.T) {
	long := strings.Repeat("x", bodyExcerptLimit+100)
	got := excerpt([]byte(long))
	if len(got) != bodyExcerptLimit+3 {
		t.Fatalf("len(excerpt) = %d, want %d", len(got), bodyExcerptLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("excerpt = %q, want ... suffix", got[len(got)-10:])
	}
}

func TestTeamPath(t *testing.T) {
	tests := []struct {
		name    string
		project string
		team    string
		want    string
	}{
		{name: "explicit team", project: "Fleet", team: "Platform Team", want: "Fleet/Platform%20Team/_apis/work/boards"},
		{name: "default team", project: "Fleet", team: "", want: "Fleet/_apis/work/boards"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := teamPath(tt.project, tt.team, "_apis/work/boards"); got != tt.want {
				t.Fatalf("teamPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
