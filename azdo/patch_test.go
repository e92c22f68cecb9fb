package azdo

import (
	"encoding/json"
	"testing"
)

func TestPatchDocumentAddField(t *testing.T) {
	doc := PatchDocument{}.
		AddField(FieldTitle, "Fix login redirect").
		AddField(FieldTags, "auth; regression")

	if len(doc) != 2 {
		t.Fatalf("len(doc) = %d, want 2", len(doc))
	}
	if doc[0].Op != OpAdd || doc[0].Path != "/fields/System.Title" {
		t.Fatalf("doc[0] = %+v, want add /fields/System.Title", doc[0])
	}
	if doc[1].Value != "auth; regression" {
		t.Fatalf("doc[1].Value = %v, want tags string", doc[1].Value)
	}
}

func TestPatchDocumentReplaceField(t *testing.T) {
	doc := PatchDocument{}.ReplaceField(FieldState, "Active")
	if doc[0].Op != OpReplace || doc[0].Path != "/fields/System.State" {
		t.Fatalf("doc[0] = %+v, want replace /fields/System.State", doc[0])
	}
}

func TestPatchDocumentAddFieldsIsSorted(t *testing.T) {
	doc := PatchDocument{}.AddFields(map[string]any{
		"System.Tags":                    "infra",
		"Microsoft.VSTS.Common.Priority": 2,
		"System.AreaPath":                "Fleet\\Platform",
	})

	wantPaths := []string{
		"/fields/Microsoft.VSTS.Common.Priority",
		"/fields/System.AreaPath",
		"/fields/System.Tags",
	}
	if len(doc) != len(wantPaths) {
		t.Fatalf("len(doc) = %d, want %d", len(doc), len(wantPaths))
	}
	for i, want := range wantPaths {
		if doc[i].Path != want {
			t.Fatalf("doc[%d].Path = %q, want %q", i, doc[i].Path, want)
		}
	}
}

func TestPatchDocumentParentRelation(t *testing.T) {
	doc := PatchDocument{}.AddParentRelation("https://dev.azure.com/contoso/_apis/wit/workItems/12")

	if len(doc) != 1 {
		t.Fatalf("len(doc) = %d, want 1", len(doc))
	}
	if doc[0].Op != OpAdd || doc[0].Path != "/relations/-" {
		t.Fatalf("doc[0] = %+v, want add /relations/-", doc[0])
	}
	value, ok := doc[0].Value.(map[string]any)
	if !ok {
		t.Fatalf("doc[0].Value type = %T, want map", doc[0].Value)
	}
	if value["rel"] != relationParent {
		t.Fatalf("rel = %v, want %s", value["rel"], relationParent)
	}
}

func TestPatchDocumentWireFormat(t *testing.T) {
	doc := PatchDocument{}.AddField(FieldTitle, "New item")
	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"op":"add","path":"/fields/System.Title","value":"New item"}]`
	if string(encoded) != want {
		t.Fatalf("encoded = %s, want %s", encoded, want)
	}
}
