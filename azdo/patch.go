package azdo

import "slices"

// JSON-patch operation names used by the work item tracking API.
const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Relation type for parent links on created work items.
const relationParent = "System.LinkTypes.Hierarchy-Reverse"

// PatchOperation is one entry of an application/json-patch+json document.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// PatchDocument is the ordered operation list sent to work item
// create/update endpoints.
type PatchDocument []PatchOperation

// AddField appends an add operation for a field reference name.
func (d PatchDocument) AddField(referenceName string, value any) PatchDocument {
	return append(d, PatchOperation{
		Op:    OpAdd,
		Path:  "/fields/" + referenceName,
		Value: value,
	})
}

// ReplaceField appends a replace operation for a field reference name.
func (d PatchDocument) ReplaceField(referenceName string, value any) PatchDocument {
	return append(d, PatchOperation{
		Op:    OpReplace,
		Path:  "/fields/" + referenceName,
		Value: value,
	})
}

// AddRelation appends a relation add operation linking to targetURL.
func (d PatchDocument) AddRelation(rel, targetURL string) PatchDocument {
	return append(d, PatchOperation{
		Op:   OpAdd,
		Path: "/relations/-",
		Value: map[string]any{
			"rel": rel,
			"url": targetURL,
		},
	})
}

// AddParentRelation links the document's work item under parentURL.
func (d PatchDocument) AddParentRelation(parentURL string) PatchDocument {
	return d.AddRelation(relationParent, parentURL)
}

// AddFields appends one add operation per entry of fields, in sorted
// key order so documents are deterministic.
func (d PatchDocument) AddFields(fields map[string]any) PatchDocument {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		d = d.AddField(key, fields[key])
	}
	return d
}
