package azdo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Well-known work item field reference names this layer writes.
const (
	FieldTitle         = "System.Title"
	FieldDescription   = "System.Description"
	FieldState         = "System.State"
	FieldAssignedTo    = "System.AssignedTo"
	FieldTags          = "System.Tags"
	FieldAreaPath      = "System.AreaPath"
	FieldIterationPath = "System.IterationPath"
)

// QueryWorkItems runs a WIQL query scoped to a project.
func (c *Client) QueryWorkItems(ctx context.Context, project, query string, top int) (WiqlResponse, error) {
	params := url.Values{}
	if top > 0 {
		params.Set("$top", strconv.Itoa(top))
	}
	var resp WiqlResponse
	path := projectPath(project, "_apis/wit/wiql")
	if err := c.postJSON(ctx, path, params, WiqlRequest{Query: query}, &resp); err != nil {
		return WiqlResponse{}, err
	}
	return resp, nil
}

// GetWorkItem returns one work item. fields narrows the returned field
// set; expand is passed through as $expand (relations, all, ...).
func (c *Client) GetWorkItem(ctx context.Context, project string, id int, fields []string, expand string) (WorkItem, error) {
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	if expand != "" {
		params.Set("$expand", expand)
	}
	var item WorkItem
	path := projectPath(project, fmt.Sprintf("_apis/wit/workitems/%d", id))
	if err := c.get(ctx, path, params, &item); err != nil {
		return WorkItem{}, err
	}
	return item, nil
}

// GetWorkItemsBatch returns up to 200 work items in one call.
func (c *Client) GetWorkItemsBatch(ctx context.Context, project string, ids []int, fields []string) ([]WorkItem, error) {
	var resp listResponse[WorkItem]
	path := projectPath(project, "_apis/wit/workitemsbatch")
	if err := c.postJSON(ctx, path, nil, WorkItemsBatchRequest{IDs: ids, Fields: fields}, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// CreateWorkItem creates a work item of the given type from a JSON-patch
// document. The type segment is escaped and prefixed with $ per the API
// route convention.
func (c *Client) CreateWorkItem(ctx context.Context, project, workItemType string, doc PatchDocument) (WorkItem, error) {
	var item WorkItem
	path := projectPath(project, "_apis/wit/workitems/$"+url.PathEscape(workItemType))
	if err := c.postPatchDocument(ctx, path, nil, doc, &item); err != nil {
		return WorkItem{}, err
	}
	return item, nil
}

// UpdateWorkItem applies a JSON-patch document to an existing work item.
func (c *Client) UpdateWorkItem(ctx context.Context, project string, id int, doc PatchDocument) (WorkItem, error) {
	var item WorkItem
	path := projectPath(project, fmt.Sprintf("_apis/wit/workitems/%d", id))
	if err := c.patchDocument(ctx, path, nil, doc, &item); err != nil {
		return WorkItem{}, err
	}
	return item, nil
}

// AddWorkItemComment posts a comment to a work item discussion. The
// comments endpoint is still a preview api-version.
func (c *Client) AddWorkItemComment(ctx context.Context, project string, id int, text string) (WorkItemComment, error) {
	params := url.Values{}
	params.Set("api-version", c.apiVersion+"-preview.4")
	var comment WorkItemComment
	path := projectPath(project, fmt.Sprintf("_apis/wit/workItems/%d/comments", id))
	if err := c.postJSON(ctx, path, params, map[string]string{"text": text}, &comment); err != nil {
		return WorkItemComment{}, err
	}
	return comment, nil
}

// WorkItemURL returns the canonical API URL of a work item, used when
// building parent relation operations.
func (c *Client) WorkItemURL(id int) string {
	return fmt.Sprintf("%s/_apis/wit/workItems/%d", c.baseURL, id)
}
