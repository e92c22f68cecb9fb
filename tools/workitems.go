package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhippley/ado-mcp/azdo"
)

func workItemDefinitions(client *azdo.Client, defaults Defaults) []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("query_work_items",
				mcp.WithDescription("Run a WIQL query against a project's work item store."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithString("query", mcp.Required(), mcp.Description("WIQL query, e.g. SELECT [System.Id] FROM WorkItems WHERE [System.State] = 'Active'.")),
				mcp.WithNumber("top", mcp.Description("Maximum number of results.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: queryWorkItemsHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("get_work_item",
				mcp.WithDescription("Get one work item by id."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id.")),
				mcp.WithArray("fields", mcp.Description("Field reference names to return."), mcp.Items(map[string]any{"type": "string"})),
				mcp.WithString("expand", mcp.Description("Expand option."), mcp.Enum("none", "relations", "fields", "links", "all")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getWorkItemHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("get_work_items_batch",
				mcp.WithDescription("Get up to 200 work items in one call."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithArray("ids", mcp.Required(), mcp.Description("Work item ids."), mcp.Items(map[string]any{"type": "number"})),
				mcp.WithArray("fields", mcp.Description("Field reference names to return."), mcp.Items(map[string]any{"type": "string"})),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getWorkItemsBatchHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("create_work_item",
				mcp.WithDescription("Create a work item of the given type."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithString("type", mcp.Required(), mcp.Description("Work item type, e.g. Bug, Task, User Story.")),
				mcp.WithString("title", mcp.Required(), mcp.Description("Work item title.")),
				mcp.WithString("description", mcp.Description("Description (HTML).")),
				mcp.WithString("assigned_to", mcp.Description("Assignee display name or unique name.")),
				mcp.WithString("tags", mcp.Description("Semicolon-separated tags.")),
				mcp.WithString("area_path", mcp.Description("Area path.")),
				mcp.WithString("iteration_path", mcp.Description("Iteration path.")),
				mcp.WithNumber("parent_id", mcp.Description("Work item id to link as parent.")),
				mcp.WithObject("fields", mcp.Description("Additional fields by reference name, e.g. Microsoft.VSTS.Common.Priority.")),
			),
			Handler: createWorkItemHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("update_work_item",
				mcp.WithDescription("Update fields of an existing work item."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id.")),
				mcp.WithString("title", mcp.Description("New title.")),
				mcp.WithString("description", mcp.Description("New description (HTML).")),
				mcp.WithString("state", mcp.Description("New state, e.g. Active, Resolved, Closed.")),
				mcp.WithString("assigned_to", mcp.Description("New assignee display name or unique name.")),
				mcp.WithString("tags", mcp.Description("Semicolon-separated tags.")),
				mcp.WithObject("fields", mcp.Description("Additional fields by reference name.")),
			),
			Handler: updateWorkItemHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("add_work_item_comment",
				mcp.WithDescription("Add a comment to a work item discussion."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id.")),
				mcp.WithString("text", mcp.Required(), mcp.Description("Comment text.")),
			),
			Handler: addWorkItemCommentHandler(client, defaults),
		},
	}
}

func queryWorkItemsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		query := args.RequireString("query")
		top := args.Int("top", 0)
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		resp, err := client.QueryWorkItems(ctx, project, query, top)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(resp), nil
	}
}

func getWorkItemHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		id := args.RequireInt("id")
		fields := args.StringSlice("fields")
		expand := args.String("expand", "")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		item, err := client.GetWorkItem(ctx, project, id, fields, expand)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(item), nil
	}
}

func getWorkItemsBatchHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		ids := args.RequireIntSlice("ids")
		fields := args.StringSlice("fields")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		items, err := client.GetWorkItemsBatch(ctx, project, ids, fields)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(items), nil
	}
}

func createWorkItemHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		workItemType := args.RequireString("type")
		title := args.RequireString("title")
		description := args.String("description", "")
		assignedTo := args.String("assigned_to", "")
		tags := args.String("tags", "")
		areaPath := args.String("area_path", "")
		iterationPath := args.String("iteration_path", "")
		parentID := args.Int("parent_id", 0)
		extraFields := args.Object("fields")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		doc := azdo.PatchDocument{}.AddField(azdo.FieldTitle, title)
		if description != "" {
			doc = doc.AddField(azdo.FieldDescription, description)
		}
		if assignedTo != "" {
			doc = doc.AddField(azdo.FieldAssignedTo, assignedTo)
		}
		if tags != "" {
			doc = doc.AddField(azdo.FieldTags, tags)
		}
		if areaPath != "" {
			doc = doc.AddField(azdo.FieldAreaPath, areaPath)
		}
		if iterationPath != "" {
			doc = doc.AddField(azdo.FieldIterationPath, iterationPath)
		}
		doc = doc.AddFields(extraFields)
		if parentID > 0 {
			doc = doc.AddParentRelation(client.WorkItemURL(parentID))
		}

		item, err := client.CreateWorkItem(ctx, project, workItemType, doc)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(item), nil
	}
}

func updateWorkItemHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		id := args.RequireInt("id")
		title := args.String("title", "")
		description := args.String("description", "")
		state := args.String("state", "")
		assignedTo := args.String("assigned_to", "")
		tags := args.String("tags", "")
		extraFields := args.Object("fields")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		// add has upsert semantics; replace fails with 400 on fields the
		// item has never had set.
		doc := azdo.PatchDocument{}
		if title != "" {
			doc = doc.AddField(azdo.FieldTitle, title)
		}
		if description != "" {
			doc = doc.AddField(azdo.FieldDescription, description)
		}
		if state != "" {
			doc = doc.AddField(azdo.FieldState, state)
		}
		if assignedTo != "" {
			doc = doc.AddField(azdo.FieldAssignedTo, assignedTo)
		}
		if tags != "" {
			doc = doc.AddField(azdo.FieldTags, tags)
		}
		doc = doc.AddFields(extraFields)
		if len(doc) == 0 {
			return invalidParametersResult([]Diagnostic{{
				Field:   "fields",
				Code:    CodeRequired,
				Message: "at least one field to update is required",
			}}), nil
		}

		item, err := client.UpdateWorkItem(ctx, project, id, doc)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(item), nil
	}
}

func addWorkItemCommentHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		id := args.RequireInt("id")
		text := args.RequireString("text")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		comment, err := client.AddWorkItemComment(ctx, project, id, text)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(comment), nil
	}
}
