package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhippley/ado-mcp/azdo"
)

func iterationDefinitions(client *azdo.Client, defaults Defaults) []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("list_iterations",
				mcp.WithDescription("List a team's iterations (sprints)."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithString("team", mcp.Description("Team name. Defaults to the configured team or the project default team.")),
				mcp.WithString("timeframe", mcp.Description("Restrict to a timeframe."), mcp.Enum("current")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: listIterationsHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("get_iteration_work_items",
				mcp.WithDescription("List the work items of one iteration."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithString("team", mcp.Description("Team name. Defaults to the configured team or the project default team.")),
				mcp.WithString("iteration_id", mcp.Required(), mcp.Description("Iteration id (GUID).")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getIterationWorkItemsHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("move_work_item_to_iteration",
				mcp.WithDescription("Move a work item to an iteration by replacing its iteration path."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("id", mcp.Required(), mcp.Description("Work item id.")),
				mcp.WithString("iteration_path", mcp.Required(), mcp.Description("Target iteration path, e.g. MyProject\\Sprint 12.")),
			),
			Handler: moveWorkItemToIterationHandler(client, defaults),
		},
	}
}

func listIterationsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		team := args.String("team", defaults.Team)
		timeframe := args.String("timeframe", "")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		iterations, err := client.ListIterations(ctx, project, team, timeframe)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(iterations), nil
	}
}

func getIterationWorkItemsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		team := args.String("team", defaults.Team)
		iterationID := args.RequireString("iteration_id")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		items, err := client.GetIterationWorkItems(ctx, project, team, iterationID)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(items), nil
	}
}

func moveWorkItemToIterationHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		id := args.RequireInt("id")
		iterationPath := args.RequireString("iteration_path")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		doc := azdo.PatchDocument{}.ReplaceField(azdo.FieldIterationPath, iterationPath)
		item, err := client.UpdateWorkItem(ctx, project, id, doc)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(item), nil
	}
}
