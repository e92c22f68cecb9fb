package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhippley/ado-mcp/azdo"
)

func projectDefinitions(client *azdo.Client) []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("list_projects",
				mcp.WithDescription("List team projects in the Azure DevOps organization."),
				mcp.WithNumber("top", mcp.Description("Maximum number of projects to return.")),
				mcp.WithNumber("skip", mcp.Description("Number of projects to skip.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: listProjectsHandler(client),
		},
		{
			Tool: mcp.NewTool("get_project",
				mcp.WithDescription("Get one team project by id or name."),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("Project id (GUID) or name.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getProjectHandler(client),
		},
	}
}

func listProjectsHandler(client *azdo.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		top := args.Int("top", 0)
		skip := args.Int("skip", 0)
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		projects, err := client.ListProjects(ctx, top, skip)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(projects), nil
	}
}

func getProjectHandler(client *azdo.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		projectID := args.RequireString("project_id")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		project, err := client.GetProject(ctx, projectID)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(project), nil
	}
}
