package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhippley/ado-mcp/azdo"
)

func boardDefinitions(client *azdo.Client, defaults Defaults) []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("list_boards",
				mcp.WithDescription("List the boards of a team."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithString("team", mcp.Description("Team name. Defaults to the configured team or the project default team.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: listBoardsHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("get_board_columns",
				mcp.WithDescription("List the columns of one board."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithString("team", mcp.Description("Team name. Defaults to the configured team or the project default team.")),
				mcp.WithString("board_id", mcp.Required(), mcp.Description("Board id (GUID) or name, e.g. Stories.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getBoardColumnsHandler(client, defaults),
		},
	}
}

func listBoardsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		team := args.String("team", defaults.Team)
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		boards, err := client.ListBoards(ctx, project, team)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(boards), nil
	}
}

func getBoardColumnsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		team := args.String("team", defaults.Team)
		boardID := args.RequireString("board_id")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		columns, err := client.GetBoardColumns(ctx, project, team, boardID)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(columns), nil
	}
}
