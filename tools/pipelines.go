package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dhippley/ado-mcp/azdo"
)

func pipelineDefinitions(client *azdo.Client, defaults Defaults) []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("list_pipelines",
				mcp.WithDescription("List pipeline definitions in a project."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("top", mcp.Description("Maximum number of pipelines to return.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: listPipelinesHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("run_pipeline",
				mcp.WithDescription("Queue a run of a pipeline, optionally pinning a branch and passing template parameters."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("pipeline_id", mcp.Required(), mcp.Description("Pipeline definition id.")),
				mcp.WithString("branch", mcp.Description("Ref to run, e.g. refs/heads/main.")),
				mcp.WithObject("parameters", mcp.Description("Template parameters passed to the run.")),
			),
			Handler: runPipelineHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("list_builds",
				mcp.WithDescription("List builds in a project, optionally filtered by definition, branch, status, or result."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithArray("definitions", mcp.Description("Build definition ids to filter by."), mcp.Items(map[string]any{"type": "number"})),
				mcp.WithString("branch", mcp.Description("Source branch ref name filter.")),
				mcp.WithString("status", mcp.Description("Status filter."), mcp.Enum("inProgress", "completed", "cancelling", "postponed", "notStarted", "all")),
				mcp.WithString("result", mcp.Description("Result filter."), mcp.Enum("succeeded", "partiallySucceeded", "failed", "canceled")),
				mcp.WithNumber("top", mcp.Description("Maximum number of builds to return.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: listBuildsHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("get_build",
				mcp.WithDescription("Get one build by id."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("build_id", mcp.Required(), mcp.Description("Build id.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getBuildHandler(client, defaults),
		},
		{
			Tool: mcp.NewTool("get_build_logs",
				mcp.WithDescription("List the log index of a build."),
				mcp.WithString("project", mcp.Description("Project id or name. Defaults to the configured project.")),
				mcp.WithNumber("build_id", mcp.Required(), mcp.Description("Build id.")),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: getBuildLogsHandler(client, defaults),
		},
	}
}

func listPipelinesHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		top := args.Int("top", 0)
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		pipelines, err := client.ListPipelines(ctx, project, top)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(pipelines), nil
	}
}

func runPipelineHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		pipelineID := args.RequireInt("pipeline_id")
		branch := args.String("branch", "")
		parameters := args.Object("parameters")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		run, err := client.RunPipeline(ctx, project, pipelineID, branch, parameters)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(run), nil
	}
}

func listBuildsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		filter := azdo.BuildFilter{
			Definitions: args.IntSlice("definitions"),
			Branch:      args.String("branch", ""),
			Status:      args.String("status", ""),
			Result:      args.String("result", ""),
			Top:         args.Int("top", 0),
		}
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		builds, err := client.ListBuilds(ctx, project, filter)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(builds), nil
	}
}

func getBuildHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		buildID := args.RequireInt("build_id")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		build, err := client.GetBuild(ctx, project, buildID)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(build), nil
	}
}

func getBuildLogsHandler(client *azdo.Client, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := bindArguments(req)
		project := requireProject(args, defaults)
		buildID := args.RequireInt("build_id")
		if diags := args.Diagnostics(); len(diags) > 0 {
			return invalidParametersResult(diags), nil
		}

		logs, err := client.GetBuildLogs(ctx, project, buildID)
		if err != nil {
			return internalErrorResult(err), nil
		}
		return jsonResult(logs), nil
	}
}
