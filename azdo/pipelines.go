package azdo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ListPipelines returns pipeline definitions in a project.
func (c *Client) ListPipelines(ctx context.Context, project string, top int) ([]Pipeline, error) {
	params := url.Values{}
	if top > 0 {
		params.Set("$top", strconv.Itoa(top))
	}
	var resp listResponse[Pipeline]
	if err := c.get(ctx, projectPath(project, "_apis/pipelines"), params, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// RunPipeline queues a run of the given pipeline. branch, when set, pins
// the self repository ref (e.g. refs/heads/main); parameters are passed
// through as templateParameters.
func (c *Client) RunPipeline(ctx context.Context, project string, pipelineID int, branch string, parameters map[string]any) (PipelineRun, error) {
	body := RunPipelineRequest{}
	if strings.TrimSpace(branch) != "" {
		body.Resources = &RunResources{
			Repositories: map[string]RunRepository{
				"self": {RefName: branch},
			},
		}
	}
	if len(parameters) > 0 {
		body.TemplateParameters = parameters
	}

	path := projectPath(project, fmt.Sprintf("_apis/pipelines/%d/runs", pipelineID))
	var run PipelineRun
	if err := c.postJSON(ctx, path, nil, body, &run); err != nil {
		return PipelineRun{}, err
	}
	return run, nil
}
