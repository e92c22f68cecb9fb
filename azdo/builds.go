package azdo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BuildFilter narrows ListBuilds results. Zero values are omitted from
// the query string.
type BuildFilter struct {
	// Definitions is a list of build definition ids.
	Definitions []int
	// Branch filters by source branch ref name.
	Branch string
	// Status filters by build status (inProgress, completed, ...).
	Status string
	// Result filters by build result (succeeded, failed, ...).
	Result string
	// Top caps the number of returned builds.
	Top int
}

// ListBuilds returns builds in a project, newest first per the API default.
func (c *Client) ListBuilds(ctx context.Context, project string, filter BuildFilter) ([]Build, error) {
	params := url.Values{}
	if len(filter.Definitions) > 0 {
		ids := make([]string, 0, len(filter.Definitions))
		for _, id := range filter.Definitions {
			ids = append(ids, strconv.Itoa(id))
		}
		params.Set("definitions", strings.Join(ids, ","))
	}
	if filter.Branch != "" {
		params.Set("branchName", filter.Branch)
	}
	if filter.Status != "" {
		params.Set("statusFilter", filter.Status)
	}
	if filter.Result != "" {
		params.Set("resultFilter", filter.Result)
	}
	if filter.Top > 0 {
		params.Set("$top", strconv.Itoa(filter.Top))
	}

	var resp listResponse[Build]
	if err := c.get(ctx, projectPath(project, "_apis/build/builds"), params, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetBuild returns one build by id.
func (c *Client) GetBuild(ctx context.Context, project string, buildID int) (Build, error) {
	var build Build
	path := projectPath(project, fmt.Sprintf("_apis/build/builds/%d", buildID))
	if err := c.get(ctx, path, nil, &build); err != nil {
		return Build{}, err
	}
	return build, nil
}

// GetBuildLogs returns the log index for a build.
func (c *Client) GetBuildLogs(ctx context.Context, project string, buildID int) ([]BuildLog, error) {
	var resp listResponse[BuildLog]
	path := projectPath(project, fmt.Sprintf("_apis/build/builds/%d/logs", buildID))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}
