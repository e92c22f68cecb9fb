package azdo

import (
	"context"
	"net/url"
	"strconv"
)

// ListProjects returns team projects in the organization.
func (c *Client) ListProjects(ctx context.Context, top, skip int) ([]Project, error) {
	params := url.Values{}
	if top > 0 {
		params.Set("$top", strconv.Itoa(top))
	}
	if skip > 0 {
		params.Set("$skip", strconv.Itoa(skip))
	}
	var resp listResponse[Project]
	if err := c.get(ctx, "_apis/projects", params, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetProject returns one project by id or name.
func (c *Client) GetProject(ctx context.Context, projectID string) (Project, error) {
	var project Project
	if err := c.get(ctx, "_apis/projects/"+url.PathEscape(projectID), nil, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}
