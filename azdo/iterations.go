package azdo

import (
	"context"
	"net/url"
)

// TimeframeCurrent selects only the active sprint in ListIterations.
const TimeframeCurrent = "current"

// ListIterations returns the team settings iterations. timeframe may be
// empty (all iterations) or TimeframeCurrent.
func (c *Client) ListIterations(ctx context.Context, project, team, timeframe string) ([]Iteration, error) {
	params := url.Values{}
	if timeframe != "" {
		params.Set("$timeframe", timeframe)
	}
	var resp listResponse[Iteration]
	path := teamPath(project, team, "_apis/work/teamsettings/iterations")
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetIterationWorkItems returns the work item links of one iteration.
func (c *Client) GetIterationWorkItems(ctx context.Context, project, team, iterationID string) (IterationWorkItems, error) {
	var items IterationWorkItems
	path := teamPath(project, team, "_apis/work/teamsettings/iterations/"+url.PathEscape(iterationID)+"/workitems")
	if err := c.get(ctx, path, nil, &items); err != nil {
		return IterationWorkItems{}, err
	}
	return items, nil
}
