package azdo

import (
	"context"
	"net/url"
)

// ListBoards returns the boards of a team.
func (c *Client) ListBoards(ctx context.Context, project, team string) ([]Board, error) {
	var resp listResponse[Board]
	if err := c.get(ctx, teamPath(project, team, "_apis/work/boards"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetBoardColumns returns the columns of one board, by id or name.
func (c *Client) GetBoardColumns(ctx context.Context, project, team, boardID string) ([]BoardColumn, error) {
	var resp listResponse[BoardColumn]
	path := teamPath(project, team, "_apis/work/boards/"+url.PathEscape(boardID)+"/columns")
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}
