package github

import (
	"context"
	"fmt"
	"log/slog"
)

// GetPermissionLevel returns the user's permission on the repository.
// Users who are not collaborators come back as read or none depending on repository visibility.
func (c *Client) GetPermissionLevel(ctx context.Context, owner, repo, username string) (PermissionLevel, error) {
	slog.Debug("GitHub API: Getting permission level", "owner", owner, "repo", repo, "user", username)
	level, _, err := c.client.Repositories.GetPermissionLevel(ctx, owner, repo, username)
	if err != nil {
		return PermissionNone, fmt.Errorf("failed to get permission level for %s: %w", username, err)
	}

	return ParsePermissionLevel(level.GetPermission()), nil
}
