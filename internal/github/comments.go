package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// ListComments retrieves all comments on a pull request conversation
func (c *Client) ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var allComments []Comment
	for {
		slog.Debug("GitHub API: Listing issue comments", "owner", owner, "repo", repo, "issue", number, "page", opts.Page)
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments on #%d: %w", number, err)
		}

		for _, comment := range comments {
			allComments = append(allComments, mapComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// PostComment creates a new comment on a pull request conversation
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	commentInput := &github.IssueComment{
		Body: github.String(body),
	}

	slog.Debug("GitHub API: Creating issue comment", "owner", owner, "repo", repo, "issue", number)
	if _, _, err := c.client.Issues.CreateComment(ctx, owner, repo, number, commentInput); err != nil {
		return fmt.Errorf("failed to create comment on #%d: %w", number, err)
	}

	return nil
}

// UpdateComment replaces the body of an existing comment
func (c *Client) UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	commentInput := &github.IssueComment{
		Body: github.String(body),
	}

	slog.Debug("GitHub API: Updating issue comment", "owner", owner, "repo", repo, "comment_id", commentID)
	if _, _, err := c.client.Issues.EditComment(ctx, owner, repo, commentID, commentInput); err != nil {
		return fmt.Errorf("failed to update comment %d: %w", commentID, err)
	}

	return nil
}

func mapComment(comment *github.IssueComment) Comment {
	return Comment{
		ID:        comment.GetID(),
		Body:      comment.GetBody(),
		User:      comment.GetUser().GetLogin(),
		CreatedAt: comment.GetCreatedAt().Time,
		UpdatedAt: comment.GetUpdatedAt().Time,
	}
}
