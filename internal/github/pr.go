package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// GetPullRequest fetches a pull request and reduces it to the context the bot works with
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestContext, error) {
	slog.Debug("GitHub API: Getting PR", "owner", owner, "repo", repo, "pr", number)
	pr, resp, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", number, err)
	}
	logRateLimit(resp, owner+"/"+repo+"/pulls")

	prContext := MapPullRequest(owner, repo, pr)
	return &prContext, nil
}

// MapPullRequest converts a go-github PullRequest using its nil-safe getters
func MapPullRequest(owner, repo string, pr *github.PullRequest) PullRequestContext {
	return PullRequestContext{
		Owner:      owner,
		Repo:       repo,
		Number:     pr.GetNumber(),
		HeadSHA:    pr.GetHead().GetSHA(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Title:      pr.GetTitle(),
		Author:     pr.GetUser().GetLogin(),
		URL:        pr.GetHTMLURL(),
		State:      pr.GetState(),
	}
}
