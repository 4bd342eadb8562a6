package commands

import (
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/alan/ci-bot/internal/config"
)

var (
	sshRemoteRegex   = regexp.MustCompile(`^git@[^:]+:([^/]+)/([^/]+?)(?:\.git)?$`)
	httpsRemoteRegex = regexp.MustCompile(`^https://[^/]+/([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// DetectRepository returns the repository from GITHUB_REPOSITORY, falling back
// to the git origin remote of the working directory
func DetectRepository(env *config.Environment) (string, string, error) {
	if env.Repository != "" {
		return env.OwnerRepo()
	}

	if !IsGitRepository() {
		return "", "", fmt.Errorf("GITHUB_REPOSITORY is not set and the working directory is not a git repository")
	}

	owner, repo, err := parseGitRemote()
	if err != nil {
		return "", "", fmt.Errorf("failed to parse git remote: %w", err)
	}
	slog.Debug("Auto-detected repository from git remote", "owner", owner, "repo", repo)

	return owner, repo, nil
}

// IsGitRepository checks if the current directory is a git repository
func IsGitRepository() bool {
	gitCmd := exec.Command("git", "rev-parse", "--git-dir")
	return gitCmd.Run() == nil
}

// parseGitRemote extracts owner and repo from git remote origin
func parseGitRemote() (string, string, error) {
	gitCmd := exec.Command("git", "remote", "get-url", "origin")
	output, err := gitCmd.Output()
	if err != nil {
		return "", "", err
	}

	return ParseRemoteURL(strings.TrimSpace(string(output)))
}

// ParseRemoteURL extracts owner and repo from SSH and HTTPS remote URLs,
// including GitHub Enterprise hosts
func ParseRemoteURL(remoteURL string) (string, string, error) {
	// Handle SSH format: git@github.com:owner/repo.git
	if matches := sshRemoteRegex.FindStringSubmatch(remoteURL); len(matches) == 3 {
		return matches[1], matches[2], nil
	}

	// Handle HTTPS format: https://github.com/owner/repo.git
	if matches := httpsRemoteRegex.FindStringSubmatch(remoteURL); len(matches) == 3 {
		return matches[1], matches[2], nil
	}

	return "", "", fmt.Errorf("unable to parse GitHub remote URL: %s", remoteURL)
}
