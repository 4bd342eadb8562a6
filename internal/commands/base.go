// Package commands holds the setup and helpers shared by the ci-bot subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alan/ci-bot/cmd"
	"github.com/alan/ci-bot/internal/bot"
	"github.com/alan/ci-bot/internal/config"
	"github.com/alan/ci-bot/internal/github"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile   *string
	LoadConfig   func(string) (*cmd.Config, error)
	GitHubClient *github.Client
	Context      context.Context
	Config       *cmd.Config
	Env          *config.Environment
	Owner        string
	Repo         string
}

// Init loads configuration and environment, resolves the repository and
// creates the GitHub client
func (bc *BaseCommand) Init() error {
	env, err := config.LoadEnvironment()
	if err != nil {
		return err
	}
	bc.Env = env

	// Load configuration
	cfg, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return err
	}
	env.Apply(cfg)
	bc.Config = cfg

	owner, repo, err := DetectRepository(env)
	if err != nil {
		return err
	}
	bc.Owner, bc.Repo = owner, repo

	client, err := NewGitHubClient(env)
	if err != nil {
		return err
	}
	bc.GitHubClient = client
	bc.Context = context.Background()

	slog.Debug("Initialized command", "repo", bc.FullName(), "config", *bc.ConfigFile, "app_auth", env.UsesApp())
	return nil
}

// FullName returns the repository in owner/repo form
func (bc *BaseCommand) FullName() string {
	return bc.Owner + "/" + bc.Repo
}

// Settings resolves the bot settings for the command's repository
func (bc *BaseCommand) Settings() bot.Settings {
	return BotSettings(bc.Config, bc.FullName())
}

// BotSettings converts a configuration into controller settings for one repository
func BotSettings(cfg *cmd.Config, fullName string) bot.Settings {
	return bot.Settings{
		Enabled:              cfg.Enabled,
		AdminUsers:           cfg.AdminUsers,
		AutoRetry:            cfg.AutoRetry,
		MaxAutoRetryAttempts: cfg.MaxAutoRetryAttempts,
		AdminOnlyCommands:    cfg.AdminOnlyCommands,
		RetryableWorkflows:   cfg.RetryableFor(fullName),
		CallTimeout:          cfg.CallTimeout,
	}
}

// NewGitHubClient creates a client from GitHub App credentials when present,
// otherwise from GITHUB_TOKEN
func NewGitHubClient(env *config.Environment) (*github.Client, error) {
	if env.UsesApp() {
		ts, err := github.NewAppTokenSource(github.AppCredentials{
			AppID:          env.AppID,
			InstallationID: env.InstallationID,
			PrivateKey:     []byte(env.PrivateKey),
		}, env.APIURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to configure GitHub App credentials: %w", err)
		}
		return github.NewClient(ts, env.APIURL)
	}

	if env.Token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is required (or CI_BOT_APP_ID, CI_BOT_INSTALLATION_ID and CI_BOT_PRIVATE_KEY)")
	}
	return github.NewTokenClient(env.Token, env.APIURL)
}
