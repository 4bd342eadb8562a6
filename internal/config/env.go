package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/alan/ci-bot/cmd"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Environment holds the values the Actions runtime and the operator pass in
// through environment variables
type Environment struct {
	Token      string
	Repository string
	EventName  string
	EventPath  string
	APIURL     string

	AppID          string
	InstallationID int64
	PrivateKey     string

	enabled    *bool
	autoRetry  *bool
	adminUsers []string
}

// envBindings maps viper keys to environment variables
var envBindings = map[string]string{
	"token":           "GITHUB_TOKEN",
	"repository":      "GITHUB_REPOSITORY",
	"event_name":      "GITHUB_EVENT_NAME",
	"event_path":      "GITHUB_EVENT_PATH",
	"api_url":         "GITHUB_API_URL",
	"app_id":          "CI_BOT_APP_ID",
	"installation_id": "CI_BOT_INSTALLATION_ID",
	"private_key":     "CI_BOT_PRIVATE_KEY",
	"enabled":         "CI_BOT_ENABLED",
	"auto_retry":      "CI_BOT_AUTO_RETRY",
	"admin_users":     "CI_BOT_ADMIN_USERS",
}

// LoadEnvironment reads the bot's environment variables
func LoadEnvironment() (*Environment, error) {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	env := &Environment{
		Token:      v.GetString("token"),
		Repository: v.GetString("repository"),
		EventName:  v.GetString("event_name"),
		EventPath:  v.GetString("event_path"),
		APIURL:     v.GetString("api_url"),
		AppID:      v.GetString("app_id"),
		PrivateKey: v.GetString("private_key"),
	}

	if v.IsSet("installation_id") {
		env.InstallationID = v.GetInt64("installation_id")
		if env.InstallationID <= 0 {
			return nil, fmt.Errorf("CI_BOT_INSTALLATION_ID must be a positive integer, got %q", os.Getenv("CI_BOT_INSTALLATION_ID"))
		}
	}
	var err error
	if env.enabled, err = boolOverride(v, "enabled"); err != nil {
		return nil, err
	}
	if env.autoRetry, err = boolOverride(v, "auto_retry"); err != nil {
		return nil, err
	}
	if v.IsSet("admin_users") {
		env.adminUsers = splitList(v.GetString("admin_users"))
	}

	return env, nil
}

// Apply overlays the CI_BOT_* overrides onto a loaded configuration
func (e *Environment) Apply(config *cmd.Config) {
	if e.enabled != nil {
		config.Enabled = *e.enabled
	}
	if e.autoRetry != nil {
		config.AutoRetry = *e.autoRetry
	}
	if e.adminUsers != nil {
		config.AdminUsers = e.adminUsers
	}
}

// UsesApp reports whether GitHub App credentials were supplied
func (e *Environment) UsesApp() bool {
	return e.AppID != "" && e.PrivateKey != ""
}

// OwnerRepo splits GITHUB_REPOSITORY into owner and name
func (e *Environment) OwnerRepo() (string, string, error) {
	return SplitRepository(e.Repository)
}

// SplitRepository splits an owner/repo string
func SplitRepository(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", fullName)
	}
	return owner, repo, nil
}

// boolOverride returns nil when the variable is unset and rejects values that
// are not booleans
func boolOverride(v *viper.Viper, key string) (*bool, error) {
	if !v.IsSet(key) {
		return nil, nil
	}
	value, err := cast.ToBoolE(v.GetString(key))
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false, got %q", envBindings[key], v.GetString(key))
	}
	return &value, nil
}

func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
