package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/retry"
)

// Actor is the user who triggered an event
type Actor struct {
	Login        string
	IsAdmin      bool
	Permission   github.PermissionLevel
	IsAuthorized bool
}

// resolveActor decides whether login may run mutating commands. Bot admins
// always may; anyone else needs write access. A failed permission lookup
// counts as no access.
func (c *Controller) resolveActor(ctx context.Context, owner, repo, login string) Actor {
	actor := Actor{Login: login, Permission: github.PermissionNone}

	if c.isAdmin(login) {
		actor.IsAdmin = true
		actor.IsAuthorized = true
		return actor
	}

	err := retry.Do(ctx, c.settings.CallTimeout, func(callCtx context.Context) error {
		level, err := c.api.GetPermissionLevel(callCtx, owner, repo, login)
		if err != nil {
			return err
		}
		actor.Permission = level
		return nil
	})
	if err != nil {
		slog.Warn("Failed to look up permission, treating user as unauthorized", "user", login, "error", err)
		return actor
	}

	actor.IsAuthorized = actor.Permission.CanWrite()
	return actor
}

func (c *Controller) isAdmin(login string) bool {
	for _, admin := range c.settings.AdminUsers {
		if strings.EqualFold(admin, login) {
			return true
		}
	}
	return false
}
