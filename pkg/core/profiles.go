package core

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
)

// ProfileNames lists the known profiles, or the default profile when none
// has been created yet
func (c *Context) ProfileNames() []string {
	names := c.Store.Names()
	if len(names) == 0 {
		return []string{c.Config.DefaultProfile}
	}
	return names
}

// CreateProfile adds an empty profile
func (c *Context) CreateProfile(name string) error {
	name = strings.ToLower(name)
	c.Reporter.Status(style.VerbCreate, "profile '"+name+"'")
	return c.Store.Create(name)
}

// RemoveProfile deletes a profile. Its clones are left on disk.
func (c *Context) RemoveProfile(name string) error {
	name = strings.ToLower(name)
	c.Reporter.Status(style.VerbRemove, "profile '"+name+"'")
	return c.Store.Remove(name)
}

// SwitchProfile implodes the current profile's repositories, activates
// name and bootstraps the repositories of the new profile
func (c *Context) SwitchProfile(ctx context.Context, name string) error {
	name = strings.ToLower(name)
	if _, err := c.Store.Find(name); err != nil {
		return err
	}

	c.Reporter.Status(style.VerbUpdate, "changing to profile '"+name+"'")
	c.logger.Info().
		Str("from", c.Store.CurrentProfile()).
		Str("to", name).
		Msg("Switching profile")

	if err := c.ForSpecifiedOrAll("", func(repo *repository.Repository) error {
		return c.Actions.Implode(ctx, repo)
	}); err != nil {
		return err
	}

	c.Registry.Invalidate()
	if err := c.Store.SetCurrent(name); err != nil {
		return err
	}
	if err := c.Store.Write(); err != nil {
		return err
	}

	return c.ForSpecifiedOrAll("", func(repo *repository.Repository) error {
		return c.Actions.Bootstrap(ctx, repo)
	})
}
