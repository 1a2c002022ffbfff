package cli

import (
	"fmt"

	"github.com/arthur-debert/dotty/pkg/actions"
	"github.com/arthur-debert/dotty/pkg/repository"
	"github.com/arthur-debert/dotty/pkg/style"
	"github.com/spf13/cobra"
)

// optionalName returns the first argument, or "" for all repositories
func optionalName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}

			lines, err := c.ListRepositories(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.RenderRepositoryList(c.Store.CurrentProfile(), lines))
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <git repo url>",
		Short: MsgAddShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			_, err = c.AddRepository(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <git repo url>",
		Short: MsgCreateShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			_, err = c.CreateRepository(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: MsgRemoveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			_, err = c.RemoveRepository(cmd.Context(), args[0])
			return err
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update [name]",
		Short: MsgUpdateShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			return c.ForSpecifiedOrAll(optionalName(args), func(repo *repository.Repository) error {
				return c.Actions.Update(cmd.Context(), repo)
			})
		},
	}
}

func newBootstrapCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "bootstrap [name]",
		Short:   MsgBootstrapShort,
		Long:    MsgBootstrapLong,
		Example: MsgBootstrapExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			act := c.Actions.WithForce(force)
			return c.ForSpecifiedOrAll(optionalName(args), func(repo *repository.Repository) error {
				return act.Bootstrap(cmd.Context(), repo)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func newImplodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "implode [name]",
		Short: MsgImplodeShort,
		Long:  MsgImplodeLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			return c.ForSpecifiedOrAll(optionalName(args), func(repo *repository.Repository) error {
				return c.Actions.Implode(cmd.Context(), repo)
			})
		},
	}
}

func newUpdateSubmodulesCmd(a *app) *cobra.Command {
	opts := actions.DefaultSubmoduleOptions()

	cmd := &cobra.Command{
		Use:   "update_submodules [name]",
		Short: MsgUpdateSubmodulesShort,
		Long:  MsgUpdateSubmodulesLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			return c.UpdateSubmodules(cmd.Context(), optionalName(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Push, "push", opts.Push, MsgFlagPush)
	cmd.Flags().BoolVar(&opts.Commit, "commit", opts.Commit, MsgFlagCommit)
	cmd.Flags().BoolVar(&opts.IgnoreDirty, "ignoredirty", opts.IgnoreDirty, MsgFlagIgnoreDirty)
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", MsgFlagMessage)
	return cmd
}

func newExecuteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "execute [name] <command>",
		Short:   MsgExecuteShort,
		Long:    MsgExecuteLong,
		Example: MsgExecuteExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}

			name, line := "", args[0]
			if len(args) == 2 {
				name, line = args[0], args[1]
			}
			return c.ForSpecifiedOrAll(name, func(repo *repository.Repository) error {
				if err := c.Actions.Execute(cmd.Context(), repo, line); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

func newImportReposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import_repos <yaml file location>",
		Short: MsgImportShort,
		Long:  MsgImportLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}

			result, err := c.ImportRepositories(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgImportedFormat, len(result.Added), len(result.Skipped))
			return nil
		},
	}
}

func newTrackCmd(a *app) *cobra.Command {
	var repoName string

	cmd := &cobra.Command{
		Use:     "track <file>",
		Short:   MsgTrackShort,
		Long:    MsgTrackLong,
		Example: MsgTrackExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}

			tracked, err := c.TrackFile(cmd.Context(), args[0], repoName)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgTrackedFormat,
				style.RenderPath("~/"+tracked.RelToHome), style.RenderPath(tracked.Source))
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoName, "repo", "r", "", MsgFlagRepo)
	return cmd
}

func newTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target [name]",
		Short: MsgTargetShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if err := c.SetTarget(args[0]); err != nil {
					return err
				}
			}

			target := c.Registry.CurrentTarget()
			if target == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.RenderNotice(MsgNoTarget))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgTargetFormat, style.RepositoryStyle.Render(target))
			return nil
		},
	}
}
