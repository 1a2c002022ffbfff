package cli

import (
	"fmt"

	"github.com/arthur-debert/dotty/pkg/style"
	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [profile name]",
		Short: MsgProfileShort,
		Long:  MsgProfileLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.RenderCurrentProfile(c.Store.CurrentProfile()))
				return nil
			}
			return c.SwitchProfile(cmd.Context(), args[0])
		},
	}
}

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: MsgProfilesShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.RenderProfiles(c.ProfileNames(), c.Store.CurrentProfile()))
			return nil
		},
	}
}

func newCreateProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create_profile <profile name>",
		Short: MsgCreateProfileShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			return c.CreateProfile(args[0])
		},
	}
}

func newRemoveProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove_profile <profile name>",
		Short: MsgRemoveProfileShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.context(cmd)
			if err != nil {
				return err
			}
			return c.RemoveProfile(args[0])
		},
	}
}
