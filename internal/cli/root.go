// Package cli builds dotty's cobra command tree.
package cli

import (
	"github.com/arthur-debert/dotty/internal/version"
	"github.com/arthur-debert/dotty/pkg/core"
	"github.com/arthur-debert/dotty/pkg/logging"
	"github.com/arthur-debert/dotty/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the global flags and the lazily created Context of one
// invocation
type app struct {
	verbosity int
	root      string

	base core.Options
	ctx  *core.Context
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(core.Options{})
}

// newRootCmd builds the command tree on top of base, which lets tests
// replace the filesystem and git
func newRootCmd(base core.Options) *cobra.Command {
	a := &app{base: base}

	rootCmd := &cobra.Command{
		Use:     "dotty",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(
		&cobra.Group{ID: "repositories", Title: "Repository Commands:"},
		&cobra.Group{ID: "profiles", Title: "Profile Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newListCmd(a),
		newAddCmd(a),
		newCreateCmd(a),
		newRemoveCmd(a),
		newUpdateCmd(a),
		newBootstrapCmd(a),
		newImplodeCmd(a),
		newUpdateSubmodulesCmd(a),
		newExecuteCmd(a),
		newImportReposCmd(a),
		newTrackCmd(a),
		newTargetCmd(a),
	} {
		cmd.GroupID = "repositories"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newProfileCmd(a),
		newProfilesCmd(a),
		newCreateProfileCmd(a),
		newRemoveProfileCmd(a),
	} {
		cmd.GroupID = "profiles"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topics are embedded, so this only fails on a broken build
	if err := initHelpTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// context returns the invocation's Context, creating it on first use
func (a *app) context(cmd *cobra.Command) (*core.Context, error) {
	if a.ctx != nil {
		return a.ctx, nil
	}

	opts := a.base
	if a.root != "" {
		opts.Root = a.root
	}
	opts.Stdout = cmd.OutOrStdout()
	opts.Stderr = cmd.ErrOrStderr()

	c, err := core.New(opts)
	if err != nil {
		return nil, err
	}
	style.ConfigureColor(c.Config.Output.Color)

	a.ctx = c
	return c, nil
}
