package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort             = "Manage dotfiles repositories and profiles"
	MsgListShort             = "List installed dotty repositories"
	MsgAddShort              = "Add existing dotty git repository"
	MsgCreateShort           = "Create a new git repository with the specified git repo url as origin"
	MsgRemoveShort           = "Remove dotty repository"
	MsgUpdateShort           = "Update specified or all dotty repositories"
	MsgBootstrapShort        = "Bootstrap specified or all dotty repositories"
	MsgImplodeShort          = "Opposite of bootstrap"
	MsgUpdateSubmodulesShort = "For specified or all repositories, update submodules and pull"
	MsgExecuteShort          = "For specified or all repositories, run given command"
	MsgImportShort           = "Import dotty repositories from a yaml file location (http works)"
	MsgProfileShort          = "Switch to given profile or show current profile"
	MsgProfilesShort         = "List profiles"
	MsgCreateProfileShort    = "Create a new profile"
	MsgRemoveProfileShort    = "Remove given profile"
	MsgTrackShort            = "Move a home directory file into a repository and link it"
	MsgTargetShort           = "Show or set the current target repository"
	MsgVersionShort          = "Print version information"
	MsgConfigShort           = "Print the effective configuration"
	MsgManShort              = "Generate man pages into a directory"
	MsgCompletionShort       = "Generate shell completion script"

	// Output
	MsgNoTarget         = "No current target repository"
	MsgTargetFormat     = "Current target: %s\n"
	MsgImportedFormat   = "Imported %d repositories, skipped %d\n"
	MsgTrackedFormat    = "Tracking %s as %s\n"
	MsgManWrittenFormat = "Man pages written to %s\n"

	// Version output
	MsgVersionFormat = "dotty version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrUnknownShell = "unknown shell: %s (supported: bash, zsh, fish, powershell)"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot        = "Directory holding profiles and clones (default ~/.dotty)"
	MsgFlagForce       = "Replace files that are in the way of a link"
	MsgFlagPush        = "Push after committing"
	MsgFlagCommit      = "Commit the updated submodules"
	MsgFlagIgnoreDirty = "Commit even when the working tree has other changes"
	MsgFlagMessage     = "Commit message for the submodule update"
	MsgFlagRepo        = "Repository to track the file in (default: current target)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/bootstrap-long.txt
	msgBootstrapLongRaw string
	MsgBootstrapLong    = strings.TrimSpace(msgBootstrapLongRaw)

	//go:embed msgs/bootstrap-example.txt
	msgBootstrapExampleRaw string
	MsgBootstrapExample    = strings.TrimRight(msgBootstrapExampleRaw, "\n")

	//go:embed msgs/implode-long.txt
	msgImplodeLongRaw string
	MsgImplodeLong    = strings.TrimSpace(msgImplodeLongRaw)

	//go:embed msgs/update-submodules-long.txt
	msgUpdateSubmodulesLongRaw string
	MsgUpdateSubmodulesLong    = strings.TrimSpace(msgUpdateSubmodulesLongRaw)

	//go:embed msgs/execute-long.txt
	msgExecuteLongRaw string
	MsgExecuteLong    = strings.TrimSpace(msgExecuteLongRaw)

	//go:embed msgs/execute-example.txt
	msgExecuteExampleRaw string
	MsgExecuteExample    = strings.TrimRight(msgExecuteExampleRaw, "\n")

	//go:embed msgs/import-long.txt
	msgImportLongRaw string
	MsgImportLong    = strings.TrimSpace(msgImportLongRaw)

	//go:embed msgs/profile-long.txt
	msgProfileLongRaw string
	MsgProfileLong    = strings.TrimSpace(msgProfileLongRaw)

	//go:embed msgs/track-long.txt
	msgTrackLongRaw string
	MsgTrackLong    = strings.TrimSpace(msgTrackLongRaw)

	//go:embed msgs/track-example.txt
	msgTrackExampleRaw string
	MsgTrackExample    = strings.TrimRight(msgTrackExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
