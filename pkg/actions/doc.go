// Package actions performs the side effects behind every repository
// command: cloning and creating repositories, installing and removing
// their symlinks, running repository hooks and maintaining submodules.
//
// Actions never touch the profile document. Callers decide which
// repositories to act on and persist state themselves; this package only
// talks to git, the filesystem and the user's terminal.
package actions
