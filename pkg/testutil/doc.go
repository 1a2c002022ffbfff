// Package testutil provides utilities for testing dotty components.
//
// Key components:
//   - TestEnvironment: isolated HOME, dotty root and XDG directories, on
//     either an in-memory or a real temporary filesystem
//   - FileTree: declarative directory fixtures
//   - MockVCS: a testify mock of the git collaborator
//
// Usage guidelines:
//   - Use EnvMemoryOnly for pure path and document logic
//   - Use EnvIsolated whenever real symlinks are involved
//   - All test data should be defined inline, not in external files
package testutil
