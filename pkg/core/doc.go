// Package core wires dotty's components into a per-invocation Context and
// implements the command-level flows on top of them.
//
// A Context is created once per CLI invocation. It owns the only copies of
// the active profile name and the cached repository list, and clears both
// whenever the active profile changes, so nothing computed for one profile
// is reused for another.
//
// # Profile switching
//
// Switching profiles is the one flow that spans two profiles:
//
//  1. the requested name is lowercased and must exist
//  2. every repository of the current profile is imploded
//  3. the repository cache is dropped and the new profile is made active
//     and persisted
//  4. every repository of the new profile is bootstrapped
package core
