// Package registry manages the repositories of the active profile.
//
// The repository list is built lazily from the profile store and cached
// until Invalidate is called, which the store triggers whenever the active
// profile changes. The registry is also the store's Source: every write of
// the profiles document takes the repository list and current target from
// here.
package registry
