// Package types defines the interfaces shared across dotty packages.
// The FS interface lets the profile store, the repository model and the
// repository actions run against the real filesystem or an in-memory one.
package types
