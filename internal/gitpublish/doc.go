// Package gitpublish stages generated documentation, commits it, and pushes
// the commit to the configured remote.
package gitpublish
