// Package gitrepo inspects the git repository that holds a documentation
// project: the checked out branch, the HEAD commit, the remote that receives
// pushes, and whether generated files changed.
package gitrepo
