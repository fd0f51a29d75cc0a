package gitrepo

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	defaultRemoteNameConstant           = "origin"
	notRepositoryMessageConstant        = "not a git repository"
	outsideWorktreeMessageConstant      = "directory outside worktree"
	remoteNotFoundMessageConstant       = "remote not configured"
	openFailureTemplateConstant         = "%w: %s"
	remoteNotFoundTemplateConstant      = "%w: %s"
	headReadFailureTemplateConstant     = "reading HEAD of %s: %w"
	statusReadFailureTemplateConstant   = "reading worktree status of %s: %w"
	worktreeOpenFailureTemplateConstant = "opening worktree of %s: %w"
	remoteReadFailureTemplateConstant   = "reading remotes of %s: %w"
	relativePathFailureTemplateConstant = "resolving %s within %s: %w"
	parentDirectoryPrefixConstant       = ".."
)

// ErrNotRepository indicates the inspected path is not inside a git working tree.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// ErrOutsideWorktree indicates a directory that does not belong to the inspected working tree.
var ErrOutsideWorktree = errors.New(outsideWorktreeMessageConstant)

// ErrRemoteNotFound indicates the requested push remote is not configured in the repository.
var ErrRemoteNotFound = errors.New(remoteNotFoundMessageConstant)

// RepositoryState describes the repository holding the project.
type RepositoryState struct {
	WorktreeRoot string
	BranchName   string
	HeadHash     string
	RemoteName   string
	RemoteURL    string
	Remote       RemoteLocation
}

// Inspector reads repository state through go-git without invoking the git binary.
type Inspector struct{}

// NewInspector constructs an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect opens the repository containing path and reports its branch, HEAD, and push remote.
// When remoteName is empty the origin remote is reported, falling back to the first configured remote.
// An unborn branch reports an empty HeadHash.
func (inspector *Inspector) Inspect(path string, remoteName string) (RepositoryState, error) {
	repository, worktreeRoot, openError := openRepository(path)
	if openError != nil {
		return RepositoryState{}, openError
	}

	state := RepositoryState{WorktreeRoot: worktreeRoot}

	headReference, headReferenceError := repository.Reference(plumbing.HEAD, false)
	if headReferenceError != nil {
		return RepositoryState{}, fmt.Errorf(headReadFailureTemplateConstant, worktreeRoot, headReferenceError)
	}
	if headReference.Type() == plumbing.SymbolicReference {
		state.BranchName = headReference.Target().Short()
	}

	resolvedHead, resolveError := repository.Head()
	switch {
	case resolveError == nil:
		state.HeadHash = resolvedHead.Hash().String()
	case errors.Is(resolveError, plumbing.ErrReferenceNotFound):
	default:
		return RepositoryState{}, fmt.Errorf(headReadFailureTemplateConstant, worktreeRoot, resolveError)
	}

	if remoteError := inspector.describeRemote(repository, worktreeRoot, strings.TrimSpace(remoteName), &state); remoteError != nil {
		return RepositoryState{}, remoteError
	}
	return state, nil
}

// HeadHash reports the commit HEAD points at, or an empty string for an unborn branch.
func (inspector *Inspector) HeadHash(path string) (string, error) {
	repository, worktreeRoot, openError := openRepository(path)
	if openError != nil {
		return "", openError
	}
	headReference, headError := repository.Head()
	if errors.Is(headError, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if headError != nil {
		return "", fmt.Errorf(headReadFailureTemplateConstant, worktreeRoot, headError)
	}
	return headReference.Hash().String(), nil
}

// HasPendingChanges reports whether any staged, modified, deleted, or untracked entry lies beneath subdirectory.
func (inspector *Inspector) HasPendingChanges(path string, subdirectory string) (bool, error) {
	repository, worktreeRoot, openError := openRepository(path)
	if openError != nil {
		return false, openError
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return false, fmt.Errorf(worktreeOpenFailureTemplateConstant, worktreeRoot, worktreeError)
	}
	status, statusError := worktree.Status()
	if statusError != nil {
		return false, fmt.Errorf(statusReadFailureTemplateConstant, worktreeRoot, statusError)
	}

	relativeSubdirectory, relativeError := filepath.Rel(worktreeRoot, subdirectory)
	if relativeError != nil {
		return false, fmt.Errorf(relativePathFailureTemplateConstant, subdirectory, worktreeRoot, relativeError)
	}
	if relativeSubdirectory == parentDirectoryPrefixConstant || strings.HasPrefix(relativeSubdirectory, parentDirectoryPrefixConstant+string(filepath.Separator)) {
		return false, fmt.Errorf(relativePathFailureTemplateConstant, subdirectory, worktreeRoot, ErrOutsideWorktree)
	}
	prefix := filepath.ToSlash(relativeSubdirectory)

	for filePath, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		if prefix == "." || filePath == prefix || strings.HasPrefix(filePath, prefix+"/") {
			return true, nil
		}
	}
	return false, nil
}

func (inspector *Inspector) describeRemote(repository *git.Repository, worktreeRoot string, requestedRemote string, state *RepositoryState) error {
	remotes, remotesError := repository.Remotes()
	if remotesError != nil {
		return fmt.Errorf(remoteReadFailureTemplateConstant, worktreeRoot, remotesError)
	}

	remoteURLs := make(map[string]string, len(remotes))
	remoteNames := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		configuration := remote.Config()
		if len(configuration.URLs) == 0 {
			continue
		}
		remoteURLs[configuration.Name] = configuration.URLs[0]
		remoteNames = append(remoteNames, configuration.Name)
	}
	sort.Strings(remoteNames)

	selectedRemote := requestedRemote
	if len(selectedRemote) == 0 {
		if _, hasOrigin := remoteURLs[defaultRemoteNameConstant]; hasOrigin {
			selectedRemote = defaultRemoteNameConstant
		} else if len(remoteNames) > 0 {
			selectedRemote = remoteNames[0]
		} else {
			return nil
		}
	}

	remoteURL, exists := remoteURLs[selectedRemote]
	if !exists {
		return fmt.Errorf(remoteNotFoundTemplateConstant, ErrRemoteNotFound, selectedRemote)
	}

	state.RemoteName = selectedRemote
	state.RemoteURL = remoteURL
	if location, parseError := ParseRemoteLocation(remoteURL); parseError == nil {
		state.Remote = location
	}
	return nil
}

func openRepository(path string) (*git.Repository, string, error) {
	repository, openError := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(openError, git.ErrRepositoryNotExists) {
		return nil, "", fmt.Errorf(openFailureTemplateConstant, ErrNotRepository, path)
	}
	if openError != nil {
		return nil, "", openError
	}

	worktree, worktreeError := repository.Worktree()
	if errors.Is(worktreeError, git.ErrIsBareRepository) {
		return nil, "", fmt.Errorf(openFailureTemplateConstant, ErrNotRepository, path)
	}
	if worktreeError != nil {
		return nil, "", fmt.Errorf(worktreeOpenFailureTemplateConstant, path, worktreeError)
	}
	return repository, worktree.Filesystem.Root(), nil
}
