package pathutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                = "~"
	tildeForwardSlashPrefixConstant    = "~/"
	projectRootRequiredMessageConstant = "project root must be provided"
)

// ErrProjectRootRequired indicates an empty project root.
var ErrProjectRootRequired = errors.New(projectRootRequiredMessageConstant)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// ProjectPathResolver normalizes the project root and the directories configured beneath it.
type ProjectPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewProjectPathResolver constructs a resolver using the operating system home lookup.
func NewProjectPathResolver() *ProjectPathResolver {
	return NewProjectPathResolverWithProvider(os.UserHomeDir)
}

// NewProjectPathResolverWithProvider constructs a resolver with a custom home directory provider.
func NewProjectPathResolverWithProvider(provider HomeDirectoryProvider) *ProjectPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &ProjectPathResolver{homeDirectoryProvider: provider}
}

// ResolveRoot trims the candidate, expands a leading tilde, and returns an absolute clean path.
func (resolver *ProjectPathResolver) ResolveRoot(candidateRoot string) (string, error) {
	trimmedRoot := strings.TrimSpace(candidateRoot)
	if len(trimmedRoot) == 0 {
		return "", ErrProjectRootRequired
	}

	absoluteRoot, absoluteError := filepath.Abs(resolver.expandHome(trimmedRoot))
	if absoluteError != nil {
		return "", absoluteError
	}
	return filepath.Clean(absoluteRoot), nil
}

// ResolveWithin joins a relative directory onto the project root; absolute directories are returned cleaned.
func ResolveWithin(projectRoot string, directory string) string {
	trimmedDirectory := strings.TrimSpace(directory)
	if filepath.IsAbs(trimmedDirectory) {
		return filepath.Clean(trimmedDirectory)
	}
	return filepath.Join(projectRoot, filepath.FromSlash(trimmedDirectory))
}

func (resolver *ProjectPathResolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeSymbolConstant+string(os.PathSeparator)):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeSymbolConstant+string(os.PathSeparator)))
	default:
		return candidatePath
	}
}

func (resolver *ProjectPathResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
