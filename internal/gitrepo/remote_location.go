package gitrepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	sshProtocolPrefixConstant             = "ssh://"
	httpsProtocolPrefixConstant           = "https://"
	fileProtocolPrefixConstant            = "file://"
	sshUserDelimiterConstant              = "@"
	sshPathDelimiterConstant              = ":"
	pathSeparatorConstant                 = "/"
	gitSuffixConstant                     = ".git"
	remoteParseErrorTemplateConstant      = "%s: %s"
	remoteLocationRequiredMessageConstant = "remote location must be provided"
	remoteLocationInvalidMessageConstant  = "invalid remote location"
)

// RemoteProtocol enumerates the transports a push remote can use.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolFile  RemoteProtocol = RemoteProtocol("file")
)

// RemoteLocation is the structured form of a remote URL.
type RemoteLocation struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteLocationParseError indicates a remote URL could not be understood.
type RemoteLocationParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteLocationParseError) Error() string {
	return fmt.Sprintf(remoteParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteLocation converts a remote URL into its protocol, host, owner, and repository.
// Local paths are reported with the file protocol and the directory name as repository.
func ParseRemoteLocation(remote string) (RemoteLocation, error) {
	trimmedRemote := strings.TrimSpace(remote)
	switch {
	case len(trimmedRemote) == 0:
		return RemoteLocation{}, RemoteLocationParseError{Input: remote, Message: remoteLocationRequiredMessageConstant}
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHostedRemote(RemoteProtocolHTTPS, strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant), pathSeparatorConstant)
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseHostedRemote(RemoteProtocolSSH, stripUser(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant)), pathSeparatorConstant)
	case strings.HasPrefix(trimmedRemote, fileProtocolPrefixConstant):
		return localRemote(strings.TrimPrefix(trimmedRemote, fileProtocolPrefixConstant)), nil
	case filepath.IsAbs(trimmedRemote) || strings.HasPrefix(trimmedRemote, "."):
		return localRemote(trimmedRemote), nil
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant):
		return parseHostedRemote(RemoteProtocolSSH, stripUser(trimmedRemote), sshPathDelimiterConstant)
	default:
		return RemoteLocation{}, RemoteLocationParseError{Input: remote, Message: remoteLocationInvalidMessageConstant}
	}
}

// String renders the location as host/owner/repository, or the path for local remotes.
func (location RemoteLocation) String() string {
	if location.Protocol == RemoteProtocolFile {
		return location.Repository
	}
	return strings.Join([]string{location.Host, location.Owner, location.Repository}, pathSeparatorConstant)
}

func parseHostedRemote(protocol RemoteProtocol, hostAndPath string, hostDelimiter string) (RemoteLocation, error) {
	delimiterIndex := strings.Index(hostAndPath, hostDelimiter)
	if delimiterIndex <= 0 {
		return RemoteLocation{}, RemoteLocationParseError{Input: hostAndPath, Message: remoteLocationInvalidMessageConstant}
	}
	host := hostAndPath[:delimiterIndex]
	segments := strings.Split(strings.Trim(hostAndPath[delimiterIndex+1:], pathSeparatorConstant), pathSeparatorConstant)
	if len(segments) < 2 {
		return RemoteLocation{}, RemoteLocationParseError{Input: hostAndPath, Message: remoteLocationInvalidMessageConstant}
	}
	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	owner := strings.Join(segments[:len(segments)-1], pathSeparatorConstant)
	if len(repository) == 0 || len(owner) == 0 {
		return RemoteLocation{}, RemoteLocationParseError{Input: hostAndPath, Message: remoteLocationInvalidMessageConstant}
	}
	return RemoteLocation{Protocol: protocol, Host: host, Owner: owner, Repository: repository}, nil
}

func stripUser(remote string) string {
	if userIndex := strings.Index(remote, sshUserDelimiterConstant); userIndex >= 0 {
		return remote[userIndex+1:]
	}
	return remote
}

func localRemote(path string) RemoteLocation {
	return RemoteLocation{Protocol: RemoteProtocolFile, Repository: filepath.Clean(path)}
}
