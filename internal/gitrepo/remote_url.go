package gitrepo

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	schemeSeparatorConstant             = "://"
	scpUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
)

// RemoteProtocol enumerates recognised git remote transports.
type RemoteProtocol string

// Recognised remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
	RemoteProtocolGit   RemoteProtocol = RemoteProtocol("git")
	RemoteProtocolFile  RemoteProtocol = RemoteProtocol("file")
)

var schemeProtocols = map[string]RemoteProtocol{
	"ssh":     RemoteProtocolSSH,
	"git+ssh": RemoteProtocolSSH,
	"https":   RemoteProtocolHTTPS,
	"http":    RemoteProtocolHTTP,
	"git":     RemoteProtocolGit,
	"file":    RemoteProtocolFile,
}

// RemoteURL is the structured form of a remote URL.
// Owner holds every path segment before the repository name and may be empty.
type RemoteURL struct {
	Protocol   RemoteProtocol `yaml:"protocol" toml:"protocol"`
	Host       string         `yaml:"host,omitempty" toml:"host,omitempty"`
	Owner      string         `yaml:"owner,omitempty" toml:"owner,omitempty"`
	Repository string         `yaml:"repository" toml:"repository"`
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
// It accepts scheme URLs, scp-like "user@host:path" remotes and absolute local paths.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.Contains(trimmedRemote, schemeSeparatorConstant) {
		return parseSchemeRemote(trimmedRemote)
	}
	if strings.HasPrefix(trimmedRemote, pathSeparatorConstant) {
		return buildRemoteURL(RemoteProtocolFile, "", trimmedRemote, remote)
	}
	return parseSCPRemote(trimmedRemote)
}

func parseSchemeRemote(remote string) (RemoteURL, error) {
	parsedURL, parseError := url.Parse(remote)
	if parseError != nil {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	protocol, known := schemeProtocols[strings.ToLower(parsedURL.Scheme)]
	if !known {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: unknownProtocolMessageConstant}
	}
	if protocol != RemoteProtocolFile && len(parsedURL.Hostname()) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(protocol, parsedURL.Hostname(), parsedURL.Path, remote)
}

func parseSCPRemote(remote string) (RemoteURL, error) {
	pathSplitIndex := strings.Index(remote, scpPathDelimiterConstant)
	if pathSplitIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	hostPart := remote[:pathSplitIndex]
	if strings.Contains(hostPart, pathSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	if userSplitIndex := strings.LastIndex(hostPart, scpUserDelimiterConstant); userSplitIndex >= 0 {
		hostPart = hostPart[userSplitIndex+1:]
	}
	if len(hostPart) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(RemoteProtocolSSH, hostPart, remote[pathSplitIndex+1:], remote)
}

func buildRemoteURL(protocol RemoteProtocol, host string, repositoryPath string, input string) (RemoteURL, error) {
	cleanedPath := strings.Trim(path.Clean(pathSeparatorConstant+repositoryPath), pathSeparatorConstant)
	repository := strings.TrimSuffix(path.Base(cleanedPath), gitSuffixConstant)
	if len(cleanedPath) == 0 || len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}

	owner := path.Dir(cleanedPath)
	if owner == "." {
		owner = ""
	}
	return RemoteURL{Protocol: protocol, Host: host, Owner: owner, Repository: repository}, nil
}
