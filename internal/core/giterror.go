package core

import (
	"errors"
	"fmt"
	"strings"
)

// GitErrorKind classifies why a git operation failed.
type GitErrorKind int

const (
	// GitErrUnknown is an unclassified failure.
	GitErrUnknown GitErrorKind = iota
	// GitErrAuth means authentication failed (credentials missing or invalid).
	GitErrAuth
	// GitErrRepoNotFound means the repository URL is wrong or access is denied.
	GitErrRepoNotFound
	// GitErrNetwork means the host could not be reached.
	GitErrNetwork
	// GitErrSSHKey means the SSH key was rejected or not found.
	GitErrSSHKey
	// GitErrHostKey means SSH host key verification failed.
	GitErrHostKey
	// GitErrTimeout means the operation timed out.
	GitErrTimeout
)

// String returns a human-readable label for the error kind.
func (k GitErrorKind) String() string {
	switch k {
	case GitErrAuth:
		return "Authentication Required"
	case GitErrRepoNotFound:
		return "Repository Not Found"
	case GitErrNetwork:
		return "Network Error"
	case GitErrSSHKey:
		return "SSH Key Error"
	case GitErrHostKey:
		return "SSH Host Key Error"
	case GitErrTimeout:
		return "Timeout"
	default:
		return "Unknown Error"
	}
}

// GitError is a structured error for a failed git operation. It wraps
// the raw git output with classification and actionable hints.
type GitError struct {
	Kind      GitErrorKind
	Protocol  string // "https" or "ssh"
	URL       string
	Command   string // The git command that was run (for display)
	RawOutput string
	Hints     []string
}

// Error implements the error interface.
func (e *GitError) Error() string {
	return fmt.Sprintf("git operation failed (%s): %s", e.Kind, e.firstLine())
}

// firstLine returns the first informative line of raw output.
func (e *GitError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	if e.RawOutput != "" {
		return strings.TrimSpace(e.RawOutput)
	}
	return "operation failed"
}

// GitErrorHints returns the remediation hints when err wraps a
// GitError, or nil.
func GitErrorHints(err error) []string {
	var ge *GitError
	if errors.As(err, &ge) {
		return ge.Hints
	}
	return nil
}

// ClassifyGitError examines git output and returns a structured
// GitError.
func ClassifyGitError(url, command, rawOutput string) *GitError {
	protocol := detectProtocol(url)
	kind := classifyGitOutput(rawOutput)

	return &GitError{
		Kind:      kind,
		Protocol:  protocol,
		URL:       url,
		Command:   command,
		RawOutput: strings.TrimSpace(rawOutput),
		Hints:     hintsForGitError(kind, protocol),
	}
}

// detectProtocol returns "ssh" or "https" based on the URL format.
func detectProtocol(url string) string {
	if strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://") {
		return "ssh"
	}
	return "https"
}

// classifyGitOutput pattern-matches git stderr to determine the kind.
func classifyGitOutput(output string) GitErrorKind {
	lower := strings.ToLower(output)

	// Timeout (set by us, not git), checked first.
	if strings.Contains(lower, "timed out") {
		return GitErrTimeout
	}

	if strings.Contains(lower, "permission denied (publickey)") ||
		strings.Contains(lower, "no such identity") ||
		strings.Contains(lower, "load key") {
		return GitErrSSHKey
	}

	if strings.Contains(lower, "host key verification failed") ||
		strings.Contains(lower, "known_hosts") {
		return GitErrHostKey
	}

	if strings.Contains(lower, "could not read username") ||
		strings.Contains(lower, "could not read password") ||
		strings.Contains(lower, "invalid credentials") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "401") ||
		strings.Contains(lower, "403") {
		return GitErrAuth
	}

	if strings.Contains(lower, "repository not found") ||
		strings.Contains(lower, "does not appear to be a git repository") ||
		strings.Contains(lower, "not found") {
		return GitErrRepoNotFound
	}

	if strings.Contains(lower, "could not resolve host") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection timed out") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "no route to host") ||
		strings.Contains(lower, "name or service not known") {
		return GitErrNetwork
	}

	return GitErrUnknown
}

// hintsForGitError returns actionable suggestions for the error kind.
func hintsForGitError(kind GitErrorKind, protocol string) []string {
	switch kind {
	case GitErrAuth:
		return []string{
			"Run `gh auth login` to authenticate with GitHub",
			"Or configure a git credential helper: `git config --global credential.helper store`",
		}
	case GitErrSSHKey:
		return []string{
			"Ensure your SSH key is loaded: `ssh-add -l`",
			"If no keys are listed, add one: `ssh-add ~/.ssh/id_ed25519`",
		}
	case GitErrHostKey:
		return []string{
			"Connect once manually: `ssh -T git@github.com` and accept the host key",
		}
	case GitErrRepoNotFound:
		return []string{
			"Verify your network can reach github.com",
			"Ensure you have access to the catalog repository",
		}
	case GitErrNetwork:
		return []string{
			"Check your internet connection",
			"If behind a proxy, ensure git is configured to use it",
		}
	case GitErrTimeout:
		return []string{
			"This may indicate a network issue; try again",
		}
	default:
		return []string{
			"Check the error output above for details",
			"Try the printed git command manually to diagnose the issue",
		}
	}
}
