package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const gitCommandTimeout = 60 * time.Second

// sparsePatternFile is the working copy's persisted pattern list,
// relative to the repository root. This file is the durable state
// store for an installation: one pattern per line.
const sparsePatternFile = ".git/info/sparse-checkout"

// GitRunner is a thin driver over the git binary for partial working
// copies: materialize a new one scoped to a pattern set, rewrite the
// pattern set of an existing one, and query upstream state.
type GitRunner struct {
	timeout time.Duration
}

// NewGitRunner creates a GitRunner with the default command timeout.
func NewGitRunner() *GitRunner {
	return &GitRunner{timeout: gitCommandTimeout}
}

// Available reports whether the git binary can be found.
func (g *GitRunner) Available() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is not installed or not on PATH")
	}
	return nil
}

// IsRepo reports whether dir contains version-control metadata.
func (g *GitRunner) IsRepo(dir string) bool {
	return dirExists(filepath.Join(dir, ".git"))
}

// run executes git with the given args, returning combined output.
func (g *GitRunner) run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return string(out), fmt.Errorf("git %s timed out after %s", args[0], g.timeout)
		}
		return string(out), err
	}
	return string(out), nil
}

// CloneNoCheckout establishes a new working copy at dir with history
// but no file contents: blobs are filtered out and nothing is checked
// out, so bandwidth scales with the selection, not the catalog.
func (g *GitRunner) CloneNoCheckout(ctx context.Context, url, dir string) error {
	args := []string{"clone", "--filter=blob:none", "--no-checkout", "--depth", "1", url, dir}
	if out, err := g.run(ctx, "", args...); err != nil {
		return ClassifyGitError(url, "git "+strings.Join(args, " "), out)
	}
	return nil
}

// Init initializes an empty repository in dir without touching any
// pre-existing files.
func (g *GitRunner) Init(ctx context.Context, dir string) error {
	if out, err := g.run(ctx, "", "init", dir); err != nil {
		return fmt.Errorf("git init failed: %s", firstOutputLine(out, err))
	}
	return nil
}

// AddOrigin points the repository at its upstream.
func (g *GitRunner) AddOrigin(ctx context.Context, dir, url string) error {
	if out, err := g.run(ctx, dir, "remote", "add", "origin", url); err != nil {
		return fmt.Errorf("git remote add failed: %s", firstOutputLine(out, err))
	}
	return nil
}

// FetchBranch fetches one upstream branch without file contents.
func (g *GitRunner) FetchBranch(ctx context.Context, dir, branch string) error {
	args := []string{"fetch", "--filter=blob:none", "--depth", "1", "origin", branch}
	if out, err := g.run(ctx, dir, args...); err != nil {
		return ClassifyGitError(g.RemoteURL(dir), "git "+strings.Join(args, " "), out)
	}
	return nil
}

// Fetch updates remote-tracking refs without touching the working
// tree.
func (g *GitRunner) Fetch(ctx context.Context, dir string) error {
	if out, err := g.run(ctx, dir, "fetch", "origin"); err != nil {
		return ClassifyGitError(g.RemoteURL(dir), "git fetch origin", out)
	}
	return nil
}

// Pull fast-forwards the current branch from upstream.
func (g *GitRunner) Pull(ctx context.Context, dir string) error {
	if out, err := g.run(ctx, dir, "pull", "--ff-only"); err != nil {
		return ClassifyGitError(g.RemoteURL(dir), "git pull --ff-only", out)
	}
	return nil
}

// DefaultBranch resolves the upstream's default branch by asking the
// remote where its HEAD points.
func (g *GitRunner) DefaultBranch(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "ls-remote", "--symref", "origin", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving default branch: %s", firstOutputLine(out, err))
	}
	// First line: "ref: refs/heads/main\tHEAD"
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "ref:") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				return strings.TrimPrefix(fields[1], "refs/heads/"), nil
			}
		}
	}
	return "", fmt.Errorf("remote did not advertise a default branch")
}

// CurrentBranch returns the checked-out branch name. A detached HEAD
// is an error: there is no upstream counterpart to compare against.
func (g *GitRunner) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving current branch: %s", firstOutputLine(out, err))
	}
	branch := strings.TrimSpace(out)
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("not on a branch")
	}
	return branch, nil
}

// SparseSet replaces the persisted pattern list with exactly the given
// patterns and reconciles the working tree to match, in one step.
func (g *GitRunner) SparseSet(ctx context.Context, dir string, patterns []string) error {
	args := append([]string{"sparse-checkout", "set", "--no-cone"}, patterns...)
	if out, err := g.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("configuring sparse checkout: %s", firstOutputLine(out, err))
	}
	return nil
}

// SparseReapply re-applies the persisted pattern list to the working
// tree.
func (g *GitRunner) SparseReapply(ctx context.Context, dir string) error {
	if out, err := g.run(ctx, dir, "sparse-checkout", "reapply"); err != nil {
		return fmt.Errorf("reapplying sparse checkout: %s", firstOutputLine(out, err))
	}
	return nil
}

// SparsePatterns reads the persisted pattern list. This is a plain
// file read: no git invocation, no network.
func (g *GitRunner) SparsePatterns(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(sparsePatternFile)))
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

// Checkout materializes the working tree for the current HEAD,
// honoring the sparse pattern list.
func (g *GitRunner) Checkout(ctx context.Context, dir string) error {
	if out, err := g.run(ctx, dir, "checkout"); err != nil {
		return fmt.Errorf("checkout failed: %s", firstOutputLine(out, err))
	}
	return nil
}

// CheckoutBranchForce force-checks-out the given upstream branch,
// creating or resetting the local branch to its remote counterpart.
// Pre-existing untracked files outside the sparse scope are left
// alone; collisions inside it are overwritten.
func (g *GitRunner) CheckoutBranchForce(ctx context.Context, dir, branch string) error {
	args := []string{"checkout", "-f", "-B", branch, "origin/" + branch}
	if out, err := g.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("checkout failed: %s", firstOutputLine(out, err))
	}
	return nil
}

// DiffAgainstUpstream reports whether the given path differs between
// local HEAD and the remote counterpart of branch.
func (g *GitRunner) DiffAgainstUpstream(ctx context.Context, dir, branch, path string) (bool, error) {
	out, err := g.run(ctx, dir, "diff", "--name-only", "HEAD", "origin/"+branch, "--", path)
	if err != nil {
		return false, fmt.Errorf("diffing %s: %s", path, firstOutputLine(out, err))
	}
	return strings.TrimSpace(out) != "", nil
}

// RemoteURL reads the origin remote URL, or "" if none is configured.
func (g *GitRunner) RemoteURL(dir string) string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// firstOutputLine condenses command output and the exec error into a
// single displayable line.
func firstOutputLine(out string, err error) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return err.Error()
}
