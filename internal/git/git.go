package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoBranch signals that no usable branch name exists for a path: the path
// is not inside a git working tree, HEAD is detached, or the query timed out.
// Callers treat this as a normal skip condition, not a failure.
var ErrNoBranch = errors.New("no current branch")

// Client defines the git operations ccname needs. All methods take a path
// parameter since the hook runs against whatever cwd the host reports.
type Client interface {
	CurrentBranch(ctx context.Context, path string) (string, error)
	RepoRoot(ctx context.Context, path string) (string, error)
}

// RealClient implements Client using real git commands.
type RealClient struct{}

// NewClient returns a new RealClient.
func NewClient() *RealClient {
	return &RealClient{}
}

func gitCmd(ctx context.Context, path string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.CommandContext(ctx, "git", fullArgs...).Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ctxErr)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the branch checked out at path. Any condition that
// leaves the path without a branch name maps to ErrNoBranch; the caller
// bounds the wait through ctx.
func (c *RealClient) CurrentBranch(ctx context.Context, path string) (string, error) {
	out, err := gitCmd(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoBranch, err)
	}
	// Detached HEAD reports the literal "HEAD" instead of a branch name.
	if out == "" || out == "HEAD" {
		return "", ErrNoBranch
	}
	return out, nil
}

// RepoRoot returns the top-level directory of the working tree containing path.
func (c *RealClient) RepoRoot(ctx context.Context, path string) (string, error) {
	return gitCmd(ctx, path, "rev-parse", "--show-toplevel")
}
