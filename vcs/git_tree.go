package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const gitCommandTimeout = 10 * time.Second

// GetCommitTreeFiles returns all files that exist in a commit's tree as absolute paths
// rooted at the repository top level.
func GetCommitTreeFiles(repoPath, commitID string) ([]string, error) {
	if _, err := os.Stat(repoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("repository path does not exist: %s", repoPath)
	}

	repoRoot, err := GetRepositoryRoot(repoPath)
	if err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", repoPath, err)
	}

	if err := validateCommit(repoPath, commitID); err != nil {
		return nil, err
	}

	stdout, stderr, err := runGitCommand(repoPath, "ls-tree", "-r", "--name-only", commitID)
	if err != nil {
		return nil, gitCommandError(err, stderr)
	}

	var files []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, filepath.Join(repoRoot, filepath.FromSlash(line)))
		}
	}

	return files, nil
}

// GitCommitContentReader returns a ContentReader that reads file content as of commitID.
// Paths must be absolute and inside the repository.
func GitCommitContentReader(repoPath, commitID string) ContentReader {
	return func(filePath string) ([]byte, error) {
		repoRoot, err := GetRepositoryRoot(repoPath)
		if err != nil {
			return nil, err
		}

		relPath, err := filepath.Rel(repoRoot, filePath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return nil, fmt.Errorf("%s is outside repository %s", filePath, repoRoot)
		}

		stdout, stderr, err := runGitCommand(repoPath, "show", commitID+":"+filepath.ToSlash(relPath))
		if err != nil {
			if strings.Contains(stderr, "does not exist") || strings.Contains(stderr, "exists on disk, but not in") {
				return nil, fmt.Errorf("%s at %s: %w", relPath, commitID, os.ErrNotExist)
			}
			return nil, gitCommandError(err, stderr)
		}
		return stdout, nil
	}
}

// GetRepositoryRoot returns the absolute path to the repository root.
func GetRepositoryRoot(repoPath string) (string, error) {
	stdout, stderr, err := runGitCommand(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", gitCommandError(err, stderr)
	}

	root := strings.TrimSpace(string(stdout))
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return root, nil
}

func validateCommit(repoPath, commitID string) error {
	if commitID == "" || strings.HasPrefix(commitID, "-") {
		return fmt.Errorf("invalid commit reference %q", commitID)
	}

	_, stderr, err := runGitCommand(repoPath, "rev-parse", "--verify", "--quiet", commitID+"^{commit}")
	if err != nil {
		if stderr == "" {
			return fmt.Errorf("commit %s not found", commitID)
		}
		return gitCommandError(err, stderr)
	}
	return nil
}

func runGitCommand(repoPath string, args ...string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrText := strings.TrimSpace(stderr.String())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, stderrText, fmt.Errorf("git command timed out after %s", gitCommandTimeout)
		}
		return nil, stderrText, err
	}

	return stdout.Bytes(), strings.TrimSpace(stderr.String()), nil
}

func gitCommandError(err error, stderr string) error {
	if err == nil {
		return nil
	}
	if stderr != "" {
		return fmt.Errorf("git command failed: %s", stderr)
	}
	return err
}
