// Package gitsource fetches card decks kept in git repositories.
package gitsource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsRemote reports whether source looks like a git URL rather than a local path.
func IsRemote(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "file://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// LocalPath maps a repository URL to a checkout directory under baseDir.
// https, scp-like ssh ("git@host:owner/repo.git"), file:// and plain
// filesystem paths are accepted. Repositories on the local filesystem are
// checked out under baseDir/local.
func LocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil {
		switch parsed.Scheme {
		case "https", "http":
			return filepath.Join(baseDir, parsed.Host, strings.TrimSuffix(parsed.Path, ".git")), nil
		case "file":
			return filepath.Join(baseDir, "local", strings.TrimSuffix(parsed.Path, ".git")), nil
		}
	}
	if filepath.IsAbs(repoURL) || strings.HasPrefix(repoURL, ".") {
		abs, err := filepath.Abs(repoURL)
		if err != nil {
			return "", fmt.Errorf("could not resolve repository path %s: %w", repoURL, err)
		}
		return filepath.Join(baseDir, "local", strings.TrimSuffix(abs, ".git")), nil
	}

	userHost, repoPath, found := strings.Cut(repoURL, ":")
	if !found {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	_, host, found := strings.Cut(userHost, "@")
	if !found || host == "" || repoPath == "" {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	return filepath.Join(baseDir, host, strings.TrimSuffix(repoPath, ".git")), nil
}

// Sync clones a git repository if it doesn't exist at the given path,
// or pulls the latest changes if it does. Progress output goes to progress,
// which may be nil.
func Sync(repoURL, localPath string, progress io.Writer) error {
	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("cloning repository", "url", repoURL, "path", localPath)
		_, err := git.PlainClone(localPath, false, &git.CloneOptions{
			URL:      repoURL,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
	case err == nil:
		slog.Info("pulling repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.Pull(&git.PullOptions{
			RemoteName: "origin",
			Progress:   progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}
