package gitsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitFile writes a file into the repository's worktree and commits it.
func commitFile(t *testing.T, repo *git.Repository, name, content string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wt.Filesystem.Root(), name), []byte(content), 0o644))
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Deck Author", Email: "decks@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name string
		url  string
		want string
	}{
		{"https", "https://github.com/acme/algebra-cards.git", filepath.Join("repos", "github.com", "acme", "algebra-cards")},
		{"https without suffix", "https://gitlab.com/acme/cards", filepath.Join("repos", "gitlab.com", "acme", "cards")},
		{"scp-like ssh", "git@github.com:acme/calc.git", filepath.Join("repos", "github.com", "acme", "calc")},
		{"file url", "file:///srv/decks.git", filepath.Join("repos", "local", "srv", "decks")},
		{"local path", "/srv/decks.git", filepath.Join("repos", "local", "srv", "decks")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := LocalPath("repos", "not a url")
	assert.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("git@github.com:acme/calc.git"))
	assert.True(t, IsRemote("https://github.com/acme/calc"))
	assert.True(t, IsRemote("/srv/decks.git"))
	assert.True(t, IsRemote("file:///srv/decks"))
	assert.False(t, IsRemote("./decks"))
}

func TestSyncFailsForMissingRemote(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkout")
	err := Sync(filepath.Join(t.TempDir(), "nope.git"), dir, nil)
	assert.Error(t, err)
}

func TestSyncClonesThenPulls(t *testing.T) {
	origin := filepath.Join(t.TempDir(), "decks.git")
	repo, err := git.PlainInit(origin, false)
	require.NoError(t, err)
	commitFile(t, repo, "algebra.md", "E: 2x = 4\nS: x = 2\n")

	checkout := filepath.Join(t.TempDir(), "checkout")
	require.NoError(t, Sync(origin, checkout, nil))
	got, err := os.ReadFile(filepath.Join(checkout, "algebra.md"))
	require.NoError(t, err)
	assert.Equal(t, "E: 2x = 4\nS: x = 2\n", string(got))

	// Nothing new upstream.
	require.NoError(t, Sync(origin, checkout, nil))

	commitFile(t, repo, "calculus.md", "E: d/dx x^2\nS: 2x\n")
	require.NoError(t, Sync(origin, checkout, nil))
	assert.FileExists(t, filepath.Join(checkout, "calculus.md"))
}
