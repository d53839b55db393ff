package importer

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/eqflash/internal/cardstore"
	"github.com/conorfennell/eqflash/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// commitDeck writes a deck file into a worktree and commits it.
func commitDeck(t *testing.T, repo *git.Repository, dir, name, content string) {
	t.Helper()
	writeFile(t, dir, name, content)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Deck Author", Email: "decks@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestImportLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "algebra.md", "# Algebra\nE: 2x = 4\nS: x = 2\nD: easy\n\nE: x^2 = 9\nS: x = ±3\nD: hard\n")
	writeFile(t, dir, "nested/more.MD", "E: 2X = 4\nS: x = 2\n---\nE: 1/0\nS: undefined\nD: impossible\n")
	writeFile(t, dir, "notes.txt", "E: ignored\nS: not markdown\n")

	store := cardstore.New()
	_, err := store.Create(domain.CardFields{Equation: "x^2 = 9", Solution: "x = ±3"})
	require.NoError(t, err)

	im := &Importer{Logger: quietLogger()}
	report, err := im.Import(dir, store)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 4, report.Parsed)
	require.Len(t, report.Added, 1)
	assert.Equal(t, "2x = 4", report.Added[0].Equation)
	assert.Equal(t, domain.Easy, report.Added[0].Difficulty)
	assert.Equal(t, 2, report.Duplicates, "existing and repeated cards are skipped")
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], domain.ErrInvalidInput)

	assert.Len(t, store.List(domain.Filter{}), 2)
}

func TestImportMissingDirectory(t *testing.T) {
	im := &Importer{Logger: quietLogger()}
	_, err := im.Import(filepath.Join(t.TempDir(), "absent"), cardstore.New())
	assert.Error(t, err)
}

func TestImportGitRepository(t *testing.T) {
	origin := filepath.Join(t.TempDir(), "decks.git")
	repo, err := git.PlainInit(origin, false)
	require.NoError(t, err)
	commitDeck(t, repo, origin, "algebra.md", "E: 2x = 4\nS: x = 2\nD: easy\n---\nE: x^2 = 9\nS: x = ±3\n")

	store := cardstore.New()
	im := &Importer{ReposDir: t.TempDir(), Logger: quietLogger()}

	report, err := im.Import(origin, store)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files, "files under .git are not walked")
	assert.Len(t, report.Added, 2)
	assert.Empty(t, report.Errors)

	t.Run("re-import pulls and skips known cards", func(t *testing.T) {
		report, err := im.Import(origin, store)
		require.NoError(t, err)
		assert.Empty(t, report.Added)
		assert.Equal(t, 2, report.Duplicates)

		commitDeck(t, repo, origin, "calculus.md", "E: d/dx x^2\nS: 2x\nD: medium\n")
		report, err = im.Import(origin, store)
		require.NoError(t, err)
		require.Len(t, report.Added, 1)
		assert.Equal(t, "d/dx x^2", report.Added[0].Equation)
		assert.Equal(t, 2, report.Duplicates)
		assert.Len(t, store.List(domain.Filter{}), 3)
	})
}
