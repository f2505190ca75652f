// Package gittest builds throwaway git repositories for tests, written through the plumbing writers so no git binary is needed.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brickster241/gels/plumbing"
	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
	"github.com/stretchr/testify/require"
)

// Author signs every fixture commit.
var Author = types.Author{Name: "Gels Test", Email: "test@example.com"}

// Repo is a fixture repository rooted at Root.
type Repo struct {
	t      testing.TB
	Root   string
	GitDir string
}

// Init creates an empty repository in dir, creating dir when needed. HEAD points at an unborn master branch.
func Init(t testing.TB, dir string) *Repo {
	t.Helper()

	for _, p := range constants.Dir_paths {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, p), constants.DefaultDirPerm))
	}
	gitDir := filepath.Join(dir, constants.GitDirName)
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(constants.Head), constants.DefaultFilePerm))

	root, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return &Repo{t: t, Root: root, GitDir: filepath.Join(root, constants.GitDirName)}
}

// Path returns the absolute path of a slash-separated repository path.
func (r *Repo) Path(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (r *Repo) WriteFile(rel, content string) {
	r.t.Helper()

	full := r.Path(rel)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), constants.DefaultDirPerm))
	require.NoError(r.t, os.WriteFile(full, []byte(content), constants.DefaultFilePerm))
}

// Symlink creates a symlink at rel pointing to target.
func (r *Repo) Symlink(target, rel string) {
	r.t.Helper()

	full := r.Path(rel)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), constants.DefaultDirPerm))
	require.NoError(r.t, os.Symlink(target, full))
}

// Remove deletes rel from the working tree.
func (r *Repo) Remove(rel string) {
	r.t.Helper()
	require.NoError(r.t, os.RemoveAll(r.Path(rel)))
}

// Add stages the current content of each path, like git add.
func (r *Repo) Add(rels ...string) {
	r.t.Helper()

	entries := r.index()
	for _, rel := range rels {
		full := r.Path(rel)

		info, err := os.Lstat(full)
		require.NoError(r.t, err)

		// Symlinks store their target as the blob content
		var content []byte
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(full)
			require.NoError(r.t, err)
			content = []byte(target)
		} else {
			content, err = os.ReadFile(full)
			require.NoError(r.t, err)
		}

		sha, err := plumbing.WriteObject(r.GitDir, types.BlobObject, content)
		require.NoError(r.t, err)

		entry, err := plumbing.GetIndexEntryFromStat(full, rel, sha)
		require.NoError(r.t, err)

		entries = append(dropPath(entries, rel), entry)
	}
	r.writeIndex(entries)
}

// Unstage removes rel from the index, like git rm --cached.
func (r *Repo) Unstage(rel string) {
	r.t.Helper()
	r.writeIndex(dropPath(r.index(), rel))
}

// Conflict records an unresolved merge of rel: the base, ours and theirs versions at stages 1 to 3.
func (r *Repo) Conflict(rel, base, ours, theirs string) {
	r.t.Helper()

	entries := dropPath(r.index(), rel)
	for stage, content := range []string{base, ours, theirs} {
		sha, err := plumbing.WriteObject(r.GitDir, types.BlobObject, []byte(content))
		require.NoError(r.t, err)

		entries = append(entries, types.IndexEntry{
			Mode:     constants.ModeFile,
			FileSize: uint32(len(content)),
			SHA1:     sha,
			Flags:    uint16(stage+1) << 12,
			Filename: rel,
		})
	}
	r.writeIndex(entries)
}

// SparseExclude marks rel skip-worktree and removes it from the working tree, like a sparse checkout that leaves it out.
func (r *Repo) SparseExclude(rel string) {
	r.t.Helper()

	entries := r.index()
	found := false
	for i := range entries {
		if entries[i].Filename == rel {
			entries[i].ExtFlags |= types.IndexExtSkipWorktree
			found = true
		}
	}
	require.True(r.t, found, "%s is not in the index", rel)

	r.writeIndex(entries)
	r.Remove(rel)
}

// IntentToAdd records rel without content, like git add -N.
func (r *Repo) IntentToAdd(rel string) {
	r.t.Helper()

	sha, err := plumbing.WriteObject(r.GitDir, types.BlobObject, nil)
	require.NoError(r.t, err)

	entries := append(dropPath(r.index(), rel), types.IndexEntry{
		Mode:     constants.ModeFile,
		SHA1:     sha,
		ExtFlags: types.IndexExtIntentToAdd,
		Filename: rel,
	})
	r.writeIndex(entries)
}

// Commit writes the index as a tree and advances master to a new commit on top of HEAD.
func (r *Repo) Commit(message string) [20]byte {
	r.t.Helper()

	treeSHA, err := plumbing.WriteTree(r.GitDir, plumbing.BuildTreeFromIndex(r.index()))
	require.NoError(r.t, err)

	repo, err := plumbing.Open(r.Root)
	require.NoError(r.t, err)
	defer repo.Close()

	var parents [][20]byte
	head, ok, err := repo.HeadCommit()
	require.NoError(r.t, err)
	if ok {
		parents = append(parents, head)
	}

	sha, err := plumbing.WriteCommit(r.GitDir, treeSHA, parents, Author, message, time.Unix(1700000000, 0).UTC())
	require.NoError(r.t, err)
	require.NoError(r.t, plumbing.UpdateRef(r.GitDir, "refs/heads/master", sha))
	return sha
}

// CommitAll writes files, stages them and commits in one step.
func (r *Repo) CommitAll(files map[string]string, message string) [20]byte {
	r.t.Helper()

	rels := make([]string, 0, len(files))
	for rel, content := range files {
		r.WriteFile(rel, content)
		rels = append(rels, rel)
	}
	r.Add(rels...)
	return r.Commit(message)
}

func (r *Repo) index() []types.IndexEntry {
	r.t.Helper()

	entries, err := plumbing.LoadIndex(r.GitDir)
	require.NoError(r.t, err)
	return entries
}

func (r *Repo) writeIndex(entries []types.IndexEntry) {
	r.t.Helper()

	plumbing.SortIndex(entries)
	require.NoError(r.t, plumbing.WriteIndex(r.GitDir, entries))
}

func dropPath(entries []types.IndexEntry, rel string) []types.IndexEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Filename != rel {
			out = append(out, e)
		}
	}
	return out
}
