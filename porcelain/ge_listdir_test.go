package porcelain_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/brickster241/gels/porcelain"
	"github.com/brickster241/gels/utils/gittest"
	"github.com/brickster241/gels/utils/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(settings types.Settings) (*porcelain.Builder, *recorder) {
	diag := &recorder{}
	return porcelain.NewBuilder(settings, plainFields{}, diag), diag
}

// project commits src/main.c, a.txt and b.txt, then edits src/main.c and a.txt.
func project(t *testing.T) *gittest.Repo {
	repo := gittest.Init(t, filepath.Join(t.TempDir(), "proj"))
	repo.CommitAll(map[string]string{
		"src/main.c": "int main(void) { return 0; }\n",
		"a.txt":      "a\n",
		"b.txt":      "b\n",
	}, "initial")

	repo.WriteFile("src/main.c", "int main(void) { return 1 + 1; }\n")
	repo.WriteFile("a.txt", "a changed\n")
	return repo
}

func TestListDirProject(t *testing.T) {
	repo := project(t)
	b, diag := newBuilder(types.Settings{DirsFirst: true})

	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)
	porcelain.SortEntries(entries, types.Settings{DirsFirst: true})

	assert.Equal(t, []string{"src", "a.txt", "b.txt"}, names(entries))
	assert.Empty(t, diag.lines)

	src := byName(entries, "src")
	assert.True(t, src.IsDir)
	assert.True(t, src.Status.IsDir())
	assert.True(t, src.Status.Has(types.FlagDirDirty))
	assert.False(t, src.Status.Has(types.FlagDirClean))
	assert.False(t, src.Status.Has(types.FlagRepoRoot))

	assert.True(t, byName(entries, "a.txt").Status.Has(types.FlagModified))
	assert.True(t, byName(entries, "b.txt").Status.Has(types.FlagUnchanged))
	assert.Equal(t, repo.Root+string(filepath.Separator), byName(entries, "b.txt").Directory)
}

func TestListDirHiddenPolicy(t *testing.T) {
	repo := project(t)

	b, _ := newBuilder(types.Settings{})
	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)
	assert.NotContains(t, names(entries), ".git")

	b, _ = newBuilder(types.Settings{ShowHidden: true})
	entries, err = b.ListDir(repo.Root)
	require.NoError(t, err)
	assert.Contains(t, names(entries), ".git")
	assert.NotContains(t, names(entries), ".")
	assert.NotContains(t, names(entries), "..")

	// The git directory aggregates nothing, so it reads as clean
	git := byName(entries, ".git")
	assert.True(t, git.Status.Has(types.FlagDirClean))
}

func TestListDirAggregatesSubdirectories(t *testing.T) {
	repo := gittest.Init(t, t.TempDir())

	files := map[string]string{"sub2/stable.txt": "stable\n"}
	for i := 0; i < 10; i++ {
		files[fmt.Sprintf("sub/f%d.txt", i)] = "v1\n"
	}
	repo.CommitAll(files, "initial")
	repo.WriteFile("sub/f7.txt", "v2 with more bytes\n")

	b, _ := newBuilder(types.Settings{})
	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)

	assert.True(t, byName(entries, "sub").Status.Has(types.FlagDirDirty))
	assert.True(t, byName(entries, "sub2").Status.Has(types.FlagDirClean))
}

func TestListDirUntrackedAndIgnored(t *testing.T) {
	repo := gittest.Init(t, t.TempDir())
	repo.CommitAll(map[string]string{
		".gitignore":   "*.log\n",
		"new/keep.txt": "keep\n",
		"logs/keep":    "keep\n",
	}, "initial")
	repo.WriteFile("new/fresh.txt", "fresh\n")
	repo.WriteFile("logs/debug.log", "noise\n")
	repo.WriteFile("notes.txt", "draft\n")
	repo.WriteFile("trace.log", "noise\n")

	b, _ := newBuilder(types.Settings{})
	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)

	assert.True(t, byName(entries, "new").Status.Has(types.FlagDirDirty))
	assert.True(t, byName(entries, "logs").Status.Has(types.FlagDirClean))
	assert.True(t, byName(entries, "notes.txt").Status.Has(types.FlagUntracked))
	assert.True(t, byName(entries, "trace.log").Status.Has(types.FlagIgnored))
}

func TestListDirDanglingLink(t *testing.T) {
	repo := project(t)
	repo.Symlink("missing-target", "dangling")

	b, diag := newBuilder(types.Settings{ResolveLinks: true})
	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)

	dangling := byName(entries, "dangling")
	assert.True(t, dangling.Broken)
	assert.Equal(t, types.FileTypeSymlink, dangling.Type)
	assert.False(t, dangling.Status.Present())
	assert.Contains(t, diag.String(), "cannot access 'dangling'")
}

func TestListDirDanglingLinkWithoutResolving(t *testing.T) {
	repo := project(t)
	repo.Symlink("missing-target", "dangling")

	b, diag := newBuilder(types.Settings{})
	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)

	dangling := byName(entries, "dangling")
	assert.False(t, dangling.Broken)
	assert.Equal(t, "missing-target", dangling.LinkTarget)
	assert.True(t, dangling.Status.Has(types.FlagUntracked))
	assert.Empty(t, diag.lines)
}

func TestListDirSymlinkStatusPath(t *testing.T) {
	repo := project(t)
	repo.Symlink("a.txt", "link-to-a")

	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "far.txt"), []byte("far\n"), 0o644))
	repo.Symlink(filepath.Join(outside, "far.txt"), "link-out")

	b, _ := newBuilder(types.Settings{ResolveLinks: true})
	entries, err := b.ListDir(repo.Root)
	require.NoError(t, err)

	// Resolved inside the tree: the target's status
	assert.True(t, byName(entries, "link-to-a").Status.Has(types.FlagModified))

	// Resolved outside the tree: the link's own status
	out := byName(entries, "link-out")
	assert.Equal(t, types.FileTypeRegular, out.Type)
	assert.True(t, out.Status.Has(types.FlagUntracked))
}

func TestListDirOutsideRepository(t *testing.T) {
	parent := t.TempDir()

	clean := gittest.Init(t, filepath.Join(parent, "clean"))
	clean.CommitAll(map[string]string{"README": "hi\n"}, "initial")

	dirty := gittest.Init(t, filepath.Join(parent, "dirty"))
	dirty.CommitAll(map[string]string{"README": "hi\n"}, "initial")
	dirty.WriteFile("scratch", "wip\n")

	require.NoError(t, os.Mkdir(filepath.Join(parent, "plain"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "loose.txt"), []byte("x"), 0o644))

	b, diag := newBuilder(types.Settings{})
	entries, err := b.ListDir(parent)
	require.NoError(t, err)
	assert.Empty(t, diag.lines)

	cleanEntry := byName(entries, "clean")
	assert.True(t, cleanEntry.Status.Has(types.FlagRepoRoot))
	assert.True(t, cleanEntry.Status.Has(types.FlagDirClean))

	dirtyEntry := byName(entries, "dirty")
	assert.True(t, dirtyEntry.Status.Has(types.FlagRepoRoot|types.FlagDirDirty))

	assert.False(t, byName(entries, "plain").Status.Present())
	assert.False(t, byName(entries, "loose.txt").Status.Present())
}

func TestListDirBrokenRepository(t *testing.T) {
	parent := t.TempDir()
	broken := filepath.Join(parent, "broken")
	require.NoError(t, os.MkdirAll(filepath.Join(broken, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "file.txt"), []byte("x"), 0o644))

	t.Run("as a child", func(t *testing.T) {
		b, diag := newBuilder(types.Settings{})
		entries, err := b.ListDir(parent)
		require.NoError(t, err)

		assert.True(t, byName(entries, "broken").Status.Unknown())
		assert.Contains(t, diag.String(), types.ErrRepositoryOpenFailed.Error())
	})

	t.Run("listed directly", func(t *testing.T) {
		b, diag := newBuilder(types.Settings{})
		entries, err := b.ListDir(broken)
		require.NoError(t, err)

		assert.Equal(t, []string{"file.txt"}, names(entries))
		assert.True(t, entries[0].Status.Unknown())
		assert.Len(t, diag.lines, 1)
	})
}

func TestListDirMissing(t *testing.T) {
	b, _ := newBuilder(types.Settings{})
	_, err := b.ListDir(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBuildBareFile(t *testing.T) {
	repo := project(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(repo.Root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	b, diag := newBuilder(types.Settings{})
	entry, err := b.Build("", "a.txt")
	require.NoError(t, err)

	assert.Equal(t, "", entry.Directory)
	assert.Equal(t, "a.txt", entry.Path())
	assert.True(t, entry.Status.Has(types.FlagModified))
	assert.Equal(t, "a.txt", entry.Fields.Name)
	assert.Empty(t, diag.lines)
}

func TestBuildInsideGitDirectory(t *testing.T) {
	repo := project(t)

	b, _ := newBuilder(types.Settings{})
	entry, err := b.Build(repo.GitDir, "HEAD")
	require.NoError(t, err)
	assert.False(t, entry.Status.Present())
}
