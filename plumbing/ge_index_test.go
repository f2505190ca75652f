package plumbing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRoundTrip(t *testing.T) {
	gitDir := t.TempDir()

	entries := []types.IndexEntry{
		{Mode: constants.ModeFile, FileSize: 5, SHA1: HashObject(types.BlobObject, []byte("hello")), Filename: "b.txt", Mtime: 1700000000, MtimeNs: 42},
		{Mode: constants.ModeExecutable, FileSize: 3, SHA1: HashObject(types.BlobObject, []byte("run")), Filename: "bin/run.sh"},
		{Mode: constants.ModeFile, SHA1: HashObject(types.BlobObject, []byte("ours")), Filename: "a.txt", Flags: 2 << 12},
		{Mode: constants.ModeFile, SHA1: HashObject(types.BlobObject, []byte("theirs")), Filename: "a.txt", Flags: 3 << 12},
	}
	SortIndex(entries)
	require.NoError(t, WriteIndex(gitDir, entries))

	loaded, err := LoadIndex(gitDir)
	require.NoError(t, err)
	require.Len(t, loaded, 4)

	assert.Equal(t, "a.txt", loaded[0].Filename)
	assert.Equal(t, 2, loaded[0].Stage())
	assert.Equal(t, 3, loaded[1].Stage())
	assert.Equal(t, "b.txt", loaded[2].Filename)
	assert.Equal(t, 0, loaded[2].Stage())
	assert.Equal(t, uint32(1700000000), loaded[2].Mtime)
	assert.Equal(t, uint32(42), loaded[2].MtimeNs)
	assert.Equal(t, entries[2].SHA1, loaded[2].SHA1)
	assert.Equal(t, uint32(constants.ModeExecutable), loaded[3].Mode)
	assert.Equal(t, "bin/run.sh", loaded[3].Filename)
}

func TestIndexExtendedFlagsRoundTrip(t *testing.T) {
	gitDir := t.TempDir()

	entries := []types.IndexEntry{
		{Mode: constants.ModeFile, SHA1: HashObject(types.BlobObject, []byte("a")), Filename: "a.txt"},
		{Mode: constants.ModeFile, SHA1: HashObject(types.BlobObject, []byte("b")), Filename: "sparse/b.txt", ExtFlags: types.IndexExtSkipWorktree},
		{Mode: constants.ModeFile, SHA1: HashObject(types.BlobObject, nil), Filename: "z.txt", ExtFlags: types.IndexExtIntentToAdd},
	}
	require.NoError(t, WriteIndex(gitDir, entries))

	data, err := os.ReadFile(filepath.Join(gitDir, "index"))
	require.NoError(t, err)
	assert.Equal(t, byte(3), data[7], "extended flags need a version 3 index")

	loaded, err := LoadIndex(gitDir)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	assert.False(t, loaded[0].SkipWorktree())
	assert.True(t, loaded[1].SkipWorktree())
	assert.Equal(t, "sparse/b.txt", loaded[1].Filename)
	assert.True(t, loaded[2].IntentToAdd())
	assert.Equal(t, "z.txt", loaded[2].Filename)
}

func TestLoadIndexMissingFile(t *testing.T) {
	entries, err := LoadIndex(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadIndexRejectsUnknownVersion(t *testing.T) {
	gitDir := t.TempDir()
	require.NoError(t, WriteIndex(gitDir, nil))

	path := filepath.Join(gitDir, "index")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[7] = 4
	require.NoError(t, os.WriteFile(path, data, constants.DefaultFilePerm))

	_, err = LoadIndex(gitDir)
	assert.ErrorContains(t, err, "unsupported index version")
}

func TestIndexModeOf(t *testing.T) {
	assert.Equal(t, uint32(constants.ModeFile), indexModeOf(0o100644))
	assert.Equal(t, uint32(constants.ModeExecutable), indexModeOf(0o100755))
	assert.Equal(t, uint32(constants.ModeSymlink), indexModeOf(0o120777))
}
