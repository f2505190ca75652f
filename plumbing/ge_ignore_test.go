package plumbing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brickster241/gels/utils/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnoreLine(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
		want ignoreRule
	}{
		{"", false, ignoreRule{}},
		{"# comment", false, ignoreRule{}},
		{"*.log", true, ignoreRule{pattern: "*.log"}},
		{"!keep.log", true, ignoreRule{pattern: "keep.log", negate: true}},
		{"build/", true, ignoreRule{pattern: "build", dirOnly: true}},
		{"/root.txt", true, ignoreRule{pattern: "root.txt", anchored: true}},
		{"docs/*.md", true, ignoreRule{pattern: "docs/*.md", anchored: true}},
		{`\#hash`, true, ignoreRule{pattern: "#hash"}},
		{"trailing   ", true, ignoreRule{pattern: "trailing"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rule, ok := parseIgnoreLine(tt.line, "")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, rule)
		})
	}
}

func TestIgnoreMatcher(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, constants.GitDirName)
	require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "info"), constants.DefaultDirPerm))

	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), constants.DefaultDirPerm))
		require.NoError(t, os.WriteFile(full, []byte(content), constants.DefaultFilePerm))
	}
	write(".git/info/exclude", "*.swp\n")
	write(".gitignore", "*.log\n!keep.log\nbuild/\n/top.txt\ndocs/**/*.tmp\n")
	write("sub/.gitignore", "local.txt\n!important.log\n")

	m := NewIgnoreMatcher(root, gitDir)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"a.log", false, true},
		{"keep.log", false, false},
		{"deep/nested/a.log", false, true},
		{"file.swp", false, true},
		{"build", true, true},
		{"build", false, false},
		{"build/out.o", false, true},
		{"top.txt", false, true},
		{"sub/top.txt", false, false},
		{"docs/a/b/c.tmp", false, true},
		{"docs/c.tmp", false, true},
		{"other/c.tmp", false, false},
		{"sub/local.txt", false, true},
		{"local.txt", false, false},
		{"sub/important.log", false, false},
		{"sub/other.log", false, true},
		{"main.go", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Ignored(tt.path, tt.isDir))
		})
	}
}
