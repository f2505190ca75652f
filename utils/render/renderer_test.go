package render

import (
	"os"
	"strings"
	"testing"

	"github.com/brickster241/gels/utils/config"
	"github.com/brickster241/gels/utils/types"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func plain() *Renderer {
	return NewRenderer(types.Settings{}, config.DefaultConfig().Theme, LSColors{})
}

func TestGitSymbol(t *testing.T) {
	r := plain()

	tests := []struct {
		name   string
		status types.Status
		want   string
	}{
		{"absent", types.NoStatus(), ""},
		{"unknown", types.UnknownStatus(), "-"},
		{"unchanged", types.FileStatus(types.FlagUnchanged), " "},
		{"modified", types.FileStatus(types.FlagModified), "~"},
		{"staged and modified", types.FileStatus(types.FlagAdded | types.FlagModified), "~"},
		{"conflict wins", types.FileStatus(types.FlagConflicted | types.FlagModified), "X"},
		{"renamed", types.FileStatus(types.FlagRenamed), "R"},
		{"type change", types.FileStatus(types.FlagTypeChanged), "T"},
		{"added", types.FileStatus(types.FlagAdded), "+"},
		{"untracked", types.FileStatus(types.FlagUntracked), "?"},
		{"ignored", types.FileStatus(types.FlagIgnored), "!"},
		{"unreadable", types.FileStatus(types.FlagUnreadable), "-"},
		{"clean directory", types.DirStatus(false, false), " "},
		{"dirty directory", types.DirStatus(true, false), "!"},
		{"clean repository", types.DirStatus(false, true), "@"},
		{"dirty repository", types.DirStatus(true, true), "!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.GitSymbol(tt.status))
		})
	}
}

func TestGitSymbolColored(t *testing.T) {
	r := NewRenderer(types.Settings{Colors: true}, config.DefaultConfig().Theme, LSColors{})
	assert.Equal(t, "\x1b[33m~\x1b[0m", r.GitSymbol(types.FileStatus(types.FlagModified)))
	assert.Equal(t, "", r.GitSymbol(types.NoStatus()))
}

func TestForeground(t *testing.T) {
	assert.Equal(t, []color.Attribute{color.FgBlack}, foreground(0))
	assert.Equal(t, []color.Attribute{color.FgYellow}, foreground(3))
	assert.Equal(t, []color.Attribute{color.FgHiBlack}, foreground(8))
	assert.Equal(t, []color.Attribute{color.FgHiWhite}, foreground(15))
	assert.Equal(t, []color.Attribute{38, 5, 200}, foreground(200))

	theme := config.DefaultConfig().Theme
	theme.Colors.GitModified = 200
	r := NewRenderer(types.Settings{Colors: true}, theme, LSColors{})
	assert.True(t, strings.HasPrefix(r.GitSymbol(types.FileStatus(types.FlagModified)), "\x1b[38;5;200m~\x1b[0;"))
}

func TestPermissions(t *testing.T) {
	r := plain()

	tests := []struct {
		name  string
		entry types.Entry
		want  string
	}{
		{"regular", types.Entry{Type: types.FileTypeRegular, Mode: 0o644}, ".rw-r--r--"},
		{"directory", types.Entry{Type: types.FileTypeDirectory, Mode: os.ModeDir | 0o755}, "drwxr-xr-x"},
		{"symlink", types.Entry{Type: types.FileTypeSymlink, Mode: os.ModeSymlink | 0o777}, "lrwxrwxrwx"},
		{"setuid", types.Entry{Type: types.FileTypeRegular, Mode: os.ModeSetuid | 0o755}, ".rwsr-xr-x"},
		{"setgid without exec", types.Entry{Type: types.FileTypeRegular, Mode: os.ModeSetgid | 0o745}, ".rwxr-Sr-x"},
		{"sticky", types.Entry{Type: types.FileTypeDirectory, Mode: os.ModeSticky | 0o777}, "drwxrwxrwt"},
		{"sticky without exec", types.Entry{Type: types.FileTypeDirectory, Mode: os.ModeSticky | 0o776}, "drwxrwxrwT"},
		{"fifo", types.Entry{Type: types.FileTypeFifo, Mode: 0o600}, "prw-------"},
		{"socket", types.Entry{Type: types.FileTypeSocket, Mode: 0o600}, "srw-------"},
		{"char device", types.Entry{Type: types.FileTypeCharDevice, Mode: 0o666}, "crw-rw-rw-"},
		{"unknown", types.Entry{Type: types.FileTypeUnknown}, "?---------"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Permissions(tt.entry))
		})
	}
}

func TestCell(t *testing.T) {
	r := plain()

	e := types.Entry{Name: "ab", Fields: types.DisplayFields{Name: "ab", NameLen: 2}}
	assert.Equal(t, " ab    ", r.Cell(e, 5), "no status keeps the symbol column")

	e.Status = types.FileStatus(types.FlagModified)
	assert.Equal(t, "~ab    ", r.Cell(e, 5))

	assert.Equal(t, "~ab ", r.Cell(e, 1), "a name wider than the column is never truncated")
}

func TestCellAlignsMixedStatuses(t *testing.T) {
	r := plain()

	cells := []types.Entry{
		{Name: "plain", Fields: types.DisplayFields{NameLen: 5}},
		{Name: "proj", Fields: types.DisplayFields{NameLen: 4}, Status: types.DirStatus(true, true)},
		{Name: "dangling", Fields: types.DisplayFields{NameLen: 8}, Broken: true},
		{Name: "b.txt", Fields: types.DisplayFields{NameLen: 5}, Status: types.FileStatus(types.FlagUnchanged)},
	}
	for _, e := range cells {
		assert.Len(t, r.Cell(e, 8), 10, "cell for %s", e.Name)
	}
}

func TestRow(t *testing.T) {
	r := plain()

	e := types.Entry{
		Name:   "notes.txt",
		Type:   types.FileTypeRegular,
		Mode:   0o644,
		Size:   1536,
		Status: types.FileStatus(types.FlagModified),
		Fields: types.DisplayFields{
			User: "me:staff", UserLen: 8,
			Size: "1.5K", SizeLen: 4,
			Date: "3", DateLen: 1,
			DateUnit: "day", DateUnitLen: 3,
			Name: "notes.txt", NameLen: 9,
		},
	}
	widths := types.ColumnWidths{User: 10, Size: 5, Date: 2, DateUnit: 4}
	assert.Equal(t, ".rw-r--r-- me:staff    1.5K  3 day  ~notes.txt", r.Row(e, widths))

	link := e
	link.Name = "latest"
	link.Type = types.FileTypeSymlink
	link.LinkTarget = "notes.txt"
	link.Status = types.NoStatus()
	assert.Contains(t, r.Row(link, widths), "day   latest -> notes.txt")
}
