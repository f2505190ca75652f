package porcelain

import (
	"fmt"
	"io"
	"os"

	"github.com/brickster241/gels/utils"
	"github.com/brickster241/gels/utils/types"
)

// Lister runs one listing over a set of path arguments.
type Lister struct {
	Settings types.Settings
	Builder  *Builder
	Renderer EntryRenderer
	Diag     Diagnostics
	Out      io.Writer
	Width    int // terminal width, 0 when unknown
}

type listing struct {
	header  string
	entries []types.Entry
}

// Run lists args and returns the process exit status. Arguments are handled shortest first, and repeated arguments only once. Non-directories are gathered into one collection printed before the directories. A path that cannot be stat'd is reported and skipped, and makes the status 1.
func (l *Lister) Run(args []string) int {
	var files []types.Entry
	var dirs []listing
	failed := false

	if len(args) == 0 {
		entries, err := l.Builder.ListDir(".")
		if err != nil {
			l.Diag.Warnf("%v", err)
			return 1
		}
		dirs = append(dirs, listing{header: "./", entries: entries})
	}

	seen := make(map[string]bool, len(args))
	for _, arg := range utils.SortByLength(args) {
		// The same path given twice is listed once
		if seen[arg] {
			continue
		}
		seen[arg] = true

		info, err := os.Lstat(arg)
		if err != nil {
			l.Diag.Warnf("%v", statError(arg, err))
			failed = true
			continue
		}

		if info.IsDir() {
			entries, err := l.Builder.ListDir(arg)
			if err != nil {
				l.Diag.Warnf("%v", err)
				failed = true
				continue
			}
			dirs = append(dirs, listing{header: arg, entries: entries})
			continue
		}

		entry, err := l.Builder.Build("", arg)
		if err != nil {
			l.Diag.Warnf("%v", err)
			failed = true
			continue
		}
		files = append(files, entry)
	}

	// Output already written stands even when a later argument fails
	if len(files) > 0 {
		l.print(files)
	}
	for _, d := range dirs {
		if len(dirs) > 1 || len(files) > 0 {
			fmt.Fprintf(l.Out, "\n%s:\n", d.header)
		}
		l.print(d.entries)
	}

	if failed {
		return 1
	}
	return 0
}

func (l *Lister) print(entries []types.Entry) {
	SortEntries(entries, l.Settings)
	if err := Layout(l.Out, entries, l.Settings, l.Renderer, l.Width); err != nil {
		l.Diag.Warnf("%v", err)
	}
}
