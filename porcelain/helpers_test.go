package porcelain_test

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brickster241/gels/utils/types"
)

// recorder collects diagnostics.
type recorder struct {
	lines []string
}

func (r *recorder) Warnf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recorder) String() string {
	return strings.Join(r.lines, "\n")
}

// plainFields measures names and sizes without looking anything up.
type plainFields struct{}

func (plainFields) Fields(meta types.Metadata, name string) types.DisplayFields {
	size := strconv.FormatInt(meta.Size, 10)
	return types.DisplayFields{
		User:    "u:g",
		UserLen: 3,
		Size:    size,
		SizeLen: len(size),
		Name:    name,
		NameLen: len(name),
	}
}

// plainRenderer renders names only, so layouts are easy to compare.
type plainRenderer struct{}

func (plainRenderer) Cell(e types.Entry, width int) string {
	return fmt.Sprintf("%-*s|", width, e.Name)
}

func (plainRenderer) Row(e types.Entry, widths types.ColumnWidths) string {
	return fmt.Sprintf("%-*s %*s %s", widths.User, e.Fields.User, widths.Size, e.Fields.Size, e.Name)
}

func names(entries []types.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func byName(entries []types.Entry, name string) types.Entry {
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	panic("no entry named " + name)
}
