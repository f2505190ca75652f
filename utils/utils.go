package utils

import (
	"os"
	"sort"
	"strconv"

	"github.com/brickster241/gels/utils/constants"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// SortByLength orders path arguments by string length, shortest first. Equal lengths keep their command-line order.
func SortByLength(args []string) []string {
	sorted := make([]string, len(args))
	copy(sorted, args)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) < len(sorted[j])
	})
	return sorted
}

// TerminalWidth returns the column count of f, $COLUMNS when f is not a terminal, or 0 when neither is known.
func TerminalWidth(f *os.File) int {
	if f != nil && isatty.IsTerminal(f.Fd()) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	return 0
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// GridColumns computes how many names of maxWidth fit on a line of termWidth, keeping slack for spacing. Never less than 1.
func GridColumns(termWidth, maxWidth int) int {
	if termWidth <= 0 || maxWidth <= 0 {
		return 1
	}
	return max(1, termWidth/maxWidth-constants.DefaultColumnSlack)
}
