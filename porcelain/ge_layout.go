package porcelain

import (
	"bufio"
	"io"

	"github.com/brickster241/gels/utils"
	"github.com/brickster241/gels/utils/types"
)

// EntryRenderer builds the printable form of one entry.
type EntryRenderer interface {
	// Cell renders an entry for the grid, padded to width.
	Cell(e types.Entry, width int) string
	// Row renders one line of the detail list, aligned to widths.
	Row(e types.Entry, widths types.ColumnWidths) string
}

// Layout writes already-sorted entries either as a detail list or as a grid sized to termWidth.
func Layout(w io.Writer, entries []types.Entry, settings types.Settings, r EntryRenderer, termWidth int) error {
	bw := bufio.NewWriter(w)

	if settings.List {
		widths := ColumnWidthsOf(entries)
		for _, e := range entries {
			bw.WriteString(r.Row(e, widths))
			bw.WriteByte('\n')
		}
		return bw.Flush()
	}

	maxName := MaxNameWidth(entries)
	columns := utils.GridColumns(termWidth, maxName)

	current := 0
	for _, e := range entries {
		bw.WriteString(r.Cell(e, maxName))
		current++

		if current == columns {
			bw.WriteByte('\n')
			current = 0
		}
	}
	bw.WriteByte('\n')

	return bw.Flush()
}

// ColumnWidthsOf returns the widest user, date, date unit and size strings of the collection.
func ColumnWidthsOf(entries []types.Entry) types.ColumnWidths {
	var widths types.ColumnWidths
	for _, e := range entries {
		widths.User = max(widths.User, e.Fields.UserLen)
		widths.Date = max(widths.Date, e.Fields.DateLen)
		widths.DateUnit = max(widths.DateUnit, e.Fields.DateUnitLen)
		widths.Size = max(widths.Size, e.Fields.SizeLen)
	}
	return widths
}

// MaxNameWidth returns the widest rendered name of the collection.
func MaxNameWidth(entries []types.Entry) int {
	width := 0
	for _, e := range entries {
		width = max(width, e.Fields.NameLen)
	}
	return width
}
