package render

import (
	"os"
	"strings"

	"github.com/brickster241/gels/utils/config"
	"github.com/brickster241/gels/utils/types"
	"github.com/fatih/color"
)

// Renderer builds the colored grid cells and list rows of entries.
type Renderer struct {
	settings types.Settings
	theme    config.Theme
	ls       LSColors
}

// NewRenderer creates a Renderer. With colors disabled in settings every string comes out plain.
func NewRenderer(settings types.Settings, theme config.Theme, ls LSColors) *Renderer {
	return &Renderer{settings: settings, theme: theme, ls: ls}
}

// Cell renders the git symbol and the name, padded to width plus one separating space.
func (r *Renderer) Cell(e types.Entry, width int) string {
	var b strings.Builder
	b.WriteString(r.statusColumn(e.Status))
	b.WriteString(r.name(e))
	b.WriteString(strings.Repeat(" ", max(0, width-e.Fields.NameLen)+1))
	return b.String()
}

// Row renders one detail line: permissions, owner, size, age, git symbol and name.
func (r *Renderer) Row(e types.Entry, widths types.ColumnWidths) string {
	c, s := r.theme.Colors, r.theme.Symbols

	var b strings.Builder
	b.WriteString(r.Permissions(e))
	b.WriteByte(' ')

	// owner<sep>group, left aligned
	owner, group, _ := strings.Cut(e.Fields.User, s.UserSeparator)
	b.WriteString(r.paint(c.User, owner))
	b.WriteString(r.paint(c.UserSeparator, s.UserSeparator))
	b.WriteString(r.paint(c.Group, group))
	b.WriteString(pad(widths.User - e.Fields.UserLen))
	b.WriteByte(' ')

	// Size, right aligned
	number, unit := Size(e.Size, s)
	unitColor := r.sizeColor(unit)
	numberColor := unitColor
	if r.settings.SizeNumberColor {
		numberColor = c.SizeNumber
	}
	b.WriteString(pad(widths.Size - e.Fields.SizeLen))
	b.WriteString(r.paint(numberColor, number))
	b.WriteString(r.paint(unitColor, unit))
	b.WriteByte(' ')

	// Age, number right aligned and unit left aligned
	dateColor := r.dateColor(e.Fields.DateUnit)
	dateNumberColor := dateColor
	if r.settings.DateNumberColor {
		dateNumberColor = c.DateNumber
	}
	b.WriteString(pad(widths.Date - e.Fields.DateLen))
	b.WriteString(r.paint(dateNumberColor, e.Fields.Date))
	b.WriteByte(' ')
	b.WriteString(r.paint(dateColor, e.Fields.DateUnit))
	b.WriteString(pad(widths.DateUnit - e.Fields.DateUnitLen))
	b.WriteByte(' ')

	b.WriteString(r.statusColumn(e.Status))
	b.WriteString(r.name(e))
	if e.LinkTarget != "" {
		b.WriteString(" -> ")
		b.WriteString(e.LinkTarget)
	}
	return b.String()
}

// GitSymbol returns the colored status symbol of an entry, or "" when no status applies. An unknown status shows as unreadable.
func (r *Renderer) GitSymbol(st types.Status) string {
	if !st.Present() {
		return ""
	}

	c, s := r.theme.Colors, r.theme.Symbols
	if st.Unknown() {
		return r.paint(c.GitUnreadable, s.GitUnreadable)
	}

	if st.IsDir() {
		switch {
		case st.Has(types.FlagRepoRoot | types.FlagDirDirty):
			return r.paint(c.GitRepoDirty, s.GitRepoDirty)
		case st.Has(types.FlagRepoRoot):
			return r.paint(c.GitRepoClean, s.GitRepoClean)
		case st.Has(types.FlagDirDirty):
			return r.paint(c.GitDirDirty, s.GitDirDirty)
		default:
			return r.paint(c.GitDirClean, s.GitDirClean)
		}
	}

	// The most severe flag wins
	symbols := []struct {
		flag   types.Flags
		color  int
		symbol string
	}{
		{types.FlagConflicted, c.GitConflict, s.GitConflict},
		{types.FlagTypeChanged, c.GitTypeChange, s.GitTypeChange},
		{types.FlagRenamed, c.GitRenamed, s.GitRenamed},
		{types.FlagModified, c.GitModified, s.GitModified},
		{types.FlagAdded, c.GitAdded, s.GitAdded},
		{types.FlagUnreadable, c.GitUnreadable, s.GitUnreadable},
		{types.FlagUntracked, c.GitUntracked, s.GitUntracked},
		{types.FlagIgnored, c.GitIgnore, s.GitIgnore},
	}
	for _, m := range symbols {
		if st.Has(m.flag) {
			return r.paint(m.color, m.symbol)
		}
	}
	return r.paint(c.GitUnchanged, s.GitUnchanged)
}

// statusColumn is the git symbol, or a blank of the same width when no status applies.
func (r *Renderer) statusColumn(st types.Status) string {
	if symbol := r.GitSymbol(st); symbol != "" {
		return symbol
	}
	return " "
}

// Permissions renders the ls-style type and mode string, e.g. "drwxr-xr-x".
func (r *Renderer) Permissions(e types.Entry) string {
	c := r.theme.Colors

	var b strings.Builder
	switch e.Type {
	case types.FileTypeDirectory:
		b.WriteString(r.paint(c.PermDir, "d"))
	case types.FileTypeSymlink:
		b.WriteString(r.paint(c.PermLink, "l"))
	case types.FileTypeBlockDevice:
		b.WriteString(r.paint(c.PermBlock, "b"))
	case types.FileTypeCharDevice:
		b.WriteString(r.paint(c.PermBlock, "c"))
	case types.FileTypeFifo:
		b.WriteString(r.paint(c.PermSpecial, "p"))
	case types.FileTypeSocket:
		b.WriteString(r.paint(c.PermSpecial, "s"))
	case types.FileTypeRegular:
		b.WriteString(r.paint(c.PermOther, "."))
	default:
		b.WriteString(r.paint(c.PermUnknown, "?"))
	}

	mode := e.Mode
	special := []os.FileMode{os.ModeSetuid, os.ModeSetgid, os.ModeSticky}
	for i := 0; i < 3; i++ {
		shift := uint(6 - 3*i)
		bits := (mode.Perm() >> shift) & 0o7

		b.WriteString(r.permBit(bits&0o4 != 0, "r", c.PermRead))
		b.WriteString(r.permBit(bits&0o2 != 0, "w", c.PermWrite))

		exec := bits&0o1 != 0
		if mode&special[i] == 0 {
			b.WriteString(r.permBit(exec, "x", c.PermExec))
			continue
		}

		// setuid, setgid and sticky replace the execute slot
		symbol, col := "s", c.PermSpecial
		if i == 2 {
			symbol, col = "t", c.PermSticky
		}
		if !exec {
			symbol = strings.ToUpper(symbol)
		}
		b.WriteString(r.paint(col, symbol))
	}
	return b.String()
}

func (r *Renderer) permBit(set bool, symbol string, code int) string {
	if !set {
		return r.paint(r.theme.Colors.PermNone, "-")
	}
	return r.paint(code, symbol)
}

func (r *Renderer) name(e types.Entry) string {
	if !r.settings.Colors {
		return e.Name
	}
	attrs := r.ls.For(e)
	if len(attrs) == 0 {
		return e.Name
	}
	col := color.New(attrs...)
	col.EnableColor()
	return col.Sprint(e.Name)
}

func (r *Renderer) sizeColor(unit string) int {
	c, s := r.theme.Colors, r.theme.Symbols
	switch unit {
	case s.SizeKilo:
		return c.SizeKilo
	case s.SizeMega:
		return c.SizeMega
	case s.SizeGiga:
		return c.SizeGiga
	case s.SizeTera:
		return c.SizeTera
	case s.SizePeta:
		return c.SizePeta
	default:
		return c.SizeByte
	}
}

func (r *Renderer) dateColor(unit string) int {
	c, s := r.theme.Colors, r.theme.Symbols
	switch unit {
	case s.DateSec:
		return c.DateSec
	case s.DateMin:
		return c.DateMin
	case s.DateHour:
		return c.DateHour
	case s.DateDay:
		return c.DateDay
	case s.DateMon:
		return c.DateMon
	case s.DateYear:
		return c.DateYear
	default:
		return c.DateOther
	}
}

// paint wraps s in the foreground color of a 256-color palette index.
func (r *Renderer) paint(code int, s string) string {
	if !r.settings.Colors || s == "" {
		return s
	}
	col := color.New(foreground(code)...)
	col.EnableColor()
	return col.Sprint(s)
}

// foreground maps a palette index to SGR attributes. The 16 base colors use their own codes; the rest need the extended 38;5;n form.
func foreground(code int) []color.Attribute {
	switch {
	case code >= 0 && code < 8:
		return []color.Attribute{color.FgBlack + color.Attribute(code)}
	case code >= 8 && code < 16:
		return []color.Attribute{color.FgHiBlack + color.Attribute(code-8)}
	}
	return []color.Attribute{38, 5, color.Attribute(code)}
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
