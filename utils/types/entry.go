package types

import (
	"os"
	"time"
)

// Metadata holds the raw filesystem attributes of one stat snapshot.
type Metadata struct {
	Type         FileType
	Size         int64
	ModTime      time.Time
	Mode         os.FileMode
	UID          uint32
	GID          uint32
	IsDir        bool
	ResolvedPath string // absolute path that was actually stat'd
	LinkTarget   string // raw readlink result for symlinks
	Broken       bool   // symlink whose target could not be resolved
}

// DisplayFields are the plain (uncolored) display strings of an Entry and their terminal widths.
type DisplayFields struct {
	User        string
	Date        string
	DateUnit    string
	Size        string
	Name        string
	UserLen     int
	DateLen     int
	DateUnitLen int
	SizeLen     int
	NameLen     int
}

// ColumnWidths are the alignment maxima used by the detail list.
type ColumnWidths struct {
	User     int
	Date     int
	DateUnit int
	Size     int
}

// Entry is one listed filesystem object. Entries are built once and never modified.
type Entry struct {
	Directory    string // containing path with a trailing separator, empty for bare file arguments
	Name         string
	ResolvedPath string

	Type       FileType
	Size       int64
	ModTime    time.Time
	Mode       os.FileMode
	UID        uint32
	GID        uint32
	IsDir      bool
	LinkTarget string
	Broken     bool

	Fields DisplayFields
	Status Status
}

// Path returns the path the entry was listed under.
func (e Entry) Path() string {
	return e.Directory + e.Name
}
