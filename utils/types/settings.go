package types

import (
	"fmt"
	"strconv"
	"strings"
)

// SortKey selects the attribute entries are ordered by.
type SortKey int

const (
	SortAlpha SortKey = iota
	SortModified
	SortSize
)

func (k SortKey) String() string {
	switch k {
	case SortModified:
		return "modified"
	case SortSize:
		return "size"
	default:
		return "alpha"
	}
}

// ParseSortKey accepts a key name or its numeric value.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "alpha", "name", "":
		return SortAlpha, nil
	case "modified", "time", "mtime":
		return SortModified, nil
	case "size":
		return SortSize, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(SortAlpha) && n <= int(SortSize) {
		return SortKey(n), nil
	}
	return SortAlpha, fmt.Errorf("invalid sort key: %q", s)
}

// Settings is the read-only listing configuration for one run.
type Settings struct {
	ShowHidden      bool
	ResolveLinks    bool
	Reversed        bool
	DirsFirst       bool
	Sort            SortKey
	List            bool
	Colors          bool
	SizeNumberColor bool
	DateNumberColor bool
}

// DefaultSettings mirrors the defaults used when no config file is present.
func DefaultSettings() Settings {
	return Settings{
		DirsFirst:       true,
		Sort:            SortAlpha,
		Colors:          true,
		SizeNumberColor: true,
		DateNumberColor: true,
	}
}
