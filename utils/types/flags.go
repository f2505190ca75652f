package types

import "math"

// Flags is the set of version-control tags attached to an Entry.
type Flags uint16

const (
	FlagIgnored Flags = 1 << iota
	FlagConflicted
	FlagModified
	FlagRenamed
	FlagAdded
	FlagTypeChanged
	FlagUnreadable
	FlagUntracked
	FlagUnchanged

	// Directory aggregates. Exactly one is set on a directory inside a repository.
	FlagDirDirty
	FlagDirClean

	FlagRepoRoot

	flagsUnknown Flags = math.MaxUint16
)

const fileFlags = FlagIgnored | FlagConflicted | FlagModified | FlagRenamed | FlagAdded |
	FlagTypeChanged | FlagUnreadable | FlagUntracked | FlagUnchanged

// Has reports whether every bit of f is set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

type statusKind uint8

const (
	statusAbsent statusKind = iota
	statusUnknown
	statusFile
	statusDir
)

// Status is the optional version-control status of an Entry.
//
// The zero value is an absent status. Directory statuses are only built by
// DirStatus, so dir-dirty and dir-clean can never be set together or on a file.
type Status struct {
	kind  statusKind
	flags Flags
}

// NoStatus is used for entries outside any repository.
func NoStatus() Status {
	return Status{}
}

// UnknownStatus is used when the repository could not be opened or queried.
func UnknownStatus() Status {
	return Status{kind: statusUnknown, flags: flagsUnknown}
}

// FileStatus builds the status of a non-directory entry. Directory-only tags are dropped.
func FileStatus(f Flags) Status {
	return Status{kind: statusFile, flags: f & fileFlags}
}

// DirStatus builds the aggregate status of a directory.
func DirStatus(dirty, repoRoot bool) Status {
	f := FlagDirClean
	if dirty {
		f = FlagDirDirty
	}
	if repoRoot {
		f |= FlagRepoRoot
	}
	return Status{kind: statusDir, flags: f}
}

// Present reports whether any status applies (known or unknown).
func (s Status) Present() bool { return s.kind != statusAbsent }

// Unknown reports whether the status lookup failed.
func (s Status) Unknown() bool { return s.kind == statusUnknown }

// IsDir reports whether this is a directory aggregate.
func (s Status) IsDir() bool { return s.kind == statusDir }

// Has reports whether a known status carries all of f.
func (s Status) Has(f Flags) bool {
	if s.kind != statusFile && s.kind != statusDir {
		return false
	}
	return s.flags.Has(f)
}
