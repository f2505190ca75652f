package types

// IndexEntry represents a single entry in the Git index (staging area).
type IndexEntry struct {
	Ctime    uint32   // seconds since epoch
	CtimeNs  uint32   // nanoseconds
	Mtime    uint32   // seconds since epoch
	MtimeNs  uint32   // nanoseconds
	Dev      uint32   // device
	Ino      uint32   // inode
	Mode     uint32   // file mode - 0100644 for regular file
	Uid      uint32   // user id
	Gid      uint32   // group id
	FileSize uint32   // size in bytes
	SHA1     [20]byte // SHA-1 hash of the file content
	Flags    uint16   // flags
	ExtFlags uint16   // version 3 extended flags, zero in version 2
	Filename string   // file name, relative to the repository root
}

const (
	IndexExtIntentToAdd  uint16 = 0x2000 // recorded with git add -N
	IndexExtSkipWorktree uint16 = 0x4000 // excluded from the working tree by sparse checkout
)

// Stage returns the merge stage of the entry (0 for normal entries, 1-3 while a conflict is unresolved).
func (ie IndexEntry) Stage() int {
	return int(ie.Flags>>12) & 0x3
}

// SkipWorktree reports whether the working tree copy is not expected to exist.
func (ie IndexEntry) SkipWorktree() bool {
	return ie.ExtFlags&IndexExtSkipWorktree != 0
}

// IntentToAdd reports whether the path was added without content.
func (ie IndexEntry) IntentToAdd() bool {
	return ie.ExtFlags&IndexExtIntentToAdd != 0
}
