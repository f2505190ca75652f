package types

// StatusType is the raw status of a single path as reported by the git backend.
// Bit values follow libgit2's git_status_t so the two can be compared directly.
type StatusType uint32

const (
	StatusCurrent StatusType = 0

	StatusIndexNew        StatusType = 1 << 0
	StatusIndexModified   StatusType = 1 << 1
	StatusIndexDeleted    StatusType = 1 << 2
	StatusIndexRenamed    StatusType = 1 << 3
	StatusIndexTypeChange StatusType = 1 << 4

	StatusWtNew        StatusType = 1 << 7
	StatusWtModified   StatusType = 1 << 8
	StatusWtDeleted    StatusType = 1 << 9
	StatusWtTypeChange StatusType = 1 << 10
	StatusWtRenamed    StatusType = 1 << 11
	StatusWtUnreadable StatusType = 1 << 12

	StatusIgnored    StatusType = 1 << 14
	StatusConflicted StatusType = 1 << 15
)

// Has reports whether any of the given bits are set.
func (s StatusType) Has(bits StatusType) bool {
	return s&bits != 0
}

// StatusEntry pairs a repository-relative path with its status.
type StatusEntry struct {
	Path   string
	Status StatusType
}
