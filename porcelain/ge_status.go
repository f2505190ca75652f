package porcelain

import (
	"github.com/brickster241/gels/plumbing"
	"github.com/brickster241/gels/utils/types"
)

// statusFlags maps backend status bits onto entry flags.
var statusFlags = []struct {
	bits types.StatusType
	flag types.Flags
}{
	{types.StatusIndexNew, types.FlagAdded},
	{types.StatusIndexModified | types.StatusIndexDeleted | types.StatusWtModified | types.StatusWtDeleted, types.FlagModified},
	{types.StatusIndexRenamed | types.StatusWtRenamed, types.FlagRenamed},
	{types.StatusIndexTypeChange | types.StatusWtTypeChange, types.FlagTypeChanged},
	{types.StatusWtUnreadable, types.FlagUnreadable},
	{types.StatusWtNew, types.FlagUntracked},
	{types.StatusIgnored, types.FlagIgnored},
	{types.StatusConflicted, types.FlagConflicted},
}

func flagsOf(s types.StatusType) types.Flags {
	if s == types.StatusCurrent {
		return types.FlagUnchanged
	}

	var f types.Flags
	for _, m := range statusFlags {
		if s.Has(m.bits) {
			f |= m.flag
		}
	}
	return f
}

// FileStatus looks a single path up. A failed lookup is reported as unreadable.
func FileStatus(repo *plumbing.Repository, rel string) types.Status {
	s, err := repo.StatusFile(rel)
	if err != nil {
		return types.FileStatus(types.FlagUnreadable)
	}
	return types.FileStatus(flagsOf(s))
}

// DirStatus aggregates every tracked and untracked path below rel with one scoped query. Ignored paths do not make a directory dirty.
func DirStatus(repo *plumbing.Repository, rel string) types.Status {
	dirty, err := repo.Dirty(rel)
	if err != nil {
		return types.UnknownStatus()
	}
	return types.DirStatus(dirty, false)
}

// NestedRepoStatus handles a directory that lies outside any enclosing repository. When the directory is itself a repository root, that repository is opened and aggregated as a whole and the result is tagged FlagRepoRoot. Otherwise the status is absent.
// Only the directory itself is checked, so the lookup goes one level deep at most. Open and query failures give an unknown status together with the error.
func NestedRepoStatus(dir string) (types.Status, error) {
	root, ok := plumbing.IsRoot(dir)
	if !ok {
		return types.NoStatus(), nil
	}

	repo, err := plumbing.Open(root)
	if err != nil {
		return types.UnknownStatus(), err
	}
	defer repo.Close()

	dirty, err := repo.Dirty("")
	if err != nil {
		return types.UnknownStatus(), err
	}
	return types.DirStatus(dirty, true), nil
}
