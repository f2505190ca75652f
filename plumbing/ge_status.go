package plumbing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
	"golang.org/x/sys/unix"
)

// StatusOptions scopes a status query.
type StatusOptions struct {
	Pathspec          string // repository-relative file or directory, "" for the whole repository
	IncludeUntracked  bool
	IncludeIgnored    bool
	IncludeUnmodified bool
}

var errStopWalk = errors.New("stop walk")

// prepare loads everything a status query needs, once per handle.
func (r *Repository) prepare() error {
	if r.prepared {
		return nil
	}

	if err := r.loadIndex(); err != nil {
		return fmt.Errorf("%w: index: %v", types.ErrStatusLookupFailed, err)
	}
	if err := r.loadHead(); err != nil {
		return fmt.Errorf("%w: HEAD: %v", types.ErrStatusLookupFailed, err)
	}
	r.loadConfig()

	// HEAD blobs missing from the index are deletions, or renames when the same content was added elsewhere
	r.removed = map[[20]byte]string{}
	for p, he := range r.head {
		if _, ok := r.indexByPath[p]; !ok && he.Type == types.BlobObject {
			r.removed[he.SHA] = p
		}
	}
	r.renamedTo = map[[20]byte]bool{}
	for p, entries := range r.indexByPath {
		if _, inHead := r.head[p]; inHead {
			continue
		}
		if _, ok := r.removed[entries[0].SHA1]; ok {
			r.renamedTo[entries[0].SHA1] = true
		}
	}
	r.deleted = r.deleted[:0]
	for p, he := range r.head {
		if _, ok := r.indexByPath[p]; !ok && he.Type == types.BlobObject && !r.renamedTo[he.SHA] {
			r.deleted = append(r.deleted, p)
		}
	}
	sort.Strings(r.deleted)

	r.ignore = NewIgnoreMatcher(r.Root, r.GitDir)
	r.prepared = true
	return nil
}

// StatusFile returns the status of a single repository-relative path.
func (r *Repository) StatusFile(rel string) (types.StatusType, error) {
	if err := r.prepare(); err != nil {
		return 0, err
	}

	rel = strings.Trim(rel, "/")
	if entries, tracked := r.indexByPath[rel]; tracked {
		return r.trackedStatus(rel, entries), nil
	}
	return r.untrackedStatus(rel)
}

// Dirty reports whether anything under prefix differs from HEAD: staged or unstaged changes, conflicts or untracked files. Ignored files do not count. The query stops at the first change.
func (r *Repository) Dirty(prefix string) (bool, error) {
	dirty := false
	err := r.ForEachStatus(StatusOptions{Pathspec: prefix, IncludeUntracked: true}, func(types.StatusEntry) bool {
		dirty = true
		return false
	})
	return dirty, err
}

// StatusList collects the statuses matched by opts.
func (r *Repository) StatusList(opts StatusOptions) ([]types.StatusEntry, error) {
	var out []types.StatusEntry
	err := r.ForEachStatus(opts, func(e types.StatusEntry) bool {
		out = append(out, e)
		return true
	})
	return out, err
}

// ForEachStatus calls fn for every path under opts.Pathspec, in three passes: tracked paths in index order, deletions, then untracked and ignored paths found by walking the scoped part of the working tree. Returning false from fn stops the query.
func (r *Repository) ForEachStatus(opts StatusOptions, fn func(types.StatusEntry) bool) error {
	if err := r.prepare(); err != nil {
		return err
	}

	prefix := strings.Trim(filepath.ToSlash(opts.Pathspec), "/")
	inScope := func(p string) bool {
		return prefix == "" || p == prefix || strings.HasPrefix(p, prefix+"/")
	}
	keep := func(s types.StatusType) bool {
		switch {
		case s == types.StatusCurrent:
			return opts.IncludeUnmodified
		case s == types.StatusIgnored:
			return opts.IncludeIgnored
		case s == types.StatusWtNew:
			return opts.IncludeUntracked
		}
		return true
	}

	// Tracked paths. The index is sorted, so start at the first name sharing the prefix
	start := sort.Search(len(r.index), func(i int) bool { return r.index[i].Filename >= prefix })
	prev := ""
	for i := start; i < len(r.index); i++ {
		ie := r.index[i]
		if !strings.HasPrefix(ie.Filename, prefix) {
			break
		}
		if ie.Filename == prev || !inScope(ie.Filename) {
			continue
		}
		prev = ie.Filename
		if ie.Mode&constants.ModeTypeMask == constants.ModeGitlink {
			continue
		}

		s := r.trackedStatus(ie.Filename, r.indexByPath[ie.Filename])
		if keep(s) && !fn(types.StatusEntry{Path: ie.Filename, Status: s}) {
			return nil
		}
	}

	// Paths removed from the index
	for _, p := range r.deleted {
		if !inScope(p) {
			continue
		}
		s, err := r.untrackedStatus(p)
		if err != nil {
			s = types.StatusIndexDeleted
		}
		if keep(s) && !fn(types.StatusEntry{Path: p, Status: s}) {
			return nil
		}
	}

	if !opts.IncludeUntracked && !opts.IncludeIgnored {
		return nil
	}

	err := r.walkUntracked(prefix, func(e types.StatusEntry) bool {
		if !keep(e.Status) {
			return true
		}
		return fn(e)
	})
	if errors.Is(err, errStopWalk) {
		return nil
	}
	return err
}

// walkUntracked walks the working tree below prefix and reports untracked and ignored paths. Ignored directories and nested repositories are reported once and not entered.
func (r *Repository) walkUntracked(prefix string, fn func(types.StatusEntry) bool) error {
	start := filepath.Join(r.Root, filepath.FromSlash(prefix))

	emit := func(e types.StatusEntry) error {
		if !fn(e) {
			return errStopWalk
		}
		return nil
	}

	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == start {
				return err
			}
			// Unreadable subtree: skip it, the rest of the walk still counts
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, ok := r.RelPath(p)
		if !ok {
			return filepath.SkipDir
		}

		if d.IsDir() {
			if d.Name() == constants.GitDirName {
				return filepath.SkipDir
			}
			if rel == "" {
				return nil
			}
			if entries, tracked := r.indexByPath[rel]; tracked && entries[0].Mode&constants.ModeTypeMask == constants.ModeGitlink {
				return filepath.SkipDir
			}
			if r.ignore.Ignored(rel, true) {
				if err := emit(types.StatusEntry{Path: rel + "/", Status: types.StatusIgnored}); err != nil {
					return err
				}
				return filepath.SkipDir
			}
			if hasGitMarker(p) {
				// Nested repository that is not a submodule
				if err := emit(types.StatusEntry{Path: rel + "/", Status: types.StatusWtNew}); err != nil {
					return err
				}
				return filepath.SkipDir
			}
			return nil
		}

		// Tracked files and HEAD deletions were reported by the earlier passes
		if _, tracked := r.indexByPath[rel]; tracked {
			return nil
		}
		if _, inHead := r.head[rel]; inHead {
			return nil
		}

		s := types.StatusWtNew
		if r.ignore.Ignored(rel, false) {
			s = types.StatusIgnored
		}
		return emit(types.StatusEntry{Path: rel, Status: s})
	})

	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// trackedStatus compares HEAD with the index and the index with the working tree for one tracked path.
func (r *Repository) trackedStatus(rel string, entries []types.IndexEntry) types.StatusType {
	for _, e := range entries {
		if e.Stage() != 0 {
			return types.StatusConflicted
		}
	}

	ie := entries[0]
	switch {
	case ie.Mode&constants.ModeTypeMask == constants.ModeGitlink:
		return types.StatusCurrent
	case ie.SkipWorktree():
		// Sparse checkout: only the index side can differ
		return r.headToIndex(rel, ie)
	case ie.IntentToAdd():
		// No content staged yet, git reports the file as new in the worktree
		if _, err := os.Lstat(filepath.Join(r.Root, filepath.FromSlash(rel))); err != nil {
			return types.StatusWtDeleted
		}
		return types.StatusWtNew
	}
	return r.headToIndex(rel, ie) | r.indexToWorktree(rel, ie)
}

// untrackedStatus classifies a path with no index entry: a staged deletion, an ignored path or an untracked one.
func (r *Repository) untrackedStatus(rel string) (types.StatusType, error) {
	var s types.StatusType
	if _, inHead := r.head[rel]; inHead {
		s |= types.StatusIndexDeleted
	}

	info, err := os.Lstat(filepath.Join(r.Root, filepath.FromSlash(rel)))
	if err != nil {
		if s != 0 && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return 0, fmt.Errorf("%w: %s: %v", types.ErrStatusLookupFailed, rel, err)
	}

	if r.ignore.Ignored(rel, info.IsDir()) {
		return s | types.StatusIgnored, nil
	}
	return s | types.StatusWtNew, nil
}

func (r *Repository) headToIndex(rel string, ie types.IndexEntry) types.StatusType {
	he, inHead := r.head[rel]
	if !inHead {
		if from, ok := r.removed[ie.SHA1]; ok && from != rel {
			return types.StatusIndexRenamed
		}
		return types.StatusIndexNew
	}

	switch {
	case he.Mode&constants.ModeTypeMask != ie.Mode&constants.ModeTypeMask:
		return types.StatusIndexTypeChange
	case he.SHA != ie.SHA1 || he.Mode != ie.Mode:
		return types.StatusIndexModified
	}
	return types.StatusCurrent
}

func (r *Repository) indexToWorktree(rel string, ie types.IndexEntry) types.StatusType {
	full := filepath.Join(r.Root, filepath.FromSlash(rel))

	var st unix.Stat_t
	if err := unix.Lstat(full, &st); err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
			return types.StatusWtDeleted
		}
		return types.StatusWtUnreadable
	}

	wtMode := worktreeMode(uint32(st.Mode))
	switch {
	case uint32(st.Mode)&unix.S_IFMT == unix.S_IFDIR:
		return types.StatusWtTypeChange
	case wtMode&constants.ModeTypeMask != ie.Mode&constants.ModeTypeMask:
		return types.StatusWtTypeChange
	case r.fileMode && wtMode != ie.Mode:
		return types.StatusWtModified
	case uint32(st.Size) != ie.FileSize:
		return types.StatusWtModified
	}

	// Same stat data: trust the index like git does
	if uint32(st.Mtim.Sec) == ie.Mtime && uint32(st.Mtim.Nsec) == ie.MtimeNs &&
		uint32(st.Ctim.Sec) == ie.Ctime && uint32(st.Ctim.Nsec) == ie.CtimeNs &&
		uint32(st.Ino) == ie.Ino {
		return types.StatusCurrent
	}

	// Stat data differ but the size matches: compare content
	info, err := os.Lstat(full)
	if err != nil {
		return types.StatusWtUnreadable
	}
	sha, err := HashWorktreeFile(full, info)
	if err != nil {
		return types.StatusWtUnreadable
	}
	if sha != ie.SHA1 {
		return types.StatusWtModified
	}
	return types.StatusCurrent
}

// worktreeMode maps a raw st_mode to the git mode the file would be recorded with.
func worktreeMode(mode uint32) uint32 {
	if mode&unix.S_IFMT == unix.S_IFDIR {
		return constants.ModeTree
	}
	return indexModeOf(mode)
}

func hasGitMarker(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, constants.GitDirName))
	return err == nil
}
