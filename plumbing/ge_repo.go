package plumbing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
)

// Repository is an open handle on a git working tree. Index, HEAD tree and ignore rules are loaded lazily and cached for the handle's lifetime.
type Repository struct {
	Root      string // working tree root, absolute with symlinks evaluated
	GitDir    string // per-worktree git directory (HEAD, index)
	CommonDir string // shared git directory (objects, refs)

	index       []types.IndexEntry
	indexByPath map[string][]types.IndexEntry
	indexLoaded bool

	head       map[string]types.TreeEntry
	headLoaded bool

	// SHA → path of HEAD entries that are no longer in the index, used for rename detection
	removed   map[[20]byte]string
	renamedTo map[[20]byte]bool
	deleted   []string // sorted HEAD paths missing from the index, renames excluded
	fileMode  bool     // core.filemode
	prepared  bool

	ignore      *IgnoreMatcher
	packs       []*packFile
	packsLoaded bool
}

// Discover walks upward from path looking for a directory that holds a .git marker. It returns the working tree root, or "" when path is not inside a repository.
func Discover(path string) (string, error) {

	// Resolve absolute path and evaluate symlinks, so roots compare against realpath'd entries
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	// Start from the containing directory when path is not a directory
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := abs; ; {
		if _, err := os.Lstat(filepath.Join(dir, constants.GitDirName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Open opens the repository whose working tree root is root. Failures wrap types.ErrRepositoryOpenFailed.
func Open(root string) (*Repository, error) {
	gitDir, err := resolveGitDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", types.ErrRepositoryOpenFailed, root, err)
	}

	// Linked worktrees keep objects and refs in a shared directory
	commonDir := gitDir
	if data, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		commonDir = strings.TrimSpace(string(data))
		if !filepath.IsAbs(commonDir) {
			commonDir = filepath.Join(gitDir, commonDir)
		}
		commonDir = filepath.Clean(commonDir)
	}

	// A usable repository has HEAD and an object database
	if _, err := os.Stat(filepath.Join(gitDir, "HEAD")); err != nil {
		return nil, fmt.Errorf("%w at %s: missing HEAD", types.ErrRepositoryOpenFailed, root)
	}
	if info, err := os.Stat(filepath.Join(commonDir, "objects")); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w at %s: missing object database", types.ErrRepositoryOpenFailed, root)
	}

	return &Repository{
		Root:      filepath.Clean(root),
		GitDir:    gitDir,
		CommonDir: commonDir,
	}, nil
}

// resolveGitDir returns the git directory for root, following "gitdir: <path>" files.
func resolveGitDir(root string) (string, error) {
	marker := filepath.Join(root, constants.GitDirName)
	info, err := os.Stat(marker)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return marker, nil
	}

	// .git file written by worktrees and submodules
	data, err := os.ReadFile(marker)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, constants.GitDirFilePrefix) {
		return "", errors.New("invalid .git file")
	}
	dir := strings.TrimSpace(strings.TrimPrefix(line, constants.GitDirFilePrefix))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return filepath.Clean(dir), nil
}

// Close releases the pack files held by the handle.
func (r *Repository) Close() error {
	var firstErr error
	for _, p := range r.packs {
		if err := p.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.packs = nil
	r.packsLoaded = false
	return firstErr
}

// RelPath strips the repository root from an absolute path and returns the slash-separated remainder. The root itself maps to "". The second result is false when abs is not inside the repository.
func (r *Repository) RelPath(abs string) (string, bool) {
	abs = filepath.Clean(abs)
	if !strings.HasPrefix(abs, r.Root) {
		return "", false
	}

	rest := abs[len(r.Root):]

	// "/repo-other" shares the "/repo" prefix without being inside it
	if rest != "" && rest[0] != filepath.Separator && !strings.HasSuffix(r.Root, string(filepath.Separator)) {
		return "", false
	}

	rel := strings.TrimLeft(rest, string(filepath.Separator))
	return filepath.ToSlash(rel), true
}

// IsRoot reports whether dir is the working tree root of a repository, and returns that root.
func IsRoot(dir string) (string, bool) {
	root, err := Discover(dir)
	if err != nil || root == "" {
		return "", false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return root, root == abs
}
