package porcelain

import (
	"fmt"
	"strings"

	"github.com/brickster241/gels/plumbing"
	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
)

// LocateRepository returns an open handle on the repository enclosing path, or nil when path is not inside one.
// The caller owns the handle and must Close it.
func LocateRepository(path string) (*plumbing.Repository, error) {
	root, err := plumbing.Discover(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrRepositoryOpenFailed, path, err)
	}
	if root == "" {
		return nil, nil
	}
	return plumbing.Open(root)
}

// RepoContext is the repository state shared by every entry of one listed directory.
type RepoContext struct {
	Repo   *plumbing.Repository // nil outside any repository
	Failed bool                 // a repository was found but could not be opened
}

// Close releases the repository handle, if any.
func (c RepoContext) Close() {
	if c.Repo != nil {
		c.Repo.Close()
	}
}

// relativeTo maps an absolute path to the repository-relative key used by status queries. Paths outside the working tree, and the contents of the git directory, have no key.
func relativeTo(repo *plumbing.Repository, abs string) (string, bool) {
	rel, ok := repo.RelPath(abs)
	if !ok || strings.HasPrefix(rel, constants.GitDirName+"/") {
		return "", false
	}
	return rel, true
}
