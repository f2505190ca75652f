package plumbing

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
)

// BuildTreeFromIndex builds an in-memory tree structure from the given stage-0 index entries.
func BuildTreeFromIndex(entries []types.IndexEntry) *types.TreeNode {

	// Build the tree structure
	root := &types.TreeNode{
		Files: make(map[string]types.IndexEntry),
		Dirs:  make(map[string]*types.TreeNode),
	}

	// Populate the tree structure
	for _, entry := range entries {
		if entry.Stage() != 0 {
			continue
		}
		parts := strings.Split(entry.Filename, "/")

		currNode := root
		// Traverse or create directories
		for i := 0; i < len(parts)-1; i++ {
			dir := parts[i]
			if currNode.Dirs[dir] == nil {
				currNode.Dirs[dir] = &types.TreeNode{
					Files: make(map[string]types.IndexEntry),
					Dirs:  make(map[string]*types.TreeNode),
				}
			}
			currNode = currNode.Dirs[dir]
		}

		// Add the file to the current directory node
		file := parts[len(parts)-1]
		currNode.Files[file] = entry
	}
	return root
}

// WriteTree recursively writes tree objects to the object database and returns the SHA of the root tree.
func WriteTree(gitDir string, node *types.TreeNode) ([20]byte, error) {
	var entries []types.TreeEntry

	// recursion first (dirs)
	for name, child := range node.Dirs {
		sha, err := WriteTree(gitDir, child)
		if err != nil {
			return [20]byte{}, err
		}

		entries = append(entries, types.TreeEntry{
			Mode: constants.ModeTree,
			Name: name,
			SHA:  sha,
			Type: types.TreeObject,
		})
	}

	// Files
	for name, ie := range node.Files {
		entries = append(entries, types.TreeEntry{
			Mode: ie.Mode,
			Name: name,
			SHA:  ie.SHA1,
			Type: types.BlobObject,
		})
	}

	// Git orders subtrees as if their name ended with "/"
	sortKey := func(e types.TreeEntry) string {
		if e.Type == types.TreeObject {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})

	var content bytes.Buffer

	// Build Tree content (no header yet)
	for _, e := range entries {
		// "<mode> <name>\0" followed by the raw 20-byte SHA
		fmt.Fprintf(&content, "%o %s", e.Mode, e.Name)
		content.WriteByte(0)
		content.Write(e.SHA[:])
	}

	return WriteObject(gitDir, types.TreeObject, content.Bytes())
}

// ReadTreeCurrentLevel reads one tree object and decodes its entries without recursing.
func (r *Repository) ReadTreeCurrentLevel(sha [20]byte) ([]types.TreeEntry, error) {

	objType, content, err := r.ReadObject(sha)
	if err != nil {
		return nil, err
	}
	if objType != types.TreeObject {
		return nil, fmt.Errorf("object %x is not a tree", sha)
	}

	entries := []types.TreeEntry{}
	i := 0

	for i < len(content) {
		// Find NUL separating "<mode> <name>" and SHA
		nullIdx := bytes.IndexByte(content[i:], 0)
		if nullIdx == -1 {
			return nil, fmt.Errorf("corrupt tree object")
		}

		header := string(content[i : i+nullIdx])
		mode, name, ok := strings.Cut(header, " ")
		if !ok {
			return nil, fmt.Errorf("invalid tree entry header")
		}

		// RAW SHA (next 20 bytes)
		shaStart := i + nullIdx + 1
		shaEnd := shaStart + 20
		if shaEnd > len(content) {
			return nil, fmt.Errorf("truncated tree object")
		}

		var entrySHA [20]byte
		copy(entrySHA[:], content[shaStart:shaEnd])

		uint32Mode, err := parseMode(mode)
		if err != nil {
			return nil, fmt.Errorf("invalid mode format %q", mode)
		}

		entryType := types.BlobObject
		switch uint32Mode & constants.ModeTypeMask {
		case constants.ModeTree:
			entryType = types.TreeObject
		case constants.ModeGitlink:
			entryType = types.CommitObject
		}

		entries = append(entries, types.TreeEntry{
			Name: name,
			Mode: uint32Mode,
			SHA:  entrySHA,
			Type: entryType,
		})

		i = shaEnd
	}

	return entries, nil
}

// FlattenTree recursively walks a tree object and returns a flat map of path → TreeEntry for every non-tree entry (like Git's index representation).
func (r *Repository) FlattenTree(treeSHA [20]byte) (map[string]types.TreeEntry, error) {
	out := make(map[string]types.TreeEntry)
	err := r.flattenTreeRecur(treeSHA, "", out)
	return out, err
}

func (r *Repository) flattenTreeRecur(treeSHA [20]byte, prefix string, out map[string]types.TreeEntry) error {

	entries, err := r.ReadTreeCurrentLevel(treeSHA)
	if err != nil {
		return err
	}

	for _, e := range entries {
		p := e.Name
		if prefix != "" {
			p = path.Join(prefix, e.Name)
		}

		if e.Type == types.TreeObject {
			if err := r.flattenTreeRecur(e.SHA, p, out); err != nil {
				return err
			}
			continue
		}

		out[p] = types.TreeEntry{
			Name: p,
			Type: e.Type,
			SHA:  e.SHA,
			Mode: e.Mode,
		}
	}
	return nil
}

// loadHead flattens the HEAD tree once per handle. An unborn branch yields an empty tree.
func (r *Repository) loadHead() error {
	if r.headLoaded {
		return nil
	}

	commitSHA, ok, err := r.HeadCommit()
	if err != nil {
		return err
	}

	head := map[string]types.TreeEntry{}
	if ok {
		commit, err := r.ReadCommit(commitSHA)
		if err != nil {
			return err
		}
		if head, err = r.FlattenTree(commit.TreeSHA); err != nil {
			return err
		}
	}

	r.head = head
	r.headLoaded = true
	return nil
}

func parseMode(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	return uint32(v), err
}
