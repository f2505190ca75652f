package porcelain

import (
	"os"
	"strings"

	"github.com/brickster241/gels/utils/types"
)

// ListDir builds an entry for every immediate child of path, in enumeration order. Dot-names are skipped unless hidden files are shown.
// The repository is located once for the whole directory and released before returning. Children that cannot be built are reported and dropped.
func (b *Builder) ListDir(path string) ([]types.Entry, error) {

	names, err := readNames(path)
	if err != nil {
		return nil, statError(path, err)
	}

	ctx := b.locate(path)
	defer ctx.Close()

	entries := make([]types.Entry, 0, len(names))
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		if strings.HasPrefix(name, ".") && !b.settings.ShowHidden {
			continue
		}

		entry, err := b.BuildIn(ctx, path, name)
		if err != nil {
			b.diag.Warnf("%v", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// readNames returns the directory's children unsorted.
func readNames(path string) ([]string, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	return dir.Readdirnames(-1)
}
