package porcelain

import (
	"cmp"
	"sort"
	"strings"

	"github.com/brickster241/gels/utils/types"
)

// SortEntries orders entries in place. With DirsFirst, directories precede everything else whatever the reverse flag says. Within each group entries follow the sort key: names ascend, modification times and sizes descend (newest and largest first). Reversed flips the key order only.
// Ties keep no particular order beyond what the stable sort preserves from enumeration.
func SortEntries(entries []types.Entry, settings types.Settings) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		if settings.DirsFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}

		c := compareKey(a, b, settings.Sort)
		if settings.Reversed {
			c = -c
		}
		return c < 0
	})
}

// compareKey is a three-way comparison, so large sizes or times cannot overflow a difference.
func compareKey(a, b types.Entry, key types.SortKey) int {
	switch key {
	case types.SortModified:
		return b.ModTime.Compare(a.ModTime)
	case types.SortSize:
		return cmp.Compare(b.Size, a.Size)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}
