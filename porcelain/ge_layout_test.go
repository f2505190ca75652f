package porcelain_test

import (
	"bytes"
	"testing"

	"github.com/brickster241/gels/porcelain"
	"github.com/brickster241/gels/utils/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesNamed(names ...string) []types.Entry {
	entries := make([]types.Entry, len(names))
	for i, n := range names {
		entries[i] = types.Entry{Name: n, Fields: types.DisplayFields{Name: n, NameLen: len(n)}}
	}
	return entries
}

func TestLayoutGrid(t *testing.T) {
	entries := entriesNamed("aa", "bb", "cc", "dd")

	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"unknown width", 0, "aa|\nbb|\ncc|\ndd|\n\n"},
		{"negative width", -5, "aa|\nbb|\ncc|\ndd|\n\n"},
		{"width equals name", 2, "aa|\nbb|\ncc|\ndd|\n\n"},
		{"two columns", 8, "aa|bb|\ncc|dd|\n\n"},
		{"three columns", 10, "aa|bb|cc|\ndd|\n"},
		{"hundred names wide", 200, "aa|bb|cc|dd|\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, porcelain.Layout(&out, entries, types.Settings{}, plainRenderer{}, tt.width))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestLayoutGridPadsToWidestName(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, porcelain.Layout(&out, entriesNamed("a", "abcd"), types.Settings{}, plainRenderer{}, 80))
	assert.Equal(t, "a   |abcd|\n", out.String())
}

func TestLayoutGridEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, porcelain.Layout(&out, nil, types.Settings{}, plainRenderer{}, 80))
	assert.Equal(t, "\n", out.String())
}

func TestLayoutList(t *testing.T) {
	entries := []types.Entry{
		{Name: "small", Fields: types.DisplayFields{User: "me:me", UserLen: 5, Size: "1", SizeLen: 1}},
		{Name: "large", Fields: types.DisplayFields{User: "root:wheel", UserLen: 10, Size: "1.5K", SizeLen: 4}},
	}

	var out bytes.Buffer
	require.NoError(t, porcelain.Layout(&out, entries, types.Settings{List: true}, plainRenderer{}, 0))
	assert.Equal(t, "me:me         1 small\nroot:wheel 1.5K large\n", out.String())
}

func TestColumnWidthsOf(t *testing.T) {
	entries := []types.Entry{
		{Fields: types.DisplayFields{UserLen: 3, DateLen: 2, DateUnitLen: 4, SizeLen: 1}},
		{Fields: types.DisplayFields{UserLen: 7, DateLen: 1, DateUnitLen: 3, SizeLen: 5}},
	}
	assert.Equal(t, types.ColumnWidths{User: 7, Date: 2, DateUnit: 4, Size: 5}, porcelain.ColumnWidthsOf(entries))
	assert.Equal(t, 0, porcelain.MaxNameWidth(nil))
}
