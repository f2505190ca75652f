package render

import (
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/brickster241/gels/utils/config"
	"github.com/brickster241/gels/utils/types"
	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	symbols := config.DefaultConfig().Theme.Symbols
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name string
		ago  time.Duration
		num  string
		unit string
	}{
		{"just now", 0, "0", "sec"},
		{"in the future", -time.Hour, "0", "sec"},
		{"seconds", 59 * time.Second, "59", "sec"},
		{"one minute", time.Minute, "1", "min"},
		{"minutes", 59*time.Minute + 59*time.Second, "59", "min"},
		{"hours", 5 * time.Hour, "5", "hour"},
		{"days", 29 * 24 * time.Hour, "29", "day"},
		{"one month", 30 * 24 * time.Hour, "1", "mon"},
		{"months", 364 * 24 * time.Hour, "12", "mon"},
		{"one year", 365 * 24 * time.Hour, "1", "year"},
		{"decades", 20 * 365 * 24 * time.Hour, "20", "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, unit := Age(now, now.Add(-tt.ago), symbols)
			assert.Equal(t, tt.num, num)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestSize(t *testing.T) {
	symbols := config.DefaultConfig().Theme.Symbols

	tests := []struct {
		size int64
		num  string
		unit string
	}{
		{0, "0", "B"},
		{1023, "1023", "B"},
		{1024, "1", "K"},
		{1536, "1.5", "K"},
		{1100, "1.1", "K"},
		{5 * 1024 * 1024, "5", "M"},
		{3*1024*1024*1024 + 300*1024*1024, "3.3", "G"},
		{math.MaxInt64, "8192", "P"},
	}

	for _, tt := range tests {
		num, unit := Size(tt.size, symbols)
		assert.Equal(t, tt.num, num, "size %d", tt.size)
		assert.Equal(t, tt.unit, unit, "size %d", tt.size)
	}
}

func TestFormatterFields(t *testing.T) {
	symbols := config.DefaultConfig().Theme.Symbols
	now := time.Unix(1700000000, 0)
	f := NewFormatter(symbols, now)

	meta := types.Metadata{
		Size:    1536,
		ModTime: now.Add(-3 * time.Hour),
		UID:     uint32(os.Getuid()),
		GID:     uint32(os.Getgid()),
	}
	fields := f.Fields(meta, "日本.txt")

	assert.Equal(t, "1.5K", fields.Size)
	assert.Equal(t, 4, fields.SizeLen)
	assert.Equal(t, "3", fields.Date)
	assert.Equal(t, "hour", fields.DateUnit)
	assert.Equal(t, 8, fields.NameLen, "wide runes take two cells")
	assert.True(t, strings.Contains(fields.User, ":"))
	assert.Equal(t, len(fields.User), fields.UserLen)

	// Lookups are cached per id
	assert.Len(t, f.users, 1)
	f.Fields(meta, "again")
	assert.Len(t, f.users, 1)
}
