// Package render turns entries into display strings: the plain fields measured for alignment, and the colored cells and rows printed by the layout.
package render

import (
	"math"
	"os/user"
	"strconv"
	"time"

	"github.com/brickster241/gels/utils/config"
	"github.com/brickster241/gels/utils/types"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	month  = 30 * day
	year   = 365 * day
)

// Formatter computes the plain display fields of entries. Owner and group names are looked up once per id.
type Formatter struct {
	symbols config.Symbols
	now     time.Time
	users   map[uint32]string
	groups  map[uint32]string
}

// NewFormatter creates a Formatter that measures ages against now.
func NewFormatter(symbols config.Symbols, now time.Time) *Formatter {
	return &Formatter{
		symbols: symbols,
		now:     now,
		users:   map[uint32]string{},
		groups:  map[uint32]string{},
	}
}

// Fields builds the user, age, size and name strings of one entry and measures them.
func (f *Formatter) Fields(meta types.Metadata, name string) types.DisplayFields {
	owner := f.userName(meta.UID) + f.symbols.UserSeparator + f.groupName(meta.GID)
	date, unit := Age(f.now, meta.ModTime, f.symbols)
	number, sizeUnit := Size(meta.Size, f.symbols)
	size := number + sizeUnit

	return types.DisplayFields{
		User:        owner,
		Date:        date,
		DateUnit:    unit,
		Size:        size,
		Name:        name,
		UserLen:     runewidth.StringWidth(owner),
		DateLen:     runewidth.StringWidth(date),
		DateUnitLen: runewidth.StringWidth(unit),
		SizeLen:     runewidth.StringWidth(size),
		NameLen:     runewidth.StringWidth(name),
	}
}

// Age returns how long ago mod was, as a number and a unit symbol. Times in the future count as zero seconds.
func Age(now, mod time.Time, symbols config.Symbols) (string, string) {
	secs := int64(now.Sub(mod) / time.Second)
	if secs < 0 {
		secs = 0
	}

	steps := []struct {
		below int64
		per   int64
		unit  string
	}{
		{minute, 1, symbols.DateSec},
		{hour, minute, symbols.DateMin},
		{day, hour, symbols.DateHour},
		{month, day, symbols.DateDay},
		{year, month, symbols.DateMon},
	}
	for _, s := range steps {
		if secs < s.below {
			return strconv.FormatInt(secs/s.per, 10), s.unit
		}
	}
	return strconv.FormatInt(secs/year, 10), symbols.DateYear
}

// Size returns a byte count in 1024 steps with at most one decimal, as a number and a unit symbol.
func Size(size int64, symbols config.Symbols) (string, string) {
	units := symbols.SizeUnits()
	if size < 1024 {
		return strconv.FormatInt(size, 10), units[0]
	}

	value := float64(size)
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	// FtoaWithDigits truncates, so round to one decimal first
	return humanize.FtoaWithDigits(math.Round(value*10)/10, 1), units[i]
}

func (f *Formatter) userName(uid uint32) string {
	if name, ok := f.users[uid]; ok {
		return name
	}

	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if u, err := user.LookupId(id); err == nil {
		name = u.Username
	}
	f.users[uid] = name
	return name
}

func (f *Formatter) groupName(gid uint32) string {
	if name, ok := f.groups[gid]; ok {
		return name
	}

	id := strconv.FormatUint(uint64(gid), 10)
	name := id
	if g, err := user.LookupGroupId(id); err == nil {
		name = g.Name
	}
	f.groups[gid] = name
	return name
}
