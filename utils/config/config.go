// Package config loads the gels ini file: listing settings, 256-color palette indexes and display symbols.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
	"gopkg.in/ini.v1"
)

// Colors holds 256-color palette indexes, section [colors].
type Colors struct {
	PermNone    int `ini:"perm_none"`
	PermExec    int `ini:"perm_exec"`
	PermRead    int `ini:"perm_read"`
	PermWrite   int `ini:"perm_write"`
	PermDir     int `ini:"perm_dir"`
	PermLink    int `ini:"perm_link"`
	PermSticky  int `ini:"perm_sticky"`
	PermSpecial int `ini:"perm_special"`
	PermBlock   int `ini:"perm_block"`
	PermUnknown int `ini:"perm_unknown"`
	PermOther   int `ini:"perm_other"`

	User          int `ini:"user"`
	Group         int `ini:"group"`
	UserSeparator int `ini:"user_separator"`

	SizeNumber int `ini:"size_number"`
	SizeByte   int `ini:"size_byte"`
	SizeKilo   int `ini:"size_kilo"`
	SizeMega   int `ini:"size_mega"`
	SizeGiga   int `ini:"size_giga"`
	SizeTera   int `ini:"size_tera"`
	SizePeta   int `ini:"size_peta"`

	DateNumber int `ini:"date_number"`
	DateSec    int `ini:"date_sec"`
	DateMin    int `ini:"date_min"`
	DateHour   int `ini:"date_hour"`
	DateDay    int `ini:"date_day"`
	DateMon    int `ini:"date_mon"`
	DateYear   int `ini:"date_year"`
	DateOther  int `ini:"date_other"`

	GitIgnore     int `ini:"git_ignore"`
	GitConflict   int `ini:"git_conflict"`
	GitModified   int `ini:"git_modified"`
	GitRenamed    int `ini:"git_renamed"`
	GitAdded      int `ini:"git_added"`
	GitTypeChange int `ini:"git_typechange"`
	GitUnreadable int `ini:"git_unreadable"`
	GitUntracked  int `ini:"git_untracked"`
	GitUnchanged  int `ini:"git_unchanged"`
	GitDirDirty   int `ini:"git_dir_dirty"`
	GitDirClean   int `ini:"git_dir_clean"`
	GitRepoDirty  int `ini:"git_repo_dirty"`
	GitRepoClean  int `ini:"git_repo_clean"`
}

// Symbols holds the display strings, section [symbols].
type Symbols struct {
	UserSeparator string `ini:"user_separator"`

	SizeByte string `ini:"size_byte"`
	SizeKilo string `ini:"size_kilo"`
	SizeMega string `ini:"size_mega"`
	SizeGiga string `ini:"size_giga"`
	SizeTera string `ini:"size_tera"`
	SizePeta string `ini:"size_peta"`

	DateSec  string `ini:"date_sec"`
	DateMin  string `ini:"date_min"`
	DateHour string `ini:"date_hour"`
	DateDay  string `ini:"date_day"`
	DateMon  string `ini:"date_mon"`
	DateYear string `ini:"date_year"`

	GitIgnore     string `ini:"git_ignore"`
	GitConflict   string `ini:"git_conflict"`
	GitModified   string `ini:"git_modified"`
	GitRenamed    string `ini:"git_renamed"`
	GitAdded      string `ini:"git_added"`
	GitTypeChange string `ini:"git_typechange"`
	GitUnreadable string `ini:"git_unreadable"`
	GitUntracked  string `ini:"git_untracked"`
	GitUnchanged  string `ini:"git_unchanged"`
	GitDirDirty   string `ini:"git_dir_dirty"`
	GitDirClean   string `ini:"git_dir_clean"`
	GitRepoDirty  string `ini:"git_repo_dirty"`
	GitRepoClean  string `ini:"git_repo_clean"`
}

// SizeUnits returns the size unit symbols in 1024 steps, bytes first.
func (s Symbols) SizeUnits() []string {
	return []string{s.SizeByte, s.SizeKilo, s.SizeMega, s.SizeGiga, s.SizeTera, s.SizePeta}
}

// Theme groups everything the renderer needs besides the settings.
type Theme struct {
	Colors  Colors
	Symbols Symbols
}

// Config is the loaded configuration of one run. It is never modified after loading.
type Config struct {
	Settings types.Settings
	Theme    Theme
	Path     string // file the values came from, "" for built-in defaults
}

// settingsSection mirrors [settings]; sort accepts a name or a number.
type settingsSection struct {
	ShowHidden      bool   `ini:"show_hidden"`
	List            bool   `ini:"list"`
	ResolveLinks    bool   `ini:"resolve_links"`
	Reversed        bool   `ini:"reversed"`
	DirsFirst       bool   `ini:"dirs_first"`
	Sort            string `ini:"sort"`
	Colors          bool   `ini:"colors"`
	SizeNumberColor bool   `ini:"size_number_color"`
	DateNumberColor bool   `ini:"date_number_color"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		Settings: types.DefaultSettings(),
		Theme: Theme{
			Colors: Colors{
				PermNone:    0,
				PermExec:    2,
				PermRead:    3,
				PermWrite:   1,
				PermDir:     4,
				PermLink:    6,
				PermSticky:  5,
				PermSpecial: 5,
				PermBlock:   5,
				PermUnknown: 1,
				PermOther:   7,

				User:          11,
				Group:         3,
				UserSeparator: 0,

				SizeNumber: 12,
				SizeByte:   4,
				SizeKilo:   4,
				SizeMega:   4,
				SizeGiga:   4,
				SizeTera:   4,
				SizePeta:   4,

				DateNumber: 10,
				DateSec:    2,
				DateMin:    2,
				DateHour:   2,
				DateDay:    2,
				DateMon:    2,
				DateYear:   2,
				DateOther:  2,

				GitIgnore:     0,
				GitConflict:   1,
				GitModified:   3,
				GitRenamed:    5,
				GitAdded:      2,
				GitTypeChange: 4,
				GitUnreadable: 9,
				GitUntracked:  8,
				GitUnchanged:  0,
				GitDirDirty:   1,
				GitDirClean:   0,
				GitRepoDirty:  1,
				GitRepoClean:  2,
			},
			Symbols: Symbols{
				UserSeparator: ":",

				SizeByte: "B",
				SizeKilo: "K",
				SizeMega: "M",
				SizeGiga: "G",
				SizeTera: "T",
				SizePeta: "P",

				DateSec:  "sec",
				DateMin:  "min",
				DateHour: "hour",
				DateDay:  "day",
				DateMon:  "mon",
				DateYear: "year",

				GitIgnore:     "!",
				GitConflict:   "X",
				GitModified:   "~",
				GitRenamed:    "R",
				GitAdded:      "+",
				GitTypeChange: "T",
				GitUnreadable: "-",
				GitUntracked:  "?",
				GitUnchanged:  " ",
				GitDirDirty:   "!",
				GitDirClean:   " ",
				GitRepoDirty:  "!",
				GitRepoClean:  "@",
			},
		},
	}
}

// DiscoverPath returns the first config file that exists: $XDG_CONFIG_HOME/gels.ini, ~/.gels.ini, then ./gels.ini. It returns "" when there is none.
func DiscoverPath() string {
	var candidates []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, constants.ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, constants.HiddenConfigName))
	}
	candidates = append(candidates, constants.ConfigFileName)

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LoadConfig reads path over the defaults. Keys missing from the file keep their default; an empty path or a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path

	// Settings go through an ini-tagged mirror, seeded with the defaults
	s := cfg.Settings
	section := settingsSection{
		ShowHidden:      s.ShowHidden,
		List:            s.List,
		ResolveLinks:    s.ResolveLinks,
		Reversed:        s.Reversed,
		DirsFirst:       s.DirsFirst,
		Sort:            s.Sort.String(),
		Colors:          s.Colors,
		SizeNumberColor: s.SizeNumberColor,
		DateNumberColor: s.DateNumberColor,
	}
	if err := file.Section("settings").MapTo(&section); err != nil {
		return cfg, fmt.Errorf("invalid [settings] in %s: %w", path, err)
	}
	sortKey, err := types.ParseSortKey(section.Sort)
	if err != nil {
		return cfg, fmt.Errorf("invalid [settings] in %s: %w", path, err)
	}
	cfg.Settings = types.Settings{
		ShowHidden:      section.ShowHidden,
		ResolveLinks:    section.ResolveLinks,
		Reversed:        section.Reversed,
		DirsFirst:       section.DirsFirst,
		Sort:            sortKey,
		List:            section.List,
		Colors:          section.Colors,
		SizeNumberColor: section.SizeNumberColor,
		DateNumberColor: section.DateNumberColor,
	}

	if err := file.Section("colors").MapTo(&cfg.Theme.Colors); err != nil {
		return cfg, fmt.Errorf("invalid [colors] in %s: %w", path, err)
	}
	if err := file.Section("symbols").MapTo(&cfg.Theme.Symbols); err != nil {
		return cfg, fmt.Errorf("invalid [symbols] in %s: %w", path, err)
	}
	return cfg, nil
}
