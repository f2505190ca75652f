package plumbing

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ConfigValue returns a "section.key" value from the repository's config file.
func (r *Repository) ConfigValue(key string) (string, error) {

	// Load the config file
	cfg, err := ini.Load(filepath.Join(r.CommonDir, "config"))
	if err != nil {
		return "", err
	}

	section, name, ok := strings.Cut(key, ".")
	if !ok {
		return "", fmt.Errorf("invalid config key: %s", key)
	}

	if !cfg.Section(section).HasKey(name) {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return cfg.Section(section).Key(name).String(), nil
}

// loadConfig reads the repository options that affect status. A missing or unparsable config keeps git's defaults.
func (r *Repository) loadConfig() {
	r.fileMode = true

	val, err := r.ConfigValue("core.filemode")
	if err != nil {
		return
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "false", "no", "off", "0":
		r.fileMode = false
	}
}
