package plumbing

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/brickster241/gels/utils/constants"
)

// ignoreRule is one parsed line of a .gitignore or info/exclude file.
type ignoreRule struct {
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool   // pattern contains a slash: match the path below base, not just the basename
	base     string // directory holding the ignore file, relative to the root
}

// IgnoreMatcher evaluates git ignore rules for paths of one working tree. Per-directory .gitignore files are read on first use.
type IgnoreMatcher struct {
	root    string
	exclude []ignoreRule
	perDir  map[string][]ignoreRule
}

// NewIgnoreMatcher loads info/exclude; .gitignore files are read lazily.
func NewIgnoreMatcher(root, gitDir string) *IgnoreMatcher {
	return &IgnoreMatcher{
		root:    root,
		exclude: readIgnoreFile(filepath.Join(gitDir, "info", "exclude"), ""),
		perDir:  map[string][]ignoreRule{},
	}
}

// Ignored reports whether the slash-separated path rel is ignored. A path below an ignored directory is ignored too.
func (m *IgnoreMatcher) Ignored(rel string, isDir bool) bool {
	if rel == "" {
		return false
	}

	// Check each ancestor directory first, shortest first
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && m.match(rel[:i], true) {
			return true
		}
	}
	return m.match(rel, isDir)
}

// match applies every rule that can see rel, lowest precedence first; the last matching rule wins.
func (m *IgnoreMatcher) match(rel string, isDir bool) bool {
	ignored := false
	apply := func(rules []ignoreRule) {
		for _, rule := range rules {
			if rule.matches(rel, isDir) {
				ignored = !rule.negate
			}
		}
	}

	apply(m.exclude)

	// .gitignore files from the root down to rel's parent
	apply(m.rulesFor(""))
	parent := path.Dir(rel)
	if parent != "." {
		for i := 0; i <= len(parent); i++ {
			if i == len(parent) || parent[i] == '/' {
				apply(m.rulesFor(parent[:i]))
			}
		}
	}
	return ignored
}

func (m *IgnoreMatcher) rulesFor(dir string) []ignoreRule {
	if rules, ok := m.perDir[dir]; ok {
		return rules
	}
	rules := readIgnoreFile(filepath.Join(m.root, filepath.FromSlash(dir), constants.IgnoreFileName), dir)
	m.perDir[dir] = rules
	return rules
}

func (rule ignoreRule) matches(rel string, isDir bool) bool {
	if rule.dirOnly && !isDir {
		return false
	}

	sub := rel
	if rule.base != "" {
		if !strings.HasPrefix(rel, rule.base+"/") {
			return false
		}
		sub = rel[len(rule.base)+1:]
	}
	if !rule.anchored {
		sub = path.Base(sub)
	}

	ok, err := doublestar.Match(rule.pattern, sub)
	return err == nil && ok
}

// readIgnoreFile parses an ignore file; a missing or unreadable file yields no rules.
func readIgnoreFile(filePath, base string) []ignoreRule {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	var rules []ignoreRule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if rule, ok := parseIgnoreLine(scanner.Text(), base); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// parseIgnoreLine turns one gitignore line into a rule. Blank lines and comments yield false.
func parseIgnoreLine(line, base string) (ignoreRule, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || line[0] == '#' {
		return ignoreRule{}, false
	}

	rule := ignoreRule{base: base}
	switch {
	case line[0] == '!':
		rule.negate = true
		line = line[1:]
	case strings.HasPrefix(line, `\#`), strings.HasPrefix(line, `\!`):
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if strings.Contains(line, "/") {
		rule.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return ignoreRule{}, false
	}

	rule.pattern = line
	return rule, true
}
