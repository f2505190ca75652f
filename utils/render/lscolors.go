package render

import (
	"path"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/brickster241/gels/utils/types"
	"github.com/fatih/color"
)

type lsGlob struct {
	pattern string
	attrs   []color.Attribute
}

// LSColors is a parsed LS_COLORS value: SGR attributes per file kind ("di", "ln", "ex", ...) and per name glob ("*.tar").
type LSColors struct {
	kinds map[string][]color.Attribute
	globs []lsGlob
}

// ParseLSColors parses a colon-separated list of key=SGR pairs. Malformed pairs are skipped.
func ParseLSColors(value string) LSColors {
	l := LSColors{kinds: map[string][]color.Attribute{}}

	for _, token := range strings.Split(value, ":") {
		key, codes, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			continue
		}
		attrs := parseSGR(codes)
		if len(attrs) == 0 {
			continue
		}

		if strings.ContainsAny(key, "*?[") {
			l.globs = append(l.globs, lsGlob{pattern: key, attrs: attrs})
			continue
		}
		l.kinds[key] = attrs
	}
	return l
}

func parseSGR(codes string) []color.Attribute {
	var attrs []color.Attribute
	for _, part := range strings.Split(codes, ";") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		attrs = append(attrs, color.Attribute(n))
	}
	return attrs
}

// For picks the attributes of an entry's name. File kinds come first, then executables, then the last matching glob. Nil means uncolored.
func (l LSColors) For(e types.Entry) []color.Attribute {
	kind := ""
	switch {
	case e.Broken:
		kind = "or"
	case e.Type == types.FileTypeDirectory:
		kind = "di"
	case e.Type == types.FileTypeSymlink:
		kind = "ln"
	case e.Type == types.FileTypeFifo:
		kind = "pi"
	case e.Type == types.FileTypeSocket:
		kind = "so"
	case e.Type == types.FileTypeBlockDevice:
		kind = "bd"
	case e.Type == types.FileTypeCharDevice:
		kind = "cd"
	}
	if kind != "" {
		return l.kinds[kind]
	}

	if e.Mode&0o111 != 0 {
		if attrs, ok := l.kinds["ex"]; ok {
			return attrs
		}
	}

	var match []color.Attribute
	base := path.Base(e.Name)
	for _, g := range l.globs {
		if ok, err := doublestar.Match(g.pattern, base); err == nil && ok {
			match = g.attrs
		}
	}
	if match != nil {
		return match
	}
	return l.kinds["fi"]
}
