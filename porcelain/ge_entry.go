package porcelain

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/brickster241/gels/utils/types"
)

// FieldFormatter computes the plain display strings of an entry and their widths.
type FieldFormatter interface {
	Fields(meta types.Metadata, name string) types.DisplayFields
}

// Diagnostics receives the non-fatal problems found while listing.
type Diagnostics interface {
	Warnf(format string, args ...any)
}

// Builder turns filesystem paths into annotated entries.
type Builder struct {
	settings types.Settings
	format   FieldFormatter
	diag     Diagnostics
}

// NewBuilder creates a Builder for one run.
func NewBuilder(settings types.Settings, format FieldFormatter, diag Diagnostics) *Builder {
	return &Builder{settings: settings, format: format, diag: diag}
}

// Build creates the entry for name inside directory, discovering the repository for this call only. directory is "" for bare path arguments.
func (b *Builder) Build(directory, name string) (types.Entry, error) {
	ctx := b.locate(filepath.Dir(joinDir(directory) + name))
	defer ctx.Close()

	return b.BuildIn(ctx, directory, name)
}

// BuildIn creates the entry for name inside directory using a repository context the caller already resolved.
func (b *Builder) BuildIn(ctx RepoContext, directory, name string) (types.Entry, error) {
	dir := joinDir(directory)
	full := dir + name

	meta, err := ResolveMetadata(full, b.settings.ResolveLinks)
	switch {
	case errors.Is(err, types.ErrUnsupported):
		b.diag.Warnf("%v", err)
	case err != nil:
		return types.Entry{}, err
	}

	entry := types.Entry{
		Directory:    dir,
		Name:         name,
		ResolvedPath: meta.ResolvedPath,
		Type:         meta.Type,
		Size:         meta.Size,
		ModTime:      meta.ModTime,
		Mode:         meta.Mode,
		UID:          meta.UID,
		GID:          meta.GID,
		IsDir:        meta.IsDir,
		LinkTarget:   meta.LinkTarget,
		Broken:       meta.Broken,
		Fields:       b.format.Fields(meta, name),
	}

	// Dangling links keep their own attributes and carry no status
	if meta.Broken {
		b.diag.Warnf("cannot access '%s': No such file or directory", name)
		return entry, nil
	}

	entry.Status = b.status(ctx, full, meta)
	return entry, nil
}

// status picks the path to query and dispatches to the file or directory lookup.
func (b *Builder) status(ctx RepoContext, full string, meta types.Metadata) types.Status {
	if ctx.Failed {
		return types.UnknownStatus()
	}

	if ctx.Repo == nil {
		if !meta.IsDir {
			return types.NoStatus()
		}
		st, err := NestedRepoStatus(meta.ResolvedPath)
		if err != nil {
			b.diag.Warnf("%v", err)
		}
		return st
	}

	// A resolved target outside the working tree falls back to the link itself
	rel, ok := relativeTo(ctx.Repo, meta.ResolvedPath)
	if !ok {
		if linkPath := canonicalPath(full); linkPath != meta.ResolvedPath {
			rel, ok = relativeTo(ctx.Repo, linkPath)
		}
	}
	if !ok {
		return types.NoStatus()
	}

	if meta.IsDir {
		return DirStatus(ctx.Repo, rel)
	}
	return FileStatus(ctx.Repo, rel)
}

// locate opens the repository enclosing dir. A repository that exists but cannot be opened is reported and marks the context as failed.
func (b *Builder) locate(dir string) RepoContext {
	repo, err := LocateRepository(dir)
	if err != nil {
		b.diag.Warnf("%v", err)
		return RepoContext{Failed: true}
	}
	return RepoContext{Repo: repo}
}

// joinDir normalises a directory to exactly one trailing separator. The empty directory stays empty.
func joinDir(directory string) string {
	if directory == "" {
		return ""
	}
	return strings.TrimRight(directory, string(filepath.Separator)) + string(filepath.Separator)
}
