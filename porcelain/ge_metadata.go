package porcelain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brickster241/gels/utils/types"
	"golang.org/x/sys/unix"
)

// ResolveMetadata stats path without following it. When resolveLinks is set and path is a symlink, the target's attributes replace the link's; a target that cannot be resolved keeps the link's own attributes and sets Broken.
// An unrecognised file type still yields usable metadata, together with an error wrapping types.ErrUnsupported.
func ResolveMetadata(path string, resolveLinks bool) (types.Metadata, error) {

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return types.Metadata{}, statError(path, err)
	}

	meta, typeErr := metadataFromStat(&st, canonicalPath(path))
	if meta.Type != types.FileTypeSymlink {
		return meta, typeErr
	}

	target, err := os.Readlink(path)
	if err != nil {
		meta.Broken = resolveLinks
		return meta, nil
	}
	meta.LinkTarget = target
	if !resolveLinks {
		return meta, nil
	}

	// Relative targets are relative to the directory holding the link
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(meta.ResolvedPath), target)
	}
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		meta.Broken = true
		return meta, nil
	}
	if resolved, err = filepath.Abs(resolved); err != nil {
		meta.Broken = true
		return meta, nil
	}

	var tst unix.Stat_t
	if err := unix.Lstat(resolved, &tst); err != nil {
		meta.Broken = true
		return meta, nil
	}

	linkTarget := meta.LinkTarget
	meta, typeErr = metadataFromStat(&tst, resolved)
	meta.LinkTarget = linkTarget
	return meta, typeErr
}

func metadataFromStat(st *unix.Stat_t, resolvedPath string) (types.Metadata, error) {
	mode := fileModeOf(uint32(st.Mode))
	fileType, err := types.FileTypeOf(mode)
	if err != nil {
		err = fmt.Errorf("%s: %w", resolvedPath, err)
	}

	sec, nsec := st.Mtim.Unix()
	return types.Metadata{
		Type:         fileType,
		Size:         st.Size,
		ModTime:      time.Unix(sec, nsec),
		Mode:         mode,
		UID:          st.Uid,
		GID:          st.Gid,
		IsDir:        fileType == types.FileTypeDirectory,
		ResolvedPath: resolvedPath,
	}, err
}

// fileModeOf converts a raw st_mode into os.FileMode bits.
func fileModeOf(raw uint32) os.FileMode {
	mode := os.FileMode(raw & 0o777)

	switch raw & unix.S_IFMT {
	case unix.S_IFREG:
	case unix.S_IFDIR:
		mode |= os.ModeDir
	case unix.S_IFLNK:
		mode |= os.ModeSymlink
	case unix.S_IFIFO:
		mode |= os.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= os.ModeSocket
	case unix.S_IFBLK:
		mode |= os.ModeDevice
	case unix.S_IFCHR:
		mode |= os.ModeDevice | os.ModeCharDevice
	default:
		mode |= os.ModeIrregular
	}

	if raw&unix.S_ISUID != 0 {
		mode |= os.ModeSetuid
	}
	if raw&unix.S_ISGID != 0 {
		mode |= os.ModeSetgid
	}
	if raw&unix.S_ISVTX != 0 {
		mode |= os.ModeSticky
	}
	return mode
}

// canonicalPath makes path absolute and evaluates symlinks in its directory part only, so a link keeps its own name.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	dir, base := filepath.Split(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Join(dir, base)
}

// statError maps a failed stat or open onto the error taxonomy.
func statError(path string, err error) error {
	if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
		return fmt.Errorf("cannot access '%s': %w", path, types.ErrNotFound)
	}
	if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
		return fmt.Errorf("cannot access '%s': %w", path, types.ErrInaccessible)
	}
	return fmt.Errorf("cannot access '%s': %w: %v", path, types.ErrInaccessible, err)
}
