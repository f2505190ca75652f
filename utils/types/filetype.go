package types

import (
	"fmt"
	"os"
)

// FileType discriminates the kind of filesystem object behind an Entry.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeSymlink
	FileTypeBlockDevice
	FileTypeCharDevice
	FileTypeFifo
	FileTypeSocket
)

func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "file"
	case FileTypeDirectory:
		return "directory"
	case FileTypeSymlink:
		return "symlink"
	case FileTypeBlockDevice:
		return "block device"
	case FileTypeCharDevice:
		return "char device"
	case FileTypeFifo:
		return "fifo"
	case FileTypeSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// FileTypeOf maps Go file mode bits to a FileType. Unrecognised modes return FileTypeUnknown and ErrUnsupported.
func FileTypeOf(mode os.FileMode) (FileType, error) {
	switch {
	case mode.IsRegular():
		return FileTypeRegular, nil
	case mode&os.ModeDir != 0:
		return FileTypeDirectory, nil
	case mode&os.ModeSymlink != 0:
		return FileTypeSymlink, nil
	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice != 0:
		return FileTypeCharDevice, nil
	case mode&os.ModeDevice != 0:
		return FileTypeBlockDevice, nil
	case mode&os.ModeNamedPipe != 0:
		return FileTypeFifo, nil
	case mode&os.ModeSocket != 0:
		return FileTypeSocket, nil
	}
	return FileTypeUnknown, fmt.Errorf("%w: mode %v", ErrUnsupported, mode)
}
