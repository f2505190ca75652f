package plumbing

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
	"golang.org/x/sys/unix"
)

const (
	indexFlagExtended = 0x4000
	indexFlagNameMask = 0x0FFF
)

// LoadIndex reads <gitDir>/index and returns the list of IndexEntry. Versions 2 and 3 are supported.
func LoadIndex(gitDir string) ([]types.IndexEntry, error) {

	indexPath := filepath.Join(gitDir, "index")
	if _, err := os.Stat(indexPath); errors.Is(err, os.ErrNotExist) {
		return []types.IndexEntry{}, nil // No index file yet
	}

	// Read the entire index file
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, err
	}

	// Check index file size
	if len(data) < 12+20 {
		return nil, fmt.Errorf("index file is too short")
	}

	// Validate header, version and get entry count
	if string(data[:4]) != "DIRC" {
		return nil, fmt.Errorf("invalid index file header")
	}

	version := binary.BigEndian.Uint32(data[4:8])
	if version != 2 && version != 3 {
		return nil, fmt.Errorf("unsupported index version: %d", version)
	}

	entryCount := binary.BigEndian.Uint32(data[8:12])

	// Parse entries
	content := data[:len(data)-20]
	entries := make([]types.IndexEntry, 0, entryCount)
	offset := 12

	// Loop through entries
	for i := uint32(0); i < entryCount; i++ {
		entryStart := offset // Track where this entry starts
		if offset+62 > len(content) {
			return nil, fmt.Errorf("corrupt index entry")
		}

		// Read fixed-size fields
		var ie types.IndexEntry
		ie.Ctime = binary.BigEndian.Uint32(content[offset:])
		ie.CtimeNs = binary.BigEndian.Uint32(content[offset+4:])
		ie.Mtime = binary.BigEndian.Uint32(content[offset+8:])
		ie.MtimeNs = binary.BigEndian.Uint32(content[offset+12:])
		ie.Dev = binary.BigEndian.Uint32(content[offset+16:])
		ie.Ino = binary.BigEndian.Uint32(content[offset+20:])
		ie.Mode = binary.BigEndian.Uint32(content[offset+24:])
		ie.Uid = binary.BigEndian.Uint32(content[offset+28:])
		ie.Gid = binary.BigEndian.Uint32(content[offset+32:])
		ie.FileSize = binary.BigEndian.Uint32(content[offset+36:])
		offset += 40

		copy(ie.SHA1[:], content[offset:offset+20])
		offset += 20

		// Read flags, including filename length and stage
		ie.Flags = binary.BigEndian.Uint16(content[offset:])
		offset += 2

		// Version 3 entries may carry a second flags word
		if version == 3 && ie.Flags&indexFlagExtended != 0 {
			if offset+2 > len(content) {
				return nil, fmt.Errorf("corrupt index entry")
			}
			ie.ExtFlags = binary.BigEndian.Uint16(content[offset:])
			offset += 2
		}

		start := offset
		for offset < len(content) && content[offset] != 0 {
			offset++
		}
		if offset >= len(content) {
			return nil, fmt.Errorf("unterminated filename in index")
		}

		ie.Filename = string(content[start:offset])
		offset++ // Skip null terminator

		// Align to next multiple of 8 bytes FROM THE ENTRY START
		entryLen := offset - entryStart
		for (entryLen % 8) != 0 {
			offset++
			entryLen++
		}

		// Append entry to list
		entries = append(entries, ie)
	}

	return entries, nil
}

// WriteIndex writes entries to <gitDir>/index (handles adding each entry + checksum). The index is version 2 unless an entry carries extended flags.
func WriteIndex(gitDir string, entries []types.IndexEntry) error {

	var buffer []byte

	version := uint32(2)
	for _, entry := range entries {
		if entry.ExtFlags != 0 {
			version = 3
			break
		}
	}

	// 12-byte header: "DIRC" + version + entry count
	buffer = append(buffer, []byte("DIRC")...)
	buffer = binary.BigEndian.AppendUint32(buffer, version)
	buffer = binary.BigEndian.AppendUint32(buffer, uint32(len(entries))) // entry count

	// Add each index entry
	for _, entry := range entries {

		entryStart := len(buffer)

		// 40 bytes of metadata
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Ctime)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.CtimeNs)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Mtime)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.MtimeNs)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Dev)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Ino)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Mode)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Uid)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.Gid)
		buffer = binary.BigEndian.AppendUint32(buffer, entry.FileSize)

		// 20 bytes SHA-1
		buffer = append(buffer, entry.SHA1[:]...)

		// Flags field only has 12 bits for length (max 4095)
		nameLen := len(entry.Filename)
		if nameLen > indexFlagNameMask {
			nameLen = indexFlagNameMask
		}

		// Keep the stage bits, replace the length
		flags := entry.Flags&^(indexFlagNameMask|indexFlagExtended) | uint16(nameLen)
		if entry.ExtFlags != 0 {
			flags |= indexFlagExtended
		}
		buffer = binary.BigEndian.AppendUint16(buffer, flags)
		if entry.ExtFlags != 0 {
			buffer = binary.BigEndian.AppendUint16(buffer, entry.ExtFlags)
		}

		// Write the FULL filename (not truncated!) and its null terminator
		buffer = append(buffer, []byte(entry.Filename)...)
		buffer = append(buffer, 0x00)

		// Padding: entries must be padded to multiple of 8 bytes from entryStart
		entryLen := len(buffer) - entryStart
		padLen := (8 - (entryLen % 8)) % 8
		buffer = append(buffer, make([]byte, padLen)...)
	}

	// 20-byte SHA-1 checksum of all previous contents
	hash := sha1.Sum(buffer)
	buffer = append(buffer, hash[:]...)

	return os.WriteFile(filepath.Join(gitDir, "index"), buffer, constants.DefaultFilePerm)
}

// SortIndex sorts entries by filename then stage, as required by Git.
func SortIndex(entries []types.IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Filename != entries[j].Filename {
			return entries[i].Filename < entries[j].Filename
		}
		return entries[i].Stage() < entries[j].Stage()
	})
}

// GetIndexEntryFromStat creates a fully populated index entry from the current filesystem state of path. name is the repository-relative filename to record.
func GetIndexEntryFromStat(path, name string, sha1sum [20]byte) (types.IndexEntry, error) {

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return types.IndexEntry{}, err
	}

	return types.IndexEntry{
		Ctime:    uint32(st.Ctim.Sec),
		CtimeNs:  uint32(st.Ctim.Nsec),
		Mtime:    uint32(st.Mtim.Sec),
		MtimeNs:  uint32(st.Mtim.Nsec),
		Dev:      uint32(st.Dev),
		Ino:      uint32(st.Ino),
		Mode:     indexModeOf(uint32(st.Mode)),
		Uid:      st.Uid,
		Gid:      st.Gid,
		FileSize: uint32(st.Size),
		SHA1:     sha1sum,
		Filename: filepath.ToSlash(filepath.Clean(name)),
	}, nil
}

// indexModeOf maps a raw st_mode to the mode git records: symlink, executable or regular file.
func indexModeOf(mode uint32) uint32 {
	switch {
	case mode&unix.S_IFMT == unix.S_IFLNK:
		return constants.ModeSymlink
	case mode&0o111 != 0:
		return constants.ModeExecutable
	default:
		return constants.ModeFile
	}
}

// loadIndex reads the index once per handle and groups entries by path.
func (r *Repository) loadIndex() error {
	if r.indexLoaded {
		return nil
	}

	entries, err := LoadIndex(r.GitDir)
	if err != nil {
		return err
	}

	byPath := make(map[string][]types.IndexEntry, len(entries))
	for _, e := range entries {
		byPath[e.Filename] = append(byPath[e.Filename], e)
	}

	r.index = entries
	r.indexByPath = byPath
	r.indexLoaded = true
	return nil
}
