package plumbing

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/brickster241/gels/utils/types"
)

// Pack object type codes
const (
	packCommit   = 1
	packTree     = 2
	packBlob     = 3
	packTag      = 4
	packOfsDelta = 6
	packRefDelta = 7

	maxDeltaChain = 4096
)

var packTypes = map[byte]types.ObjectType{
	packCommit: types.CommitObject,
	packTree:   types.TreeObject,
	packBlob:   types.BlobObject,
	packTag:    types.TagObject,
}

// packFile is an opened .pack together with its parsed version 2 .idx.
type packFile struct {
	path    string
	file    *os.File
	fanout  [256]uint32
	shas    []byte // N * 20 bytes, sorted
	offsets []uint64
}

// loadPacks opens every pack under objects/pack once per handle.
func (r *Repository) loadPacks() error {
	if r.packsLoaded {
		return nil
	}
	r.packsLoaded = true

	idxFiles, err := filepath.Glob(filepath.Join(r.CommonDir, "objects", "pack", "*.idx"))
	if err != nil {
		return err
	}
	sort.Strings(idxFiles)

	for _, idx := range idxFiles {
		p, err := openPack(idx)
		if err != nil {
			return fmt.Errorf("open pack %s: %w", filepath.Base(idx), err)
		}
		r.packs = append(r.packs, p)
	}
	return nil
}

// openPack parses a version 2 pack index and opens the matching pack file.
func openPack(idxPath string) (*packFile, error) {
	data, err := os.ReadFile(idxPath)
	if err != nil {
		return nil, err
	}

	// Header: "\377tOc" + version 2, then the 256-entry fanout table
	if len(data) < 8+256*4 || !bytes.Equal(data[:4], []byte{0xff, 't', 'O', 'c'}) {
		return nil, fmt.Errorf("unsupported pack index format")
	}
	if v := binary.BigEndian.Uint32(data[4:8]); v != 2 {
		return nil, fmt.Errorf("unsupported pack index version: %d", v)
	}

	p := &packFile{path: strings.TrimSuffix(idxPath, ".idx") + ".pack"}
	offset := 8
	for i := 0; i < 256; i++ {
		p.fanout[i] = binary.BigEndian.Uint32(data[offset:])
		offset += 4
	}
	count := int(p.fanout[255])

	// SHA table, CRC table, 32-bit offsets, then the 64-bit offsets for large packs
	shaEnd := offset + count*20
	crcEnd := shaEnd + count*4
	offEnd := crcEnd + count*4
	if len(data) < offEnd+40 {
		return nil, fmt.Errorf("truncated pack index")
	}
	p.shas = data[offset:shaEnd]

	large := data[offEnd:]
	p.offsets = make([]uint64, count)
	for i := 0; i < count; i++ {
		off := binary.BigEndian.Uint32(data[crcEnd+i*4:])
		if off&0x80000000 == 0 {
			p.offsets[i] = uint64(off)
			continue
		}
		pos := int(off&0x7fffffff) * 8
		if pos+8 > len(large)-40 {
			return nil, fmt.Errorf("corrupt large offset in pack index")
		}
		p.offsets[i] = binary.BigEndian.Uint64(large[pos:])
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, err
	}
	p.file = f
	return p, nil
}

func (p *packFile) close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// find returns the pack offset of sha using the fanout table and a binary search.
func (p *packFile) find(sha [20]byte) (uint64, bool) {
	lo := 0
	if sha[0] > 0 {
		lo = int(p.fanout[sha[0]-1])
	}
	hi := int(p.fanout[sha[0]])

	i := lo + sort.Search(hi-lo, func(i int) bool {
		k := (lo + i) * 20
		return bytes.Compare(p.shas[k:k+20], sha[:]) >= 0
	})
	if i < hi && bytes.Equal(p.shas[i*20:i*20+20], sha[:]) {
		return p.offsets[i], true
	}
	return 0, false
}

// readAt inflates the object stored at offset, resolving delta chains.
func (p *packFile) readAt(r *Repository, offset uint64) (types.ObjectType, []byte, error) {
	return p.readAtDepth(r, offset, 0)
}

func (p *packFile) readAtDepth(r *Repository, offset uint64, depth int) (types.ObjectType, []byte, error) {
	if depth > maxDeltaChain {
		return "", nil, fmt.Errorf("delta chain too long in %s", filepath.Base(p.path))
	}

	br := bufio.NewReader(io.NewSectionReader(p.file, int64(offset), 1<<62))

	// Object header: 3-bit type and a variable-length size
	c, err := br.ReadByte()
	if err != nil {
		return "", nil, err
	}
	kind := (c >> 4) & 0x7
	for c&0x80 != 0 {
		if c, err = br.ReadByte(); err != nil {
			return "", nil, err
		}
	}

	switch kind {
	case packCommit, packTree, packBlob, packTag:
		content, err := inflate(br)
		return packTypes[kind], content, err

	case packOfsDelta:
		// Negative offset to the base, big-endian base-128 with an implicit +1 per continuation
		c, err := br.ReadByte()
		if err != nil {
			return "", nil, err
		}
		rel := uint64(c & 0x7f)
		for c&0x80 != 0 {
			if c, err = br.ReadByte(); err != nil {
				return "", nil, err
			}
			rel = ((rel + 1) << 7) | uint64(c&0x7f)
		}
		if rel == 0 || rel > offset {
			return "", nil, fmt.Errorf("invalid delta base offset in %s", filepath.Base(p.path))
		}

		delta, err := inflate(br)
		if err != nil {
			return "", nil, err
		}
		baseType, base, err := p.readAtDepth(r, offset-rel, depth+1)
		if err != nil {
			return "", nil, err
		}
		content, err := applyDelta(base, delta)
		return baseType, content, err

	case packRefDelta:
		var baseSHA [20]byte
		if _, err := io.ReadFull(br, baseSHA[:]); err != nil {
			return "", nil, err
		}
		delta, err := inflate(br)
		if err != nil {
			return "", nil, err
		}
		baseType, base, err := r.ReadObject(baseSHA)
		if err != nil {
			return "", nil, err
		}
		content, err := applyDelta(base, delta)
		return baseType, content, err
	}

	return "", nil, fmt.Errorf("unknown pack object type %d", kind)
}

func inflate(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// deltaSize reads a little-endian base-128 size from the start of a delta.
func deltaSize(b []byte) (int, int, error) {
	var size, shift uint
	for i := 0; i < len(b); i++ {
		size |= uint(b[i]&0x7f) << shift
		shift += 7
		if b[i]&0x80 == 0 {
			return int(size), i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("truncated delta header")
}

// applyDelta rebuilds an object from its base and a git delta (copy and insert instructions).
func applyDelta(base, delta []byte) ([]byte, error) {
	srcSize, n, err := deltaSize(delta)
	if err != nil {
		return nil, err
	}
	delta = delta[n:]
	if srcSize != len(base) {
		return nil, fmt.Errorf("delta base size mismatch: %d != %d", srcSize, len(base))
	}

	dstSize, n, err := deltaSize(delta)
	if err != nil {
		return nil, err
	}
	delta = delta[n:]

	out := make([]byte, 0, dstSize)
	for len(delta) > 0 {
		op := delta[0]
		delta = delta[1:]

		switch {
		case op&0x80 != 0:
			// Copy from base: up to 4 offset bytes and 3 size bytes, selected by the low bits of op
			var off, size int
			for i := 0; i < 4; i++ {
				if op&(1<<i) != 0 {
					if len(delta) == 0 {
						return nil, fmt.Errorf("truncated delta copy")
					}
					off |= int(delta[0]) << (8 * i)
					delta = delta[1:]
				}
			}
			for i := 0; i < 3; i++ {
				if op&(0x10<<i) != 0 {
					if len(delta) == 0 {
						return nil, fmt.Errorf("truncated delta copy")
					}
					size |= int(delta[0]) << (8 * i)
					delta = delta[1:]
				}
			}
			if size == 0 {
				size = 0x10000
			}
			if off+size > len(base) {
				return nil, fmt.Errorf("delta copy out of range")
			}
			out = append(out, base[off:off+size]...)

		case op != 0:
			// Insert the next op bytes literally
			if int(op) > len(delta) {
				return nil, fmt.Errorf("truncated delta insert")
			}
			out = append(out, delta[:op]...)
			delta = delta[op:]

		default:
			return nil, fmt.Errorf("invalid delta opcode 0")
		}
	}

	if len(out) != dstSize {
		return nil, fmt.Errorf("delta result size mismatch: %d != %d", len(out), dstSize)
	}
	return out, nil
}
