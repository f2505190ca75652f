package plumbing

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
)

// ErrObjectNotFound is returned when an object is in neither the loose store nor any pack.
var ErrObjectNotFound = errors.New("object not found")

// HashObject computes the SHA-1 hash of a Git object WITHOUT writing it to disk. It constructs the canonical Git object format "<type> <size>\0<content>".
func HashObject(objType types.ObjectType, content []byte) [20]byte {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", objType, len(content))
	h.Write(content)

	var sum [20]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// HashWorktreeFile computes the blob SHA of a working tree path the way git would store it. Symlinks hash their target string.
func HashWorktreeFile(path string, info os.FileInfo) ([20]byte, error) {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return [20]byte{}, err
		}
		return HashObject(types.BlobObject, []byte(target)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return [20]byte{}, err
	}
	return HashObject(types.BlobObject, data), nil
}

// WriteObject writes a loose Git object (blob, tree, or commit) under <gitDir>/objects. If the object already exists, it is NOT rewritten.
func WriteObject(gitDir string, objType types.ObjectType, content []byte) ([20]byte, error) {

	// Get SHA-1 Hash for file content
	sha := HashObject(objType, content)

	// Get SHA Hex, then calculate dir/path (aa/bbbbb....)
	hexSha := hex.EncodeToString(sha[:])
	dir := filepath.Join(gitDir, "objects", hexSha[:2])
	filePath := filepath.Join(dir, hexSha[2:])

	// If object already exists, do nothing
	if _, err := os.Stat(filePath); err == nil {
		return sha, nil
	} else if !os.IsNotExist(err) {
		return [20]byte{}, err
	}

	// Create directory
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return [20]byte{}, err
	}

	// "<type> <size>\0<content>"
	header := fmt.Sprintf("%s %d\x00", objType, len(content))
	store := append([]byte(header), content...)

	// Z-lib compress and write the object
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(store); err != nil {
		return [20]byte{}, err
	}

	// Close the writer
	if err := w.Close(); err != nil {
		return [20]byte{}, err
	}

	if err := os.WriteFile(filePath, buf.Bytes(), constants.DefaultFilePerm); err != nil {
		return [20]byte{}, err
	}

	return sha, nil
}

// ReadObject reads and inflates an object, from the loose store first and then from the packs. It returns the object type and the raw content WITHOUT header.
func (r *Repository) ReadObject(sha [20]byte) (types.ObjectType, []byte, error) {
	objType, content, err := readLooseObject(r.CommonDir, sha)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return objType, content, err
	}

	// Fall back to the pack files
	if err := r.loadPacks(); err != nil {
		return "", nil, err
	}
	for _, p := range r.packs {
		if offset, ok := p.find(sha); ok {
			return p.readAt(r, offset)
		}
	}
	return "", nil, fmt.Errorf("%w: %x", ErrObjectNotFound, sha)
}

// readLooseObject reads .git/objects/aa/bbbb... and splits off the header.
func readLooseObject(gitDir string, sha [20]byte) (types.ObjectType, []byte, error) {

	shaHex := hex.EncodeToString(sha[:])
	filePath := filepath.Join(gitDir, "objects", shaHex[:2], shaHex[2:])
	f, err := os.Open(filePath)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	// Z-lib decompress and read the object
	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, err
	}

	// Split Header, Content -> then Header to parts
	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx == -1 {
		return "", nil, fmt.Errorf("corrupt object %s", shaHex)
	}

	header := string(data[:nullIdx])
	content := data[nullIdx+1:]

	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("invalid object header in %s", shaHex)
	}

	return types.ObjectType(parts[0]), content, nil
}
