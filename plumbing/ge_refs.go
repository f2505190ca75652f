package plumbing

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brickster241/gels/utils/constants"
	"github.com/brickster241/gels/utils/types"
)

// ReadHEADInfo reads HEAD and determines whether it is detached. It returns the ref path (if symbolic) or the commit SHA (if detached).
func (r *Repository) ReadHEADInfo() (*types.HeadInfo, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return nil, err
	}

	// Symbolic Ref
	line := strings.TrimSpace(string(data))
	if strings.HasPrefix(line, constants.RefPrefix) {
		return &types.HeadInfo{
			Ref:      strings.TrimSpace(strings.TrimPrefix(line, constants.RefPrefix)),
			Detached: false,
		}, nil
	}

	// Detached HEAD
	sha, err := decodeSHA(line)
	if err != nil {
		return nil, fmt.Errorf("invalid HEAD contents")
	}

	return &types.HeadInfo{
		SHA:      sha,
		Detached: true,
	}, nil
}

// ResolveRef looks a full ref name (e.g. refs/heads/master) up in the loose refs, then in packed-refs. The boolean is false when the ref does not exist.
func (r *Repository) ResolveRef(ref string) ([20]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(r.CommonDir, filepath.FromSlash(ref)))
	if err == nil {
		sha, err := decodeSHA(strings.TrimSpace(string(data)))
		if err != nil {
			return [20]byte{}, false, fmt.Errorf("invalid ref %s", ref)
		}
		return sha, true, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return [20]byte{}, false, err
	}

	return r.readPackedRef(ref)
}

// readPackedRef scans packed-refs for ref. Lines are "<sha> <ref>", with "#" headers and "^" peeled tag lines.
func (r *Repository) readPackedRef(ref string) ([20]byte, bool, error) {
	f, err := os.Open(filepath.Join(r.CommonDir, "packed-refs"))
	if errors.Is(err, os.ErrNotExist) {
		return [20]byte{}, false, nil
	}
	if err != nil {
		return [20]byte{}, false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}

		shaHex, name, ok := strings.Cut(line, " ")
		if !ok || name != ref {
			continue
		}
		sha, err := decodeSHA(shaHex)
		if err != nil {
			return [20]byte{}, false, fmt.Errorf("invalid packed ref %s", ref)
		}
		return sha, true, nil
	}
	return [20]byte{}, false, scanner.Err()
}

// HeadCommit returns the commit HEAD points at. The boolean is false on an unborn branch (no commits yet).
func (r *Repository) HeadCommit() ([20]byte, bool, error) {
	head, err := r.ReadHEADInfo()
	if err != nil {
		return [20]byte{}, false, err
	}
	if head.Detached {
		return head.SHA, true, nil
	}
	return r.ResolveRef(head.Ref)
}

// UpdateRef points a ref at the given SHA, creating parent directories as needed.
func UpdateRef(gitDir, ref string, sha [20]byte) error {
	refPath := filepath.Join(gitDir, filepath.FromSlash(ref))

	// Create directory and file
	if err := os.MkdirAll(filepath.Dir(refPath), constants.DefaultDirPerm); err != nil {
		return err
	}

	return os.WriteFile(
		refPath,
		[]byte(hex.EncodeToString(sha[:])+"\n"),
		constants.DefaultFilePerm,
	)
}

func decodeSHA(s string) ([20]byte, error) {
	var sha [20]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return sha, err
	}
	if len(raw) != 20 {
		return sha, fmt.Errorf("invalid SHA length")
	}
	copy(sha[:], raw)
	return sha, nil
}
