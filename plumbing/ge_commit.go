package plumbing

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/brickster241/gels/utils/types"
)

// WriteCommit creates a Git commit object, writes it to the object database, and returns the commit SHA.
func WriteCommit(gitDir string, treeSHA [20]byte, parentsSHA [][20]byte, author types.Author, message string, when time.Time) ([20]byte, error) {
	var content bytes.Buffer

	// Tree Line : "tree <sha_hex>\n"
	content.WriteString("tree ")
	content.WriteString(hex.EncodeToString(treeSHA[:]))
	content.WriteByte('\n')

	// Parent Line per parent (if exists) : "parent <sha_parent1>\n"
	for _, parentSHA := range parentsSHA {
		content.WriteString("parent ")
		content.WriteString(hex.EncodeToString(parentSHA[:]))
		content.WriteByte('\n')
	}

	// Calculate sign, and timezone
	_, offset := when.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	tz := fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset%3600)/60)

	// Author and committer lines : "<role> <name> <email> <timestamp> <timezone>"
	for _, role := range []string{"author", "committer"} {
		fmt.Fprintf(&content, "%s %s <%s> %d %s\n", role, author.Name, author.Email, when.Unix(), tz)
	}

	// blank line before message, message must end with newline
	content.WriteByte('\n')
	content.WriteString(message)
	content.WriteByte('\n')

	return WriteObject(gitDir, types.CommitObject, content.Bytes())
}

// ReadCommit reads and parses a commit object from the object database.
func (r *Repository) ReadCommit(sha [20]byte) (*types.CommitNode, error) {
	objType, data, err := r.ReadObject(sha)
	if err != nil {
		return nil, err
	}

	// Check whether it is a commit object
	if objType != types.CommitObject {
		return nil, fmt.Errorf("object %x is not a commit", sha)
	}

	lines := strings.Split(string(data), "\n")
	var c types.CommitNode
	i := 0

	// Parse headers until the blank line
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}

		switch {
		case strings.HasPrefix(line, "tree "):
			tree, err := decodeSHA(line[5:])
			if err != nil {
				return nil, fmt.Errorf("invalid tree line in commit %x", sha)
			}
			c.TreeSHA = tree

		case strings.HasPrefix(line, "parent "):
			parent, err := decodeSHA(line[7:])
			if err != nil {
				return nil, fmt.Errorf("invalid parent line in commit %x", sha)
			}
			c.ParentsSHA = append(c.ParentsSHA, parent)

		case strings.HasPrefix(line, "author "):
			c.Author = parseAuthor(line[7:])

		case strings.HasPrefix(line, "committer "):
			c.Committer = line[10:]
		}
	}

	// Remaining Lines = commit message
	if i < len(lines) {
		c.Message = strings.Join(lines[i:], "\n")
	}
	return &c, nil
}

// parseAuthor splits "Name Surname <email> 1700000000 +0000".
func parseAuthor(s string) types.Author {
	open := strings.IndexByte(s, '<')
	end := strings.IndexByte(s, '>')
	if open < 0 || end < open {
		return types.Author{Name: strings.TrimSpace(s)}
	}
	return types.Author{
		Name:  strings.TrimSpace(s[:open]),
		Email: s[open+1 : end],
	}
}
