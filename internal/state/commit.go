package state

import "strings"

// FieldSeparator separates the columns of a commit display record. The first
// column is always the commit identifier.
const FieldSeparator = " | "

const (
	minIDLength = 4
	maxIDLength = 64
)

// Commit is one entry of the commit log as shown to the user.
type Commit struct {
	Display string
}

// NewCommit joins the given columns into a display record.
func NewCommit(id string, columns ...string) Commit {
	fields := append([]string{id}, columns...)
	return Commit{Display: strings.Join(fields, FieldSeparator)}
}

// ID extracts the commit identifier from the display record. Records without
// a well-formed hexadecimal identifier yield an empty string.
func (c Commit) ID() string {
	field, _, _ := strings.Cut(c.Display, FieldSeparator)
	field = strings.TrimSpace(field)
	if len(field) < minIDLength || len(field) > maxIDLength {
		return ""
	}
	for _, r := range field {
		if !isHexDigit(r) {
			return ""
		}
	}
	return field
}

func (c Commit) String() string {
	return c.Display
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
