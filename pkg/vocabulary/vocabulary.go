// Package vocabulary describes the Library of Congress authority partitions
// the service reconciles against, and the static service metadata handed
// to reconciliation clients.
package vocabulary

import "strings"

// Partition selects an authority sub-index. The zero value is the
// unrestricted index covering every authority vocabulary.
type Partition string

// Known partitions. Values are the path segments used by id.loc.gov.
const (
	Unrestricted Partition = ""
	Names        Partition = "/names"
	Subjects     Partition = "/subjects"
)

// Parse maps a caller-supplied type identifier onto a Partition.
// Identifiers are compared case-insensitively; anything outside the
// accepted set selects Unrestricted rather than failing.
func Parse(id string) Partition {
	switch strings.ToLower(id) {
	case "names", "/names":
		return Names
	case "subjects", "/subjects":
		return Subjects
	default:
		// "", "all" and every unrecognized value
		return Unrestricted
	}
}

// Path returns the partition path segment including its leading slash,
// or "" for Unrestricted.
func (p Partition) Path() string {
	return string(p)
}

// Segment returns the partition name without its leading slash.
func (p Partition) Segment() string {
	return strings.TrimPrefix(string(p), "/")
}

// String implements fmt.Stringer.
func (p Partition) String() string {
	if p == Unrestricted {
		return "all"
	}
	return p.Segment()
}
