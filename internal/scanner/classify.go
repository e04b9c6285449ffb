package scanner

import (
	"io/fs"
	"strings"
)

// EntryKind is the traversal-relevant classification of a directory entry.
type EntryKind int

const (
	// KindFile is a regular file, sized by a single metadata call.
	KindFile EntryKind = iota
	// KindDir is a directory the walker may descend into.
	KindDir
	// KindSymlink is a symbolic link. Links are never followed: they are
	// sized from their own metadata and reported as leaves, which keeps
	// cycles and double-counting out of the tree.
	KindSymlink
)

// Classify determines how the walker treats an entry. Entries that turn
// out to be unreadable surface as errors from their metadata calls and are
// absorbed there.
func Classify(entry fs.DirEntry) EntryKind {
	switch {
	case entry.Type()&fs.ModeSymlink != 0:
		return KindSymlink
	case entry.IsDir():
		return KindDir
	default:
		return KindFile
	}
}

// IsHidden reports whether an entry is hidden by the dot-prefix convention
// or by a platform hidden attribute.
func IsHidden(path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return hasHiddenAttribute(path)
}
