//go:build !windows

package scanner

// hasHiddenAttribute is a no-op outside Windows; the dot-prefix convention
// covers hidden entries there.
func hasHiddenAttribute(path string) bool {
	return false
}
