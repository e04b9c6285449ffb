//go:build windows

package scanner

import "golang.org/x/sys/windows"

// hasHiddenAttribute checks the FILE_ATTRIBUTE_HIDDEN flag.
func hasHiddenAttribute(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
