// Package ops implements the file actions a presentation layer dispatches
// from a context menu: revealing an item in the platform file manager,
// deleting it, and reading its properties. The menu itself lives in the
// host application; this package only performs the side effects.
package ops

// Open reveals the given path in the platform file manager.
func Open(path string) error {
	return openInFileManager(path)
}
