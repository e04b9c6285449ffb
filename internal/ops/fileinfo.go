package ops

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// FileInfo holds the properties shown for a tree item.
type FileInfo struct {
	Name     string
	Path     string
	Size     int64
	IsDir    bool
	Mode     fs.FileMode
	Modified time.Time
	MimeType string // empty for directories and unreadable files
}

// Properties reads the metadata for a single path. MIME detection reads a
// small prefix of the file; failures there leave the field empty rather
// than failing the call.
func Properties(path string) (FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return FileInfo{}, err
	}

	fi := FileInfo{
		Name:     info.Name(),
		Path:     abs,
		Size:     info.Size(),
		IsDir:    info.IsDir(),
		Mode:     info.Mode(),
		Modified: info.ModTime(),
	}

	if info.Mode().IsRegular() {
		if mt, err := mimetype.DetectFile(abs); err == nil {
			fi.MimeType = mt.String()
		}
	}

	return fi, nil
}
