package model

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// DirPreview describes what an entry's path points at on disk, for the
// detail pane. The path string itself is canonical .pth form; the lookup
// happens against the host file system as-is.
type DirPreview struct {
	Path      string   // the entry value being previewed
	Exists    bool     // whether the directory is present
	IsDir     bool     // false when the path names a plain file
	Names     []string // first entries of the directory, sorted
	Truncated bool     // more entries exist than Names shows
	ErrorMsg  string   // set when the path could not be inspected
}

// PreviewLimit caps how many directory entries a preview lists.
const PreviewLimit = 12

// GetDirPreview inspects the target of a path entry so the UI can show
// whether it exists and a sample of its contents.
func GetDirPreview(path string) DirPreview {
	result := DirPreview{Path: path}

	// Expand tilde in the path
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home + path[1:]
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			result.ErrorMsg = fmt.Sprintf("Could not inspect path: %v", err)
		}
		return result
	}
	result.Exists = true
	result.IsDir = info.IsDir()
	if !result.IsDir {
		return result
	}

	dirents, err := os.ReadDir(path)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read directory: %v", err)
		return result
	}

	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		names = append(names, d.Name())
	}
	sort.Strings(names)
	if len(names) > PreviewLimit {
		names = names[:PreviewLimit]
		result.Truncated = true
	}
	result.Names = names
	return result
}
