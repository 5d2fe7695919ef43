package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// exportPrefix is how WhatsApp names exported chat files.
const exportPrefix = "WhatsApp Chat with "

type FileInfo struct {
	Path  string
	Name  string // chat name derived from the file name
	Mtime int64
	Size  int64
}

// ScanDir walks root for .txt files, skipping hidden directories. Results are
// ordered newest first.
func ScanDir(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Name:  ChatName(path),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Mtime != files[j].Mtime {
			return files[i].Mtime > files[j].Mtime
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// ChatName turns "WhatsApp Chat with Bob.txt" into "Bob". Other names lose
// only their extension.
func ChatName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(name, exportPrefix)
}
