package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Marker is the filename prefix that marks a source file as processed.
// Files carrying it are excluded from source scans, which is what makes
// reruns incremental.
const Marker = "[ds]"

// Sources lists every unprocessed Markdown file under root, in walk order.
func Sources(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, Marker) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan source directory: %w", err)
	}
	return paths, nil
}

// MarkDone renames path with the Marker prefix, in place within its
// directory. A stale marked file from an earlier partial run is removed
// first so the rename cannot fail on collision.
func MarkDone(path string) error {
	dir, name := filepath.Split(path)
	target := filepath.Join(dir, Marker+name)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale marker %s: %w", target, err)
	}
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}
