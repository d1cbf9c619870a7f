package storage

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
)

var imagePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

// ListImages returns the image filenames in dir, in directory order. A
// missing directory is reported and yields an empty list, not a failure.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Images directory not found", "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imagePattern.MatchString(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
