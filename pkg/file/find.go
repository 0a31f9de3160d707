package file

import (
	"os"
	"path/filepath"
	"time"
)

// FindRecentAfter walks dir and returns every path (files and directories)
// modified after startTime.
func FindRecentAfter(dir string, startTime time.Time) ([]string, error) {
	var recent []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.ModTime().After(startTime) {
			recent = append(recent, path)
		}
		return nil
	})

	return recent, err
}
