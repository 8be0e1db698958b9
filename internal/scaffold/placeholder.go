package scaffold

import (
	"os"
	"path/filepath"

	"commitnotes/internal/common"
	"commitnotes/pkg/errors"
	"commitnotes/pkg/models"
)

// Suffixes lists the note variants created per commit: English, then Chinese
var Suffixes = []string{"", "_zh"}

// PlaceholderPaths returns the note files that belong to rec inside dir
func PlaceholderPaths(rec models.CommitRecord, dir string) []string {
	paths := make([]string, 0, len(Suffixes))
	for _, suffix := range Suffixes {
		paths = append(paths, filepath.Join(dir, rec.ShortHash()+suffix+".md"))
	}
	return paths
}

// Scaffold makes sure both placeholder notes for rec exist in dir. Files that
// already exist are left alone. It returns the paths created by this call.
func Scaffold(rec models.CommitRecord, dir string) ([]string, error) {
	var created []string
	for _, path := range PlaceholderPaths(rec, dir) {
		ok, err := createEmpty(path)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, path)
		}
	}
	return created, nil
}

// createEmpty creates path exclusively, so an existing note is never truncated
func createEmpty(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, common.FilePermissionNormal)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, errors.FilesystemError("create placeholder", path, err)
	}
	if err := f.Close(); err != nil {
		return true, errors.FilesystemError("close placeholder", path, err)
	}
	return true, nil
}
