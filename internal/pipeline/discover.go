package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/afero"

	"github.com/backmassage/tunesync/internal/progress"
)

// Discover walks root and returns every regular file, including symlinks to
// regular files, as a path relative to root in natural order ("track 2"
// before "track 10"). found, when non-nil, is advanced once per file.
//
// Entries below root that cannot be listed or stat'ed are returned in
// skipped and the walk carries on past them. Only a failure on root itself
// is returned as err.
func Discover(fsys afero.Fs, root string, found *progress.Counter) (files []string, skipped []*FilesystemError, err error) {
	err = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return &FilesystemError{Op: "walk", Path: path, Err: err}
			}
			skipped = append(skipped, &FilesystemError{Op: "walk", Path: path, Err: err})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := fsys.Stat(path)
			if err != nil {
				skipped = append(skipped, &FilesystemError{Op: "stat", Path: path, Err: err})
				return nil
			}
			// Directory links are not followed.
			info = target
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		if found != nil {
			found.Add(1)
		}
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}
	sort.Sort(natural.StringSlice(files))
	return files, skipped, nil
}
