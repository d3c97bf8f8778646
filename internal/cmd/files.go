package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/ezerfernandes/mdinclude/internal/config"
)

var errStdinMixed = errors.New("'-' (stdin) cannot be combined with other paths")

// collect expands paths into the list of files to process. Files are taken
// as given; directories are walked and filtered by the include patterns.
func collect(paths []string, patterns []string) ([]string, error) {
	globs, err := config.CompileGlobs(patterns)
	if err != nil {
		return nil, err
	}

	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, p)

			continue
		}

		names, err := matchFiles(os.DirFS(p), globs)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			files = append(files, filepath.Join(p, filepath.FromSlash(name)))
		}
	}

	return files, nil
}

// matchFiles returns the slash-separated paths of fsys matching any of globs,
// sorted. Hidden directories such as .git are not descended into.
func matchFiles(fsys fs.FS, globs []glob.Glob) ([]string, error) {
	var names []string

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if name != "." && strings.HasPrefix(path.Base(name), ".") {
				return fs.SkipDir
			}

			return nil
		}

		for _, g := range globs {
			if g.Match(name) {
				names = append(names, name)

				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}
