package oracle

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

//nolint:gochecknoglobals // Fixed skip list.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	"target":       {},
	"vendor":       {},
	"__pycache__":  {},
	"dist":         {},
	"build":        {},
}

// discover lists the files of the given language under paths, relative to
// root, sorted and without duplicates. Directories are walked skipping
// hidden entries, well-known build output and anything the root .gitignore
// excludes. Files named explicitly are only checked for their language.
func discover(ctx context.Context, root string, paths []string, language string) ([]string, error) {
	gi := loadGitignore(root)
	seen := make(map[string]struct{})
	var files []string

	add := func(abs string) {
		rel := relativeTo(root, abs)
		if _, ok := seen[rel]; ok {
			return
		}
		seen[rel] = struct{}{}
		files = append(files, rel)
	}

	for _, input := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, input)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOracleInvocation, err)
		}

		if !info.IsDir() {
			if matchesLanguage(abs, language) {
				add(abs)
			}
			continue
		}

		err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if os.IsPermission(walkErr) {
					return nil
				}
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			name := entry.Name()
			if entry.IsDir() {
				if path == abs {
					return nil
				}
				if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if gi != nil && gi.MatchesPath(relativeTo(root, path)+"/") {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") || entry.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if gi != nil && gi.MatchesPath(relativeTo(root, path)) {
				return nil
			}
			if matchesLanguage(path, language) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", input, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

func matchesLanguage(path, language string) bool {
	if filepath.Ext(path) != "" {
		return IsLanguage(path, nil, language)
	}
	head, err := readHead(path)
	if err != nil {
		return false
	}
	return IsLanguage(path, head, language)
}

// readHead returns the start of a file, enough for a shebang line.
func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, 256)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
