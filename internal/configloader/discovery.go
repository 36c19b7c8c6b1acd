package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the configuration files found for a run. Unset
// entries are empty strings.
type ConfigPaths struct {
	// System is /etc/locedit/config.yaml, or %ProgramData%\locedit on Windows.
	System string

	// User is $XDG_CONFIG_HOME/locedit/config.yaml.
	User string

	// Project is the nearest .locedit.yml at or above the working directory.
	Project string

	// Explicit is the --config path.
	Explicit string
}

// configLayer is one file in the precedence chain.
type configLayer struct {
	name string
	path string
}

// layers returns the set paths from lowest to highest precedence, skipping
// the kinds opts ignores.
func (p *ConfigPaths) layers(opts LoadOptions) []configLayer {
	candidates := []struct {
		configLayer

		skip bool
	}{
		{configLayer{"system", p.System}, opts.IgnoreSystemConfig},
		{configLayer{"user", p.User}, opts.IgnoreUserConfig},
		{configLayer{"project", p.Project}, opts.IgnoreProjectConfig},
		{configLayer{"explicit", p.Explicit}, false},
	}

	out := make([]configLayer, 0, len(candidates))
	for _, c := range candidates {
		if !c.skip && c.path != "" {
			out = append(out, c.configLayer)
		}
	}
	return out
}

// Names searched for a project config, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigNames = []string{
	".locedit.yml",
	".locedit.yaml",
	"locedit.yml",
	"locedit.yaml",
}

// Names searched in the system and user config directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var globalConfigNames = []string{"config.yaml", "config.yml"}

// vcsRootMarkers bound the upward project config search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn", ".jj"}

// DiscoverPaths finds the system, user and project configuration files.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigNames),
		User:    firstFile(userConfigDir(), globalConfigNames),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "locedit")
	}
	return "/etc/locedit"
}

func userConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "locedit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "locedit")
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig walks up from startDir looking for a project config. The
// walk ends at the first directory holding a config, a VCS root, the home
// directory or the filesystem root; an empty result means none was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		if startDir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}

		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsYAMLConfig reports whether path has a YAML extension.
func IsYAMLConfig(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
