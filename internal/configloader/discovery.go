package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// ConfigPaths represents discovered configuration file paths. Missing files
// are empty strings.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// ProjectConfigFiles are the project config names searched for, in order
// of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ProjectConfigFiles = []string{
	".gocst.yml",
	".gocst.yaml",
	"gocst.yml",
	"gocst.yaml",
}

//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in the standard locations.
func DiscoverPaths(ctx context.Context, fsys afero.Fs, workDir string, env func(string) (string, bool)) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, fsys, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  findConfigInDir(fsys, systemConfigDir(env)),
		User:    findConfigInDir(fsys, userConfigDir(env)),
		Project: project,
	}, nil
}

func systemConfigDir(env func(string) (string, bool)) string {
	if runtime.GOOS == "windows" {
		programData, ok := env("ProgramData")
		if !ok || programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "gocst")
	}
	return "/etc/gocst"
}

func userConfigDir(env func(string) (string, bool)) string {
	configHome, ok := env("XDG_CONFIG_HOME")
	if !ok || configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "gocst")
}

// UserConfigPath returns where the user config file lives, whether or not
// it exists yet.
func UserConfigPath() string {
	dir := userConfigDir(os.LookupEnv)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func findConfigInDir(fsys afero.Fs, dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(fsys, path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config
// file. The search stops at a VCS root, the home directory, or the
// filesystem root.
func FindProjectConfig(ctx context.Context, fsys afero.Fs, startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDir = ""
	}

	currentDir := absDir
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		for _, name := range ProjectConfigFiles {
			path := filepath.Join(currentDir, name)
			if fileExists(fsys, path) {
				return path, nil
			}
		}

		if isVCSRoot(fsys, currentDir) || (homeDir != "" && currentDir == homeDir) {
			return "", nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func isVCSRoot(fsys afero.Fs, dir string) bool {
	for _, marker := range vcsRootMarkers {
		if ok, err := afero.DirExists(fsys, filepath.Join(dir, marker)); err == nil && ok {
			return true
		}
	}
	return false
}

func fileExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}
