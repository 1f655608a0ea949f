package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator keeps report access inside one configured directory
type PathValidator struct {
	configuredDirectory string
	realDirectory       string
}

// NewPathValidator creates a validator rooted at dir. The directory must
// exist so that symlinks in it can be resolved once up front.
func NewPathValidator(dir string) (*PathValidator, error) {
	if dir == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory %s: %w", dir, err)
	}

	return &PathValidator{
		configuredDirectory: abs,
		realDirectory:       resolved,
	}, nil
}

// Resolve turns a tool argument into an absolute path. Relative paths are
// taken relative to the configured directory.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	path = filepath.Clean(path)
	if err := v.ValidatePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// ValidatePath checks that path, after resolving symlinks, lies inside the
// configured directory
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		resolved = abs
	}

	if !within(abs, v.configuredDirectory, v.realDirectory) || !within(resolved, v.configuredDirectory, v.realDirectory) {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// ValidateDirectory checks that dirPath is an existing directory inside
// the configured directory
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}

// GetConfiguredDirectory returns the configured directory path
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// within reports whether path equals or is below one of the roots
func within(path string, roots ...string) bool {
	path = filepath.Clean(path)
	for _, root := range roots {
		root = filepath.Clean(root)
		if path == root {
			return true
		}
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
