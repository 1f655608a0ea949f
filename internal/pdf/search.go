package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Search handles report discovery on disk. Size limits are enforced when a
// document is parsed so oversized files still show up as failures.
type Search struct{}

// NewSearch creates a new search handler
func NewSearch() *Search {
	return &Search{}
}

// ExpandPath returns the documents a command line path stands for: the
// path itself for a file, or the .pdf files inside it for a directory.
func (s *Search) ExpandPath(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := s.FindPDFsInDirectory(path, recursive)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}

// FindPDFsInDirectory lists .pdf files under directory sorted by path.
// Subdirectories are only entered when recursive is set.
func (s *Search) FindPDFsInDirectory(directory string, recursive bool) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	info, err := os.Stat(absDirectory)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory %s: %w", directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", directory)
	}

	var pdfFiles []FileInfo
	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != absDirectory && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsPDFName(d.Name()) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		pdfFiles = append(pdfFiles, FileInfo{
			Path:         path,
			Name:         d.Name(),
			Size:         fi.Size(),
			ModifiedTime: fi.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(pdfFiles, func(i, j int) bool {
		return pdfFiles[i].Path < pdfFiles[j].Path
	})
	return pdfFiles, nil
}
