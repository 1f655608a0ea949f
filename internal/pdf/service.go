package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/a3tai/vf-reader/internal/exam"
	"github.com/a3tai/vf-reader/internal/pdf/security"
)

// ServiceConfig configures a Service
type ServiceConfig struct {
	MaxFileSize int64
	Strategy    string    // text layout strategy, see StrategyRows
	Echo        io.Writer // receives normalized lines when set

	// RestrictTo limits every path to this directory when set
	RestrictTo string
}

// Service turns report files into exam records by orchestrating
// validation, text extraction and parsing
type Service struct {
	maxFileSize   int64
	extractor     *Extractor
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
	info          *ServerInfo
}

// NewService creates a new report service with all components
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maximum file size must be positive")
	}

	s := &Service{
		maxFileSize: cfg.MaxFileSize,
		extractor:   NewExtractor(cfg.Strategy, cfg.Echo),
		validator:   NewValidator(cfg.MaxFileSize),
		search:      NewSearch(),
	}

	if cfg.RestrictTo != "" {
		pv, err := security.NewPathValidator(cfg.RestrictTo)
		if err != nil {
			return nil, fmt.Errorf("failed to create path validator: %w", err)
		}
		s.pathValidator = pv
	}
	s.info = NewServerInfo(s)
	return s, nil
}

// resolve makes path absolute against the configured directory and
// rejects paths that leave it. Without a configured directory paths are
// used as given.
func (s *Service) resolve(path string) (string, error) {
	if s.pathValidator == nil {
		return path, nil
	}
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// ParseFile validates, extracts and parses a single report
func (s *Service) ParseFile(req ExamParseFileRequest) (*exam.Record, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path

	if _, err := s.validator.ValidatePDFFile(req.Path); err != nil {
		return nil, err
	}

	lines, err := s.extractor.ExtractLines(req.Path)
	if err != nil {
		return nil, err
	}

	rec, err := exam.Parse(lines)
	if err != nil {
		var pe *exam.ParseError
		if errors.As(err, &pe) {
			return nil, pe.WithPath(req.Path)
		}
		return nil, fmt.Errorf("%s: %w", req.Path, err)
	}
	return rec, nil
}

// ExtractLines returns the normalized first-page lines of a report
func (s *Service) ExtractLines(path string) ([]string, error) {
	path, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if _, err := s.validator.ValidatePDFFile(path); err != nil {
		return nil, err
	}
	return s.extractor.ExtractLines(path)
}

// ParseDirectory parses every .pdf file in a directory
func (s *Service) ParseDirectory(req ExamParseDirectoryRequest) (*ExamParseBatchResult, error) {
	dir, err := s.resolveDirectory(req.Directory)
	if err != nil {
		return nil, err
	}
	req.Directory = dir

	files, err := s.search.FindPDFsInDirectory(req.Directory, req.Recursive)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return s.parseAll(paths, req.ContinueOnError, nil)
}

// resolveDirectory applies the same rules as resolve to a directory
// argument. An empty directory means the configured one.
func (s *Service) resolveDirectory(dir string) (string, error) {
	if s.pathValidator == nil {
		return dir, nil
	}
	if dir == "" {
		dir = s.pathValidator.GetConfiguredDirectory()
	}
	dir, err := s.resolve(dir)
	if err != nil {
		return "", err
	}
	if err := s.pathValidator.ValidateDirectory(dir); err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return dir, nil
}

// ProcessPaths parses every document named by paths, expanding
// directories. visit, when non-nil, is called for each document as soon as
// it is processed. Without continueOnError the first failure stops the
// batch and is returned along with the results gathered so far.
func (s *Service) ProcessPaths(paths []string, recursive, continueOnError bool,
	visit func(ExamParseFileResult) error,
) (*ExamParseBatchResult, error) {
	var docs []string
	for _, p := range paths {
		expanded, err := s.search.ExpandPath(p, recursive)
		if err != nil {
			ioErr := exam.NewIOError(p, err, "cannot read path")
			if !continueOnError {
				return &ExamParseBatchResult{}, ioErr
			}
			log.Printf("Skipping %s: %v", p, err)
			continue
		}
		docs = append(docs, expanded...)
	}
	return s.parseAll(docs, continueOnError, visit)
}

func (s *Service) parseAll(paths []string, continueOnError bool,
	visit func(ExamParseFileResult) error,
) (*ExamParseBatchResult, error) {
	batch := &ExamParseBatchResult{Results: make([]ExamParseFileResult, 0, len(paths))}

	for _, p := range paths {
		rec, err := s.ParseFile(ExamParseFileRequest{Path: p})
		res := ExamParseFileResult{Path: p, Record: rec, Err: err}
		batch.Results = append(batch.Results, res)
		if err != nil {
			batch.Failed++
		} else {
			batch.Parsed++
		}

		if visit != nil {
			if verr := visit(res); verr != nil {
				return batch, verr
			}
		}

		if err != nil {
			if !continueOnError {
				return batch, err
			}
			log.Printf("Skipping %s: %v", p, err)
		}
	}
	return batch, nil
}

// ValidateFile performs validation on a report file
func (s *Service) ValidateFile(req ExamValidateFileRequest) (*ExamValidateFileResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// FindPDFsInDirectory lists the .pdf files in a directory
func (s *Service) FindPDFsInDirectory(directory string, recursive bool) ([]FileInfo, error) {
	directory, err := s.resolveDirectory(directory)
	if err != nil {
		return nil, err
	}
	return s.search.FindPDFsInDirectory(directory, recursive)
}

// GetServerInfo describes the server and the reports in directory,
// falling back to the configured directory when directory is outside it
func (s *Service) GetServerInfo(ctx context.Context, serverName, version, directory string) (
	*ExamServerInfoResult, error,
) {
	return s.info.GetServerInfo(ctx, serverName, version, directory)
}

// ConfiguredDirectory returns the directory paths are restricted to, if any
func (s *Service) ConfiguredDirectory() string {
	if s.pathValidator == nil {
		return ""
	}
	return s.pathValidator.GetConfiguredDirectory()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
