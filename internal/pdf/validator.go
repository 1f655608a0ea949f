package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/vf-reader/internal/exam"
)

// Validator checks that a path points at a readable report before extraction
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile reports whether the file is a readable single-page report
// candidate. Validation failures are returned in the result, not as errors.
func (v *Validator) ValidateFile(req ExamValidateFileRequest) (*ExamValidateFileResult, error) {
	result := &ExamValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	pages, err := v.ValidatePDFFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Pages = pages
	return result, nil
}

// ValidatePDFFile checks the file on disk and its PDF structure, returning
// the page count
func (v *Validator) ValidatePDFFile(filePath string) (int, error) {
	if filePath == "" {
		return 0, exam.NewIOError(filePath, os.ErrInvalid, "path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, exam.NewIOError(filePath, err, "cannot access file")
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return 0, err
	}

	pages, err := v.pageCount(filePath)
	if err != nil {
		return 0, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: filePath,
			Message: "invalid PDF file", Err: err,
		}
	}
	if pages < 1 {
		return 0, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: filePath,
			Message: "invalid PDF file", Err: exam.ErrNoPages,
		}
	}

	return pages, nil
}

// pageCount reads the document structure with pdfcpu in relaxed mode
func (v *Validator) pageCount(filePath string) (int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx.PageCount, nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return exam.NewIOError(filePath, os.ErrInvalid, "path is a directory, not a file")
	}

	if fileInfo.Size() == 0 {
		return exam.NewIOError(filePath, os.ErrInvalid, "file is empty")
	}

	if fileInfo.Size() > v.maxFileSize {
		return exam.NewIOError(filePath, os.ErrInvalid,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize))
	}

	return nil
}

// IsPDFName reports whether the name carries a .pdf extension
func IsPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
