package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/vf-reader/internal/exam"
	"github.com/a3tai/vf-reader/internal/pdf/pdftest"
)

const testMaxFileSize = 1024 * 1024

func newTestService(t *testing.T, restrictTo string) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{MaxFileSize: testMaxFileSize, RestrictTo: restrictTo})
	require.NoError(t, err)
	return svc
}

func writeReport(t *testing.T, path, laterality string) {
	t.Helper()
	require.NoError(t, pdftest.WriteTextPDF(path, pdftest.ReportLines(laterality)))
}

func TestNewService(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	assert.Error(t, err)

	_, err = NewService(ServiceConfig{MaxFileSize: 1, RestrictTo: "/non/existent/path"})
	assert.Error(t, err)

	svc := newTestService(t, "")
	assert.Equal(t, int64(testMaxFileSize), svc.GetMaxFileSize())
	assert.Empty(t, svc.ConfiguredDirectory())
}

func TestService_ParseFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "right.pdf")
	writeReport(t, path, "OD RIGHT EYE")

	rec, err := newTestService(t, "").ParseFile(ExamParseFileRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "998877", rec.ID)
	assert.Equal(t, 45, rec.Age)
	assert.Equal(t, exam.EyeRight, rec.Eye)
	assert.Equal(t, "-3.21 dB", rec.MD)
	assert.Equal(t, 72, rec.Grid()[7][8])
}

func TestService_ParseFile_LayoutError(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "both.pdf")
	writeReport(t, path, "OU BOTH EYES")

	_, err := newTestService(t, "").ParseFile(ExamParseFileRequest{Path: path})
	require.Error(t, err)
	assert.ErrorIs(t, err, exam.ErrUnknownLaterality)

	var pe *exam.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.Equal(t, exam.LineLaterality, pe.Line)
}

func TestService_ParseFile_IOErrors(t *testing.T) {
	tempDir := t.TempDir()
	svc := newTestService(t, "")

	_, err := svc.ParseFile(ExamParseFileRequest{Path: filepath.Join(tempDir, "missing.pdf")})
	assert.True(t, exam.IsType(err, exam.ErrorTypeIO), "got %v", err)

	_, err = svc.ParseFile(ExamParseFileRequest{Path: tempDir})
	assert.True(t, exam.IsType(err, exam.ErrorTypeIO), "got %v", err)

	empty := filepath.Join(tempDir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = svc.ParseFile(ExamParseFileRequest{Path: empty})
	assert.True(t, exam.IsType(err, exam.ErrorTypeIO), "got %v", err)

	junk := filepath.Join(tempDir, "junk.pdf")
	require.NoError(t, os.WriteFile(junk, []byte("not a pdf at all"), 0o644))
	_, err = svc.ParseFile(ExamParseFileRequest{Path: junk})
	assert.True(t, exam.IsType(err, exam.ErrorTypeConversion), "got %v", err)
}

func TestService_RestrictedPaths(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	path := filepath.Join(outside, "left.pdf")
	writeReport(t, path, "OS LEFT EYE")

	svc := newTestService(t, root)
	_, err := svc.ParseFile(ExamParseFileRequest{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security validation failed")

	_, err = svc.ParseDirectory(ExamParseDirectoryRequest{Directory: outside})
	assert.Error(t, err)
}

func TestService_ProcessPaths(t *testing.T) {
	tempDir := t.TempDir()
	sub := filepath.Join(tempDir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeReport(t, filepath.Join(tempDir, "a_left.pdf"), "OS LEFT EYE")
	writeReport(t, filepath.Join(tempDir, "b_right.pdf"), "OD RIGHT EYE")
	writeReport(t, filepath.Join(sub, "c_left.pdf"), "OS LEFT EYE")
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("ignore"), 0o644))

	svc := newTestService(t, "")

	var visited []string
	batch, err := svc.ProcessPaths([]string{tempDir}, false, false, func(r ExamParseFileResult) error {
		visited = append(visited, filepath.Base(r.Path))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_left.pdf", "b_right.pdf"}, visited)
	assert.Equal(t, 2, batch.Parsed)
	assert.Zero(t, batch.Failed)
	assert.Equal(t, exam.EyeLeft, batch.Results[0].Record.Eye)
	assert.Equal(t, exam.EyeRight, batch.Results[1].Record.Eye)

	batch, err = svc.ProcessPaths([]string{tempDir}, true, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Parsed)
}

func TestService_ProcessPaths_FailureHandling(t *testing.T) {
	tempDir := t.TempDir()
	writeReport(t, filepath.Join(tempDir, "a_bad.pdf"), "XX")
	writeReport(t, filepath.Join(tempDir, "b_good.pdf"), "OD RIGHT EYE")

	svc := newTestService(t, "")

	batch, err := svc.ProcessPaths([]string{tempDir}, false, false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, exam.ErrUnknownLaterality)
	require.Len(t, batch.Results, 1)
	assert.False(t, batch.Results[0].OK())

	batch, err = svc.ProcessPaths([]string{tempDir, filepath.Join(tempDir, "missing")}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, 1, batch.Parsed)
	assert.True(t, batch.Results[1].OK())

	_, err = svc.ProcessPaths([]string{filepath.Join(tempDir, "missing")}, false, false, nil)
	assert.True(t, exam.IsType(err, exam.ErrorTypeIO))
}

func TestService_ParseDirectory(t *testing.T) {
	root := t.TempDir()
	writeReport(t, filepath.Join(root, "one.pdf"), "OS LEFT EYE")

	svc := newTestService(t, root)
	batch, err := svc.ParseDirectory(ExamParseDirectoryRequest{})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "998877", batch.Results[0].Record.ID)

	// relative paths are resolved against the configured directory
	rec, err := svc.ParseFile(ExamParseFileRequest{Path: "one.pdf"})
	require.NoError(t, err)
	assert.Equal(t, exam.EyeLeft, rec.Eye)

	_, err = svc.ParseFile(ExamParseFileRequest{Path: "../one.pdf"})
	assert.Error(t, err)
}

func TestService_RelativeDirectories(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeReport(t, filepath.Join(sub, "one.pdf"), "OD RIGHT EYE")

	svc := newTestService(t, root)

	batch, err := svc.ParseDirectory(ExamParseDirectoryRequest{Directory: "sub"})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, filepath.Join(sub, "one.pdf"), batch.Results[0].Path)
	assert.True(t, batch.Results[0].OK())

	files, err := svc.FindPDFsInDirectory("sub", false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "one.pdf", files[0].Name)

	files, err = svc.FindPDFsInDirectory("", true)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = svc.ParseDirectory(ExamParseDirectoryRequest{Directory: "../"})
	assert.Error(t, err)
	_, err = svc.FindPDFsInDirectory("missing", false)
	assert.Error(t, err)
}

func TestService_ParseFile_NoText(t *testing.T) {
	tempDir := t.TempDir()
	svc := newTestService(t, "")

	blank := filepath.Join(tempDir, "blank.pdf")
	require.NoError(t, pdftest.WriteContentPDF(blank, "BT\nET"))
	_, err := svc.ParseFile(ExamParseFileRequest{Path: blank})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exam.ErrNoText), "got %v", err)
	assert.True(t, exam.IsType(err, exam.ErrorTypeConversion))

	noPages := filepath.Join(tempDir, "no_pages.pdf")
	require.NoError(t, pdftest.WriteContentPDF(noPages))
	_, err = svc.ParseFile(ExamParseFileRequest{Path: noPages})
	require.Error(t, err)
	assert.True(t, exam.IsType(err, exam.ErrorTypeConversion), "got %v", err)
}

func TestService_ValidateFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "two.pdf")
	require.NoError(t, pdftest.WriteTextPDF(path, []string{"one"}, []string{"two"}))

	svc := newTestService(t, "")
	res, err := svc.ValidateFile(ExamValidateFileRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.Pages)

	res, err = svc.ValidateFile(ExamValidateFileRequest{Path: filepath.Join(tempDir, "nope.pdf")})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Message)
}

func TestSearch_FindPDFsInDirectory(t *testing.T) {
	tempDir := t.TempDir()
	sub := filepath.Join(tempDir, "deeper")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, name := range []string{"b.PDF", "a.pdf", "c.txt", filepath.Join("deeper", "d.pdf")} {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0o644))
	}

	s := NewSearch()

	files, err := s.FindPDFsInDirectory(tempDir, false)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.pdf", files[0].Name)
	assert.Equal(t, "b.PDF", files[1].Name)

	files, err = s.FindPDFsInDirectory(tempDir, true)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	_, err = s.FindPDFsInDirectory("", false)
	assert.Error(t, err)
	_, err = s.FindPDFsInDirectory(filepath.Join(tempDir, "a.pdf"), false)
	assert.Error(t, err)

	paths, err := s.ExpandPath(filepath.Join(tempDir, "c.txt"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tempDir, "c.txt")}, paths)
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	tempDir := t.TempDir()
	big := filepath.Join(tempDir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, 2048), 0o644))
	info, err := os.Stat(big)
	require.NoError(t, err)

	assert.Error(t, NewValidator(1024).ValidateFileInfo(big, info))
	assert.NoError(t, NewValidator(4096).ValidateFileInfo(big, info))
	_, err = NewValidator(4096).ValidatePDFFile(big)
	assert.True(t, exam.IsType(err, exam.ErrorTypeConversion), "got %v", err)
	assert.True(t, IsPDFName("X.Pdf"))
	assert.False(t, IsPDFName("x.pdf.txt"))
}
