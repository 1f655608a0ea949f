package pdf

import (
	"time"

	"github.com/a3tai/vf-reader/internal/exam"
)

// FileInfo represents information about a report file found on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExamParseFileRequest represents a request to parse one report
type ExamParseFileRequest struct {
	Path string `json:"path"`
}

// ExamParseDirectoryRequest represents a request to parse every report in a directory
type ExamParseDirectoryRequest struct {
	Directory       string `json:"directory"`
	Recursive       bool   `json:"recursive"`
	ContinueOnError bool   `json:"continue_on_error"`
}

// ExamValidateFileRequest represents a request to validate a report file
type ExamValidateFileRequest struct {
	Path string `json:"path"`
}

// Response Types

// ExamParseFileResult is the outcome for a single document
type ExamParseFileResult struct {
	Path   string       `json:"path"`
	Record *exam.Record `json:"record,omitempty"`
	Err    error        `json:"-"`
}

// OK reports whether the document parsed
func (r ExamParseFileResult) OK() bool {
	return r.Err == nil
}

// ExamParseBatchResult holds per-document outcomes in processing order
type ExamParseBatchResult struct {
	Results []ExamParseFileResult `json:"results"`
	Parsed  int                   `json:"parsed"`
	Failed  int                   `json:"failed"`
}

// ExamValidateFileResult represents the result of a report validation
type ExamValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages"`
	Message string `json:"message,omitempty"`
}

// ExamServerInfoResult describes the server and its default directory
type ExamServerInfoResult struct {
	ServerName        string        `json:"server_name"`
	Version           string        `json:"version"`
	DefaultDirectory  string        `json:"default_directory"`
	MaxFileSize       int64         `json:"max_file_size"`
	TotalReports      int           `json:"total_reports"`
	DirectoryContents []FileInfo    `json:"directory_contents"`
	FromCache         bool          `json:"from_cache"`
	CacheAge          time.Duration `json:"cache_age"`
	AvailableTools    []ToolInfo    `json:"available_tools"`
	UsageGuidance     string        `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}
