package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/vf-reader/internal/config"
	"github.com/a3tai/vf-reader/internal/descriptions"
	"github.com/a3tai/vf-reader/internal/exam"
	"github.com/a3tai/vf-reader/internal/formatters"
	"github.com/a3tai/vf-reader/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	service    *pdf.Service
	formatters *formatters.Registry
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *pdf.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		service:    service,
		formatters: formatters.NewRegistry(),
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formatOption := mcp.WithString("format",
		mcp.Description("Output format: text, yaml or json (default text)"),
	)

	parseFileTool := mcp.NewTool(
		"exam_parse_file",
		mcp.WithDescription(descriptions.GetToolDescription("exam_parse_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the report PDF"),
		),
		mcp.WithBoolean("detailed",
			mcp.Description("List every extracted field in text output"),
		),
		formatOption,
	)
	s.mcpServer.AddTool(parseFileTool, s.handleExamParseFile)

	parseDirectoryTool := mcp.NewTool(
		"exam_parse_directory",
		mcp.WithDescription(descriptions.GetToolDescription("exam_parse_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to parse (uses default if empty)"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Include reports in subdirectories"),
		),
		mcp.WithBoolean("continue_on_error",
			mcp.Description("Keep going after a report fails to parse"),
		),
		mcp.WithBoolean("detailed",
			mcp.Description("List every extracted field in text output"),
		),
		formatOption,
	)
	s.mcpServer.AddTool(parseDirectoryTool, s.handleExamParseDirectory)

	validateFileTool := mcp.NewTool(
		"exam_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("exam_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleExamValidateFile)

	extractLinesTool := mcp.NewTool(
		"exam_extract_lines",
		mcp.WithDescription(descriptions.GetToolDescription("exam_extract_lines")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the report PDF"),
		),
	)
	s.mcpServer.AddTool(extractLinesTool, s.handleExamExtractLines)

	listReportsTool := mcp.NewTool(
		"exam_list_reports",
		mcp.WithDescription(descriptions.GetToolDescription("exam_list_reports")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Include reports in subdirectories"),
		),
	)
	s.mcpServer.AddTool(listReportsTool, s.handleExamListReports)

	serverInfoTool := mcp.NewTool(
		"exam_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("exam_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleExamServerInfo)
}

// Handler functions
func (s *Server) handleExamParseFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	f, err := s.formatters.Get(stringArg(args, "format", config.FormatText))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.service.ParseFile(pdf.ExamParseFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := f.Format(path, rec, s.options(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExamParseDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	f, err := s.formatters.Get(stringArg(args, "format", config.FormatText))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.ExamParseDirectoryRequest{
		Directory:       stringArg(args, "directory", s.config.PDFDirectory),
		Recursive:       boolArg(args, "recursive"),
		ContinueOnError: boolArg(args, "continue_on_error"),
	}

	batch, err := s.service.ParseDirectory(req)
	if batch == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(batch.Results) == 0 && err == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", req.Directory)), nil
	}

	text, ferr := s.formatBatch(f, batch, s.options(args))
	if ferr != nil {
		return mcp.NewToolResultError(ferr.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(text + "\nStopped: " + err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExamValidateFile(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ValidateFile(pdf.ExamValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF file is valid: %s (%d pages)", result.Path, result.Pages)), nil
}

func (s *Server) handleExamExtractLines(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lines, err := s.service.ExtractLines(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLines(path, lines)), nil
}

func (s *Server) handleExamListReports(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()
	directory := stringArg(args, "directory", s.config.PDFDirectory)

	files, err := s.service.FindPDFsInDirectory(directory, boolArg(args, "recursive"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}
	return mcp.NewToolResultText(formatFileList(directory, files)), nil
}

func (s *Server) handleExamServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.service.GetServerInfo(ctx, s.config.ServerName, s.config.Version, s.config.PDFDirectory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatServerInfo(result)), nil
}

func (s *Server) options(args map[string]interface{}) formatters.Options {
	return formatters.Options{Detailed: boolArg(args, "detailed"), NoColor: true}
}

// Formatting methods
func (s *Server) formatBatch(f formatters.Formatter, batch *pdf.ExamParseBatchResult,
	options formatters.Options,
) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Parsed %d report(s), %d failed\n", batch.Parsed, batch.Failed)

	for _, res := range batch.Results {
		b.WriteString("\n")
		if !res.OK() {
			fmt.Fprintf(&b, "FAILED %s: %v\n", res.Path, res.Err)
			continue
		}
		text, err := f.Format(res.Path, res.Record, options)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func formatLines(path string, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d line(s) on the first page of %s\n\n", len(lines), path)
	for i, line := range lines {
		fmt.Fprintf(&b, "%3d: %s", i, line)
		if names := exam.FieldsOnLine(i); len(names) > 0 {
			fmt.Fprintf(&b, "    <- %s", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatFileList(directory string, files []pdf.FileInfo) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n\nFiles:\n", len(files), directory)
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
	}
	return text
}

func formatServerInfo(result *pdf.ExamServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if result.TotalReports > 0 {
		text += fmt.Sprintf("Directory Contents (%d report PDFs found):\n", result.TotalReports)
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", result.TotalReports-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No report PDFs found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n- %s\n", tool.Name)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	return text + "\n" + result.UsageGuidance
}

func stringArg(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolArg(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// Run serves the MCP tools over stdio until the client disconnects or ctx
// is cancelled
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve answers MCP requests read line by line from in until in is closed
// or ctx is cancelled. Cancellation is a clean shutdown.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	if s.config.IsDebug() {
		log.Printf("Starting exam MCP server in stdio mode")
		log.Printf("Report directory: %s", s.config.PDFDirectory)
	}

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.Default())

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
