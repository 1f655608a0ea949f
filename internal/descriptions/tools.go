package descriptions

import "sort"

// Tool descriptions shown to MCP clients

const (
	ExamParseFileDescription = `Parse one visual field report into patient fields and the 8x9 sensitivity grid.

**When to use:** You have the path of a single-eye threshold report PDF and need the patient ID, age, name, reliability indices or the grid values.

**Examples:**
• Summary: "Parse reports/smith_os.pdf"
• Every field: "Parse reports/smith_os.pdf with detailed=true"
• Machine readable: "Parse reports/smith_os.pdf with format=json"

**Best practices:** Run exam_validate_file first on files of unknown origin. Failures name the field and line of the layout that did not match.`

	ExamParseDirectoryDescription = `Parse every report PDF in a directory, in file name order.

**When to use:** Batch export of a clinic folder or comparing left and right eye reports of the same patient.

**Examples:**
• Whole tree: "Parse all reports under the default directory with recursive=true"
• Tolerate bad files: "Parse /reports/2024 with continue_on_error=true"

**Best practices:** Without continue_on_error the batch stops at the first failing report and lists what was parsed so far.`

	ExamValidateFileDescription = `Check that a file is a readable PDF within the configured size limit and report its page count.

**When to use:** Before parsing files from an unknown source.

**Best practices:** Reports are read from their first page; extra pages are ignored.`

	ExamExtractLinesDescription = `Show the numbered, whitespace-normalized first-page lines the parser reads.

**When to use:** A report fails to parse and you need to see which line moved. Line numbers start at 0 and match the ones in parse errors.`

	ExamListReportsDescription = `List the report PDFs in a directory with size and path.

**When to use:** Discover which reports are available before parsing them.`

	ExamServerInfoDescription = `Get server information, the default report directory, its contents and the available tools.

**When to use:** First call of a session, to learn where reports live and which tools exist.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"exam_parse_file":      ExamParseFileDescription,
	"exam_parse_directory": ExamParseDirectoryDescription,
	"exam_validate_file":   ExamValidateFileDescription,
	"exam_extract_lines":   ExamExtractLinesDescription,
	"exam_list_reports":    ExamListReportsDescription,
	"exam_server_info":     ExamServerInfoDescription,
}

// ToolParameters maps tool names to a one line parameter summary
var ToolParameters = map[string]string{
	"exam_parse_file":      "path (required), detailed, format",
	"exam_parse_directory": "directory, recursive, continue_on_error, detailed, format",
	"exam_validate_file":   "path (required)",
	"exam_extract_lines":   "path (required)",
	"exam_list_reports":    "directory, recursive",
	"exam_server_info":     "none",
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the sorted names of all tools
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
