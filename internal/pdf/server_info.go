package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/vf-reader/internal/descriptions"
)

const (
	serverInfoCacheTTL  = 5 * time.Minute
	serverInfoFileLimit = 100
)

// DirectoryCache provides TTL-based caching for directory contents
type DirectoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

type cacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves cached directory contents if still valid
func (c *DirectoryCache) Get(path string) ([]FileInfo, time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists {
		return nil, 0, false
	}
	age := c.now().Sub(entry.lastUpdate)
	if age > c.ttl {
		return nil, 0, false
	}
	return entry.files, age, true
}

// Set stores directory contents in cache
func (c *DirectoryCache) Set(path string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{files: files, lastUpdate: c.now()}
}

// Clear drops every cached entry
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// ServerInfo answers the server info tool, caching the directory listing
type ServerInfo struct {
	service *Service
	cache   *DirectoryCache
}

// NewServerInfo creates a server info handler for service
func NewServerInfo(service *Service) *ServerInfo {
	return &ServerInfo{
		service: service,
		cache:   NewDirectoryCache(serverInfoCacheTTL),
	}
}

// GetServerInfo describes the server, its default directory and tools
func (p *ServerInfo) GetServerInfo(ctx context.Context, serverName, version, directory string) (
	*ExamServerInfoResult, error,
) {
	if configured := p.service.ConfiguredDirectory(); configured != "" {
		resolved, err := p.service.resolveDirectory(directory)
		if err != nil {
			resolved = configured
		}
		directory = resolved
	}

	files, age, fromCache := p.cache.Get(directory)
	if !fromCache {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scanned, err := p.service.search.FindPDFsInDirectory(directory, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", directory, err)
		}
		files = scanned
		p.cache.Set(directory, files)
	}

	result := &ExamServerInfoResult{
		ServerName:       serverName,
		Version:          version,
		DefaultDirectory: directory,
		MaxFileSize:      p.service.GetMaxFileSize(),
		TotalReports:     len(files),
		FromCache:        fromCache,
		CacheAge:         age,
		AvailableTools:   availableTools(),
		UsageGuidance:    p.usageGuidance(),
	}
	if len(files) > serverInfoFileLimit {
		files = files[:serverInfoFileLimit]
	}
	result.DirectoryContents = files
	return result, nil
}

func availableTools() []ToolInfo {
	names := descriptions.GetAllToolNames()
	tools := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		tools = append(tools, ToolInfo{
			Name:        name,
			Description: descriptions.GetToolDescription(name),
			Parameters:  descriptions.ToolParameters[name],
		})
	}
	return tools
}

func (p *ServerInfo) usageGuidance() string {
	maxFileSizeMB := p.service.GetMaxFileSize() / (1024 * 1024)

	return fmt.Sprintf(`Visual Field Report Server Usage Guide:

1. DISCOVER: 'exam_list_reports' lists the report PDFs of a directory.
2. VALIDATE: 'exam_validate_file' checks a file is a readable PDF.
3. PARSE: 'exam_parse_file' for one report, 'exam_parse_directory' for a batch.
   Use format=json or format=yaml for machine readable output.
4. DIAGNOSE: 'exam_extract_lines' shows the numbered lines a failing report produced.

IMPORTANT NOTES:
- Only single-eye threshold reports with the standard printed layout are supported
- Reports are read from their first page
- Files up to %dMB are accepted
- Directory listings here are cached for %s`, maxFileSizeMB, serverInfoCacheTTL)
}
