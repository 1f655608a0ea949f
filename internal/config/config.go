package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Output formats
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"

	// Colour modes
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultStrategy    = "rows"
)

// Config holds all configuration for the report reader
type Config struct {
	Mode string // "cli" or "stdio"

	// Input
	Paths       []string
	Recursive   bool
	MaxFileSize int64 // Maximum PDF file size in bytes
	Strategy    string
	Echo        bool

	// Output
	Format          string
	Detailed        bool
	Color           string
	ContinueOnError bool

	// MCP
	PDFDirectory string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	ShowVersion bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeCLI,
		MaxFileSize:  DefaultMaxFileSize,
		Strategy:     DefaultStrategy,
		Format:       FormatText,
		Color:        ColorAuto,
		PDFDirectory: currentDir,
		Version:      "1.0.0",
		ServerName:   "vf-reader",
		LogLevel:     DefaultLogLevel,
	}
}

// Load parses args on a fresh flag set. The environment is not consulted.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setupViperDefaults(v, cfg)

	fs := pflag.NewFlagSet("vf-reader", pflag.ContinueOnError)
	defineCommandLineFlags(fs, cfg)
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	fs.Usage = func() { PrintUsage(os.Stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)
	cfg.Paths = fs.Args()
	cfg.ShowVersion, _ = fs.GetBool("version")

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Usage writes the usage guidance with the default flag values
func Usage(w io.Writer) {
	fs := pflag.NewFlagSet("vf-reader", pflag.ContinueOnError)
	defineCommandLineFlags(fs, DefaultConfig())
	PrintUsage(w, fs)
}

// PrintUsage writes the usage guidance shown for --help and when no
// report path is given
func PrintUsage(w io.Writer, fs *pflag.FlagSet) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage: %s [options] <report.pdf|directory> [...]\n", name)
	fmt.Fprintf(w, "\nVF Reader - extracts patient data and the sensitivity grid from visual field reports\n\n")
	fmt.Fprintf(w, "Options:\n")
	if fs != nil {
		fs.SetOutput(w)
		fs.PrintDefaults()
	}
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s /path/to/report.pdf                # print one report\n", name)
	fmt.Fprintf(w, "  %s --detailed /path/to/reports        # every field of every report\n", name)
	fmt.Fprintf(w, "  %s -r --format=yaml /path/to/reports  # recurse, YAML output\n", name)
	fmt.Fprintf(w, "  %s --mode=stdio --dir=/path/to/pdfs   # MCP server over stdio\n", name)
}

// setupViperDefaults registers the default of every key
func setupViperDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("recursive", cfg.Recursive)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("strategy", cfg.Strategy)
	v.SetDefault("echo", cfg.Echo)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("detailed", cfg.Detailed)
	v.SetDefault("color", cfg.Color)
	v.SetDefault("continue-on-error", cfg.ContinueOnError)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Run mode: 'cli' prints parsed reports, 'stdio' serves MCP tools")
	fs.BoolP("recursive", "r", cfg.Recursive, "Search directories recursively for .pdf files")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String("strategy", cfg.Strategy, "Text layout strategy: 'rows' or 'plain'")
	fs.Bool("echo", cfg.Echo, "Echo every normalized text line to stderr")
	fs.StringP("format", "f", cfg.Format, "Output format: text, yaml or json")
	fs.BoolP("detailed", "d", cfg.Detailed, "List every extracted field")
	fs.String("color", cfg.Color, "Colour text output: auto, always or never")
	fs.Bool("continue-on-error", cfg.ContinueOnError, "Report failing documents and keep going")
	fs.String("dir", cfg.PDFDirectory, "Directory MCP tools may read reports from (stdio mode)")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolP("version", "v", false, "Print version information")
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Recursive = v.GetBool("recursive")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.Strategy = v.GetString("strategy")
	cfg.Echo = v.GetBool("echo")
	cfg.Format = v.GetString("format")
	cfg.Detailed = v.GetBool("detailed")
	cfg.Color = v.GetString("color")
	cfg.ContinueOnError = v.GetBool("continue-on-error")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.LogLevel = v.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	switch c.Format {
	case FormatText, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("invalid format: %s (must be one of: text, yaml, json)", c.Format)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Color)
	}

	if c.Strategy != "rows" && c.Strategy != "plain" {
		return fmt.Errorf("invalid strategy: %s (must be 'rows' or 'plain')", c.Strategy)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Mode == ModeStdio {
		if c.PDFDirectory == "" {
			return errors.New("PDF directory cannot be empty")
		}
		info, err := os.Stat(c.PDFDirectory)
		if err != nil {
			return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("PDF directory is not a directory: %s", c.PDFDirectory)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true if the MCP stdio server should run
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Paths: %v, Recursive: %t, Format: %s, Detailed: %t, "+
		"Strategy: %s, PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Paths, c.Recursive, c.Format, c.Detailed,
		c.Strategy, c.PDFDirectory, c.LogLevel, c.MaxFileSize)
}
