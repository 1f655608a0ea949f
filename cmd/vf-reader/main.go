package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/a3tai/vf-reader/internal/config"
	"github.com/a3tai/vf-reader/internal/formatters"
	"github.com/a3tai/vf-reader/internal/mcp"
	"github.com/a3tai/vf-reader/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config, stderr io.Writer) {
	log.SetOutput(stderr)
	log.SetFlags(log.LstdFlags)

	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		return
	}
	// stdout carries the MCP protocol, keep stderr quiet as well
	if cfg.IsStdioMode() {
		log.SetOutput(io.Discard)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	if cfg.ShowVersion {
		printVersion(stdout)
		return 0
	}

	setupLogging(cfg, stderr)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	if cfg.IsStdioMode() {
		return runStdioMode(cfg)
	}
	return runCLI(cfg, stdout, stderr)
}

// runStdioMode serves the MCP tools until the client disconnects or a
// signal arrives
func runStdioMode(cfg *config.Config) int {
	service, err := pdf.NewService(pdf.ServiceConfig{
		MaxFileSize: cfg.MaxFileSize,
		Strategy:    cfg.Strategy,
		RestrictTo:  cfg.PDFDirectory,
	})
	if err != nil {
		log.Printf("Failed to create report service: %v", err)
		return 1
	}

	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		log.Printf("Failed to create MCP server: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

// runCLI parses every report named on the command line and prints it
func runCLI(cfg *config.Config, stdout, stderr io.Writer) int {
	if len(cfg.Paths) == 0 {
		config.Usage(stdout)
		return 0
	}

	var echo io.Writer
	if cfg.Echo {
		echo = stderr
	}

	service, err := pdf.NewService(pdf.ServiceConfig{
		MaxFileSize: cfg.MaxFileSize,
		Strategy:    cfg.Strategy,
		Echo:        echo,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	formatter, err := formatters.NewRegistry().Get(cfg.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	options := formatters.Options{Detailed: cfg.Detailed, NoColor: noColor(cfg.Color)}
	showPath := cfg.Format != config.FormatText || cfg.Detailed || len(cfg.Paths) > 1 || isDir(cfg.Paths[0])

	printed := 0
	batch, err := service.ProcessPaths(cfg.Paths, cfg.Recursive, cfg.ContinueOnError,
		func(res pdf.ExamParseFileResult) error {
			if !res.OK() {
				return nil
			}
			if cfg.IsDebug() {
				log.Printf("%s: %s", res.Path, res.Record.Label())
			}
			path := ""
			if showPath {
				path = res.Path
			}
			out, err := formatter.Format(path, res.Record, options)
			if err != nil {
				return err
			}
			if printed > 0 && cfg.Format == config.FormatText {
				fmt.Fprintln(stdout)
			}
			printed++
			_, err = io.WriteString(stdout, out)
			return err
		})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if batch.Failed > 0 {
		log.Printf("Parsed %d report(s), %d failed", batch.Parsed, batch.Failed)
		return 1
	}
	return 0
}

func noColor(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return false
	case config.ColorNever:
		return true
	default:
		return color.NoColor
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "VF Reader\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
