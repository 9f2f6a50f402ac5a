package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/config"
	"github.com/ironsheep/image-editor-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-editor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-editor-mcp - MCP server for editing images")
			fmt.Println()
			fmt.Println("Usage: image-editor-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from a .env file):")
			fmt.Printf("  %s=info       Log level (trace, debug, info, warn, error)\n", config.EnvLogLevel)
			fmt.Printf("  %s=text      Log format (text or json)\n", config.EnvLogFormat)
			fmt.Printf("  %s=0      Undo depth per document (0 = unlimited)\n", config.EnvHistoryLimit)
			fmt.Printf("  %s=.           Directory relative paths resolve against\n", config.EnvWorkDir)
			fmt.Printf("  %s=.env       Path of the .env file\n", config.EnvEnvFile)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-editor-mcp: %v\n", err)
		os.Exit(1)
	}

	// Log to stderr; stdout is for MCP protocol
	logger := cfg.NewLogger(os.Stderr)
	logger.WithFields(logrus.Fields{
		"version":       Version,
		"build_time":    BuildTime,
		"commit":        GitCommit,
		"workdir":       cfg.WorkDir,
		"history_limit": cfg.HistoryLimit,
	}).Debug("starting image editor MCP server")

	srv := server.New(
		server.WithLogger(logger),
		server.WithWorkDir(cfg.WorkDir),
		server.WithHistoryLimit(cfg.HistoryLimit),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
