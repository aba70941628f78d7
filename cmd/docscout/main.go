// Docscout: Pull-Request Documentation Impact Analyzer
//
// Analyzes the changed files of a pull request, checks what existing
// Confluence documentation covers, and plans the documentation work the
// change requires. Runs standalone from the command line or as an MCP
// server for AI coding tools.
//
// Usage:
//
//	docscout serve                    # Start MCP server (stdio transport)
//	docscout analyze <owner/repo> <pr>  # Run one analysis and write the report
//	docscout update                   # Update to the latest version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/avelasco/docscout/internal/config"
	"github.com/avelasco/docscout/internal/runner"
	"github.com/avelasco/docscout/internal/server"
	"github.com/avelasco/docscout/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "analyze":
		if err := analyze(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("docscout v%s\n", server.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	s, cleanup, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	return mcpserver.ServeStdio(s)
}

// analyze runs one full analysis from the command line. The target comes
// from the arguments, falling back to REPO_NAME / PR_NUMBER env vars.
func analyze(args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	repo := cfg.Repo
	number := cfg.PRNumber
	if len(args) >= 2 {
		repo = args[0]
		number, err = strconv.Atoi(args[1])
		if err != nil || number <= 0 {
			return fmt.Errorf("pull request number must be a positive integer, got %q", args[1])
		}
	}
	if repo == "" || number <= 0 {
		return fmt.Errorf("usage: docscout analyze <owner/repo> <pr-number> (or set REPO_NAME and PR_NUMBER)")
	}

	run, cleanup := server.NewAnalysisRunner(cfg)
	defer cleanup()

	// Cancel the run on interrupt; partial results are discarded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := run.Run(ctx, repo, number)
	if err != nil {
		return err
	}

	if err := runner.WriteReport(report, cfg.OutputPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s\n", report.Summary.Narrative)
	fmt.Fprintf(os.Stderr, "%d documentation action(s) planned. Report written to %s\n",
		len(report.Actions), cfg.OutputPath)
	return nil
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort — network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(server.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s → v%s\n"+
				"  Run: docscout update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "Checking for updates...\n")

	result := updater.CheckVersion(server.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "Downloading...\n")

	if err := updater.SelfUpdate(server.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n  You can download manually from:\n  %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "Restart docscout to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Docscout v%s — PR Documentation Impact Analyzer

Usage:
  docscout serve                       Start the MCP server (stdio transport)
  docscout analyze <owner/repo> <pr>   Analyze one pull request and write the report
  docscout update                      Update to the latest version

Environment:
  GITHUB_TOKEN           GitHub API token (optional, raises rate limits)
  REPO_NAME, PR_NUMBER   Default analysis target for 'analyze'
  CONFLUENCE_URL         Confluence base URL, e.g. https://acme.atlassian.net/wiki
  CONFLUENCE_USERNAME    Confluence account email
  CONFLUENCE_API_TOKEN   Confluence API token
  ANTHROPIC_API_KEY      Enables the doc_draft tool

Configuration:
  Optional docscout.yaml in the working directory tunes thresholds,
  topic limits, and output paths.

  MCP config for AI tools:

  {
    "mcpServers": {
      "docscout": {
        "command": "docscout",
        "args": ["serve"]
      }
    }
  }
`, server.Version)
}
