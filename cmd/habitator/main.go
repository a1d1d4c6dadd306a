// Package main is the entry point for the habitator application.
// It loads configuration, resolves the settings storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/resolver"
	"github.com/tokrqui/habitator/internal/session"
	"github.com/tokrqui/habitator/internal/ui"
	"github.com/tokrqui/habitator/internal/vault"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `habitator - A yearly habit tracker for your terminal

USAGE:
    habitator [OPTIONS]
    habitator <command> [ARGS]

COMMANDS:
    backup           Create a backup of all data
    backup --list    List available backups
    backup --prune N Keep the N newest backups, delete the rest
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    export           Generate a yearly report (Markdown)
    export -f json   Output report as JSON
    export -f svg    Output the active habit's heatmap as SVG
    storage          Show the effective storage mode
    storage set MODE Switch storage mode (embedded, vault, custom DIR)

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    habitator tracks daily habits on a GitHub-style yearly grid. Data lives
    either embedded in the config store or as a JSON file inside your vault
    directory, and moves between the two without losing a day.

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2, 3      Jump to specific pane
        ?            Show help overlay
        q            Quit

    Year Pane:
        h/j/k/l, arrows  Move the cursor
        d/Space      Toggle the day under the cursor
        t            Jump to today
        [ / ]        Previous / next year

    Habits Pane:
        j/k, ↓/↑     Navigate
        a            Add habit
        r            Rename habit
        x            Delete habit
        Enter        Make the habit active

    Storage Pane:
        j/k, ↓/↑     Navigate
        Enter        Apply the selected mode

DATA STORAGE:
    Default locations under ~/.habitator/:
        data.json    - Config store (settings when embedded)
        vault/       - Vault root for the file-backed modes
        backups/     - Timestamped backups

CONFIGURATION:
    Optional config file: ~/.config/habitator/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    habitator

    # Create a backup
    habitator backup

    # Restore from a backup
    habitator restore --latest

    # This year's report as JSON
    habitator export --format json

    # Move the data into vault/tracking/
    habitator storage set custom tracking

    # Show version
    habitator --version
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "storage":
			runStorage(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("habitator version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	sess := openSession(cfg)

	if err := ui.Run(sess, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// openSession wires the vault and config store into a live session. Loading
// is total; any storage trouble surfaces inside the app, not here.
func openSession(cfg *config.Config) *session.Session {
	fs := vault.NewDirFS(cfg.GetVaultDir())
	store := vault.NewFileConfigStore(cfg.StorePath())
	return session.Open(resolver.New(fs, store))
}

// loadConfigOrExit loads the config for subcommands.
func loadConfigOrExit() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
