// Package main is the entry point for the habitator application.
// This file contains the backup subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tokrqui/habitator/internal/backup"
	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/resolver"
	"github.com/tokrqui/habitator/internal/vault"
)

// backupHelpText is the help message for the backup subcommand.
const backupHelpText = `habitator backup - Create and manage backups

USAGE:
    habitator backup [OPTIONS]

OPTIONS:
    -l, --list     List available backups
    --prune N      Keep the N newest backups, delete the rest
    -h, --help     Show this help message

DESCRIPTION:
    Creates a timestamped backup of the config store and, in the file-backed
    storage modes, the settings file inside the vault. Backups are stored in
    the backups/ directory under the data directory.

EXAMPLES:
    # Create a new backup
    habitator backup

    # List all available backups
    habitator backup --list

    # Keep only the five newest backups
    habitator backup --prune 5
`

// runBackup handles the "habitator backup" subcommand.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	listFlag := fs.Bool("list", false, "list available backups")
	fs.BoolVar(listFlag, "l", false, "list available backups (shorthand)")

	pruneFlag := fs.Int("prune", -1, "keep the N newest backups")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, backupHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(backupHelpText)
		os.Exit(0)
	}

	cfg := loadConfigOrExit()
	manager := backup.NewManager(cfg.GetDataDir(), cfg.GetVaultDir(), version)

	switch {
	case *listFlag:
		listBackups(manager)
	case *pruneFlag >= 0:
		pruneBackups(manager, *pruneFlag)
	default:
		createBackup(manager, cfg)
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(manager *backup.Manager, cfg *config.Config) {
	// The vault-relative path only matters in file-backed modes; the
	// manager skips it when the file does not exist.
	store := vault.NewFileConfigStore(cfg.StorePath())
	vaultRel := resolver.ResolvePath(store.Load().Config.Normalized())

	name, err := manager.Create(vaultRel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating backup: %v\n", err)
		os.Exit(1)
	}

	info, err := manager.Get(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading backup info: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Backup created: %s\n", name)
	fmt.Printf("  Habits: %d, Completed days: %d\n",
		info.Stats["habits"], info.Stats["completed_days"])
	fmt.Printf("  Location: %s\n", info.Path)
}

// listBackups lists all available backups.
func listBackups(manager *backup.Manager) {
	backups, err := manager.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing backups: %v\n", err)
		os.Exit(1)
	}

	if len(backups) == 0 {
		fmt.Println("No backups available.")
		fmt.Println("Run 'habitator backup' to create one.")
		return
	}

	fmt.Println("Available backups:")
	for _, b := range backups {
		age := formatAge(b.CreatedAt)
		fmt.Printf("  %s  (%s)   Habits: %d, Days: %d\n",
			b.Name, age, b.Stats["habits"], b.Stats["completed_days"])
	}
}

// pruneBackups deletes all but the newest backups.
func pruneBackups(manager *backup.Manager, keep int) {
	deleted, err := manager.Prune(keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error pruning backups: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %d backup(s), kept the %d newest.\n", deleted, keep)
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}
