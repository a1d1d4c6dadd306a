// Package main is the entry point for the habitator application.
// This file contains the storage subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tokrqui/habitator/internal/resolver"
	"github.com/tokrqui/habitator/internal/settings"
)

// storageHelpText is the help message for the storage subcommand.
const storageHelpText = `habitator storage - Inspect and switch the storage backend

USAGE:
    habitator storage
    habitator storage set MODE [DIR]

MODES:
    embedded       Keep settings inside the config store
    vault          Settings file at the vault root (habit-tracker.json)
    custom DIR     Settings file in the given vault subdirectory

OPTIONS:
    -h, --help     Show this help message

DESCRIPTION:
    Without arguments, prints the effective storage mode and location.
    'storage set' switches the backend and carries the current data over;
    when the new location cannot be written the data stays embedded.

EXAMPLES:
    # Show the current mode
    habitator storage

    # Move the settings file to the vault root
    habitator storage set vault

    # Move it into vault/tracking/
    habitator storage set custom tracking
`

// runStorage handles the "habitator storage" subcommand.
func runStorage(args []string) {
	fs := flag.NewFlagSet("storage", flag.ExitOnError)

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, storageHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(storageHelpText)
		os.Exit(0)
	}

	cfg := loadConfigOrExit()
	sess := openSession(cfg)

	if fs.NArg() == 0 {
		printStorage(sess.StorageConfig())
		return
	}

	if fs.Arg(0) != "set" {
		fmt.Fprintf(os.Stderr, "Error: unknown storage command %q.\n", fs.Arg(0))
		os.Exit(1)
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: no mode given. Use embedded, vault, or custom DIR.")
		os.Exit(1)
	}

	var next settings.StorageConfig
	switch fs.Arg(1) {
	case "embedded":
		next = settings.StorageConfig{Mode: settings.ModeEmbedded}
	case "vault":
		next = settings.StorageConfig{Mode: settings.ModeFixedVaultPath}
	case "custom":
		subdir := ""
		if fs.NArg() > 2 {
			subdir = fs.Arg(2)
		}
		next = settings.StorageConfig{
			Mode:         settings.ModeCustomVaultDir,
			CustomSubdir: subdir,
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q. Use embedded, vault, or custom DIR.\n", fs.Arg(1))
		os.Exit(1)
	}

	sess.SetStorageConfig(next)
	if sess.TakeDemotionNotice() {
		fmt.Fprintln(os.Stderr, "⚠ New location could not be written; data stays in the config store.")
	}
	printStorage(sess.StorageConfig())
}

// printStorage shows the effective mode and location.
func printStorage(cfg settings.StorageConfig) {
	fmt.Printf("Mode: %s\n", cfg.Mode)
	if cfg.Mode == settings.ModeEmbedded {
		fmt.Println("Location: config store")
		return
	}
	fmt.Printf("Location: vault/%s\n", resolver.ResolvePath(cfg))
}
