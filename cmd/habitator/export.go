// Package main is the entry point for the habitator application.
// This file contains the export subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tokrqui/habitator/internal/fsutil"
	"github.com/tokrqui/habitator/internal/reports"
)

// exportHelpText is the help message for the export subcommand.
const exportHelpText = `habitator export - Generate yearly habit reports

USAGE:
    habitator export [OPTIONS] [YEAR]

OPTIONS:
    -f, --format FMT   Output format: markdown (default), json, or svg
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

ARGUMENTS:
    YEAR               Year to report on. Defaults to the year shown in the
                       app.

DESCRIPTION:
    Generates a report of all habits for one year: completion counts, streaks,
    a per-month table, and the grid itself. The svg format renders the active
    habit's heatmap as a standalone image.

EXAMPLES:
    # This year's report in Markdown
    habitator export

    # A specific year
    habitator export 2025

    # JSON format
    habitator export --format json

    # SVG heatmap of the active habit
    habitator export --format svg --output habits.svg
`

// runExport handles the "habitator export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	formatFlag := fs.String("format", "markdown", "output format: markdown, json, or svg")
	fs.StringVar(formatFlag, "f", "markdown", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	format := *formatFlag
	if format == "md" {
		format = "markdown"
	}
	if format != "markdown" && format != "json" && format != "svg" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'markdown', 'json', or 'svg'.\n", format)
		os.Exit(1)
	}

	cfg := loadConfigOrExit()
	sess := openSession(cfg)
	settings := sess.Settings()

	// Year argument
	year := settings.Year
	if fs.NArg() > 0 {
		if _, err := fmt.Sscanf(fs.Arg(0), "%d", &year); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid year %q.\n", fs.Arg(0))
			os.Exit(1)
		}
	}

	report := reports.NewGenerator().Generate(settings, year)

	var output string
	switch format {
	case "json":
		data, err := reports.FormatJSON(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
			os.Exit(1)
		}
		output = string(data)

	case "svg":
		habit := activeHabitYear(report, settings.ActiveHabitID)
		if habit == nil {
			fmt.Fprintln(os.Stderr, "Error: no habit to render.")
			os.Exit(1)
		}
		output = reports.FormatSVG(report, habit, reports.DefaultSVGOptions())

	default:
		output = reports.FormatMarkdown(report)
	}

	// Write output
	if *outputFlag != "" {
		if err := os.MkdirAll(filepath.Dir(*outputFlag), 0700); err != nil && filepath.Dir(*outputFlag) != "." {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		if err := fsutil.WriteFileAtomic(*outputFlag, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *outputFlag)
	} else {
		fmt.Print(output)
	}
}

// activeHabitYear picks the active habit's slice of the report, or the first
// habit when no active id matches.
func activeHabitYear(report *reports.YearReport, activeID *string) *reports.HabitYear {
	if activeID != nil {
		for i := range report.Habits {
			if report.Habits[i].ID == *activeID {
				return &report.Habits[i]
			}
		}
	}
	if len(report.Habits) > 0 {
		return &report.Habits[0]
	}
	return nil
}
