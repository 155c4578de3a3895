// Command ibeacon-log is a tool for viewing and analyzing tracker event logs.
//
// Event logs are written by ibeacon-tracker and ibeacon-console when the
// event_log setting or the -event-log flag is set.
//
// Usage:
//
//	ibeacon-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	ibeacon-log view events.blog
//
//	# View departures only
//	ibeacon-log view -kind unavailable events.blog
//
//	# History of one beacon since a point in time
//	ibeacon-log view -id e2c56db5-dffb-48d2-b060-d0f5a71096e0_1_2 -since 2026-01-28T00:00:00Z events.blog
//
//	# Export to CSV
//	ibeacon-log export -format csv -o events.csv events.blog
//
//	# Show statistics
//	ibeacon-log stats events.blog
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ibeacon-tracker/ibeacon-go/cmd/ibeacon-log/commands"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
)

const usage = `ibeacon-log - iBeacon Tracker Event Log Analyzer

Usage:
  ibeacon-log <command> [flags] <file.blog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "ibeacon-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set with the shared filter flags.
func newFlagSet(name, summary string) (*flag.FlagSet, *commands.FilterOptions) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ibeacon-log %s - %s

Usage:
  ibeacon-log %s [flags] <file.blog>

Flags:
`, name, summary, name)
		fs.PrintDefaults()
	}

	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.Kind, "kind", "", "Filter by kind (new, seen, unavailable)")
	fs.StringVar(&opts.ID, "id", "", "Filter by unique id or group id")
	fs.StringVar(&opts.Regime, "regime", "", "Filter by regime (fixed, random)")
	fs.StringVar(&opts.Since, "since", "", "Filter events at or after this time (RFC3339)")
	fs.StringVar(&opts.Until, "until", "", "Filter events before this time (RFC3339)")
	return fs, opts
}

// parseArgs parses args and returns the log path and filter, exiting on
// invalid input.
func parseArgs(fs *flag.FlagSet, opts *commands.FilterOptions, args []string) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fatal(err)
	}
	return fs.Arg(0), filter
}

func runView(args []string) {
	fs, opts := newFlagSet("view", "View log file in human-readable format")
	path, filter := parseArgs(fs, opts, args)

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs, opts := newFlagSet("export", "Export log file to JSON or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path, filter := parseArgs(fs, opts, args)

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(fmt.Errorf("failed to create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	if err := commands.RunExport(path, filter, *format, w); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs, opts := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	path, filter := parseArgs(fs, opts, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	count, err := commands.RunFilter(path, filter, *output)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs, opts := newFlagSet("stats", "Show statistics about the log file")
	path, filter := parseArgs(fs, opts, args)

	if err := commands.RunStats(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
