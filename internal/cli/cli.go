package cli

import (
	"errors"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve   *ServeCommand
	Import  *ImportCommand
	Export  *ExportCommand
	Stats   *StatsCommand
	Archive *ArchiveCommand
	Delete  *DeleteCommand
	Purge   *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "tweetvault"
	parser.LongDescription = "Import, browse, analyse and archive your social bookmark, like and post exports."

	cmds := &commands{
		Serve:   &ServeCommand{globals: &globals, version: version},
		Import:  &ImportCommand{globals: &globals, version: version},
		Export:  &ExportCommand{globals: &globals, version: version},
		Stats:   &StatsCommand{globals: &globals, version: version},
		Archive: &ArchiveCommand{globals: &globals, version: version},
		Delete:  &DeleteCommand{globals: &globals, version: version},
		Purge:   &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Run the HTTP API", "Run the HTTP API, re-importing import_file when it is configured.", cmds.Serve)
	parser.AddCommand("import", "Import export files", "Normalize one or more .json/.jsonl export files and upsert them into the store.", cmds.Import)
	parser.AddCommand("export", "Export records", "Export the live records as JSON, JSONL or CSV, newest first.", cmds.Export)
	parser.AddCommand("stats", "Show activity statistics", "Show streaks, gaps, weekend share and the busiest day for one year.", cmds.Stats)
	parser.AddCommand("archive", "Download media into a zip", "Download the images and videos of the live records into a zip archive.", cmds.Archive)
	parser.AddCommand("delete", "Soft-delete records", "Hide records from every listing, export and statistic. Re-importing restores them.", cmds.Delete)
	parser.AddCommand("purge", "Delete ALL records", "Delete ALL records. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the tweetvault CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// --version is valid without a subcommand, go-flags would reject it.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("tweetvault %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}

	return nil
}
