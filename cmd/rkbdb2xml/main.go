package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kuwa72/rkbdb2xml/internal/config"
	"github.com/kuwa72/rkbdb2xml/internal/export"
	"github.com/kuwa72/rkbdb2xml/internal/library"
	"github.com/kuwa72/rkbdb2xml/internal/model"
	"github.com/kuwa72/rkbdb2xml/internal/rekordbox"
)

func main() {
	// Command line flags
	var (
		dbFlag       = flag.String("db", "", "Path to the library database (decrypted master.db)")
		outputFlag   = flag.String("output", "", "Output XML path (overrides config)")
		selectFlag   = flag.String("select", "", "Playlists to export: IDs, names or folder/paths, comma-separated (default: all)")
		copyFlag     = flag.Bool("copy-files", false, "Copy track files into the files directory")
		filesDirFlag = flag.String("files-dir", "", "Directory for copied track files (overrides config)")
		forceFlag    = flag.Bool("force", false, "Overwrite the output file and recopy existing track files")
		romanFlag    = flag.Bool("roman", false, "Romanize title, artist and album text for every playlist")
		bpmFlag      = flag.Bool("bpm", false, "Prefix every track title with its rounded BPM")
		orderFlag    = flag.String("orderby", "", "Track order within playlists: default, bpm, bpm-desc, title, artist")
		workersFlag  = flag.Int("workers", 0, "Max concurrent file copies (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Resolve the selection without exporting")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *dbFlag != "" {
		settings.DatabasePath = *dbFlag
	} else if flag.NArg() > 0 {
		settings.DatabasePath = flag.Arg(0)
	}
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}
	if *selectFlag != "" {
		settings.Playlists = *selectFlag
	}
	if *copyFlag {
		settings.CopyFiles = true
	}
	if *filesDirFlag != "" {
		settings.FilesDir = *filesDirFlag
	}
	if *forceFlag {
		settings.Overwrite = true
	}
	if *romanFlag {
		settings.ForceRomanize = true
	}
	if *bpmFlag {
		settings.ForceAddBPM = true
	}
	if *workersFlag > 0 {
		settings.MaxConcurrentCopies = *workersFlag
	}
	if *orderFlag != "" {
		order, err := model.ParseSortOrder(*orderFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings.DefaultOptions.SortOrder = order
	}

	if !rekordbox.IsDatabase(settings.DatabasePath) {
		fmt.Fprintf(os.Stderr, "Error: %s does not look like a library database\n", settings.DatabasePath)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	source, err := rekordbox.Open(settings.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	selection := library.ParseSpec([]string{settings.Playlists})

	if *dryRunFlag {
		if err := printSelection(ctx, source, selection); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create manager with progress callback
	manager := export.NewManager(settings, source, func(event export.ProgressEvent) {
		if event.Level == export.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case export.LevelError:
			prefix = "[error] "
		case export.LevelWarning:
			prefix = "[warn]  "
		case export.LevelSuccess:
			prefix = "[done]  "
		case export.LevelInfo:
			prefix = "[info]  "
		default:
			prefix = "        "
		}

		fmt.Println(prefix + event.Message)
	})

	report, err := manager.Run(ctx, selection)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nExport cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during export: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Exported %d playlists, %d tracks to %s\n", report.Playlists, report.Tracks, report.XMLPath)
	if settings.CopyFiles {
		fmt.Printf("Files: %d copied, %d already present\n", report.CopiedFiles, report.SkippedFiles)
	}
	if len(report.Warnings) > 0 {
		fmt.Printf("%d warnings:\n", len(report.Warnings))
		for _, w := range report.Warnings {
			fmt.Printf("  track %s: %s\n", w.TrackID, w.Message)
		}
	}
}

// printSelection resolves the selection and lists the matching playlists
// with their paths, without exporting anything.
func printSelection(ctx context.Context, source rekordbox.Source, selection []string) error {
	rows, err := source.Playlists(ctx)
	if err != nil {
		return err
	}
	tree, err := library.BuildTree(rows)
	if err != nil {
		return err
	}
	ids, err := library.Resolve(tree, selection)
	if err != nil {
		return err
	}

	fmt.Printf("Selection resolves to %d playlists:\n", len(ids))
	for _, flat := range tree.Flatten() {
		if flat.Node.IsFolder {
			continue
		}
		for _, id := range ids {
			if id == flat.Node.ID {
				fmt.Printf("  %s%s (ID %s)\n", strings.Repeat("  ", flat.Depth), flat.Node.Name, flat.Node.ID)
			}
		}
	}
	return nil
}
