package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/typedemand/internal/analyzer"
	"github.com/funvibe/typedemand/internal/config"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/mismatchlog"
	"github.com/funvibe/typedemand/internal/parser"
	"github.com/funvibe/typedemand/internal/pipeline"
)

// Exit codes.
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitUsage       = 2
)

const usage = `Usage: typedemand [flags] <suite.demand.yaml|dir>...

Checks every demand of the given suites and prints the diagnostics.
Directories are searched for suite files recursively.

Flags:
`

// isSuiteFile checks if a file has a recognized suite extension
func isSuiteFile(path string) bool {
	for _, ext := range config.SuiteFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// collectSuites expands directory arguments into the suite files below them.
func collectSuites(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isSuiteFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		found, err := config.FindSettings(".")
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.DefaultSettings(), nil
		}
		path = found
	}
	return config.LoadSettings(path)
}

// checkSuite runs one suite through the pipeline in its own session.
func checkSuite(path string, settings *config.Settings, store *mismatchlog.Store, logger *slog.Logger) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext("")
	ctx.FilePath = path
	ctx.StrictUnions = settings.StrictUnions
	ctx.Logger = logger.With("suite", path)

	sink := diagnostics.NewReporter(ctx.Bag).ForSession(ctx.SessionID.String())
	if store != nil {
		ctx.Sink = mismatchlog.Tee(store, ctx.SessionID.String(), sink, ctx.Logger)
	} else {
		ctx.Sink = sink
	}

	processingPipeline := pipeline.New(
		&pipeline.LoadProcessor{},
		&parser.ParserProcessor{},
		&analyzer.DeclareProcessor{},
		&analyzer.CheckProcessor{},
	)
	return processingPipeline.Run(ctx)
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("typedemand", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}
	configPath := flags.String("config", "", "settings file (default: nearest "+config.SettingsFileName+")")
	recordPath := flags.String("record", "", "SQLite database that receives every reported mismatch")
	jobs := flags.Int("j", runtime.GOMAXPROCS(0), "number of suites checked in parallel")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() == 0 || *jobs < 1 {
		flags.Usage()
		return exitUsage
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitUsage
	}
	if *recordPath != "" {
		settings.Record = *recordPath
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: settings.Level()}))

	files, err := collectSuites(flags.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitUsage
	}

	var store *mismatchlog.Store
	if settings.Record != "" {
		store, err = mismatchlog.Open(settings.Record)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return exitUsage
		}
		defer store.Close()
	}

	results := make([]*pipeline.PipelineContext, len(files))
	var g errgroup.Group
	g.SetLimit(*jobs)
	for i, path := range files {
		g.Go(func() error {
			results[i] = checkSuite(path, settings, store, logger)
			return nil
		})
	}
	_ = g.Wait() // checkSuite reports through diagnostics, never an error

	emitter := diagnostics.NewEmitter(stdout, settings.Color)
	total := 0
	for _, ctx := range results {
		diags := ctx.Diagnostics()
		emitter.EmitAll(diags)
		total += len(diags)
	}
	logger.Info("check finished", "suites", len(files), "diagnostics", total)

	if total > 0 {
		return exitDiagnostics
	}
	return exitOK
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(exitUsage)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
