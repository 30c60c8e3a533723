package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks command line errors: unknown flags, bad values, missing arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output mode flags.
type outputFlags struct {
	path     string
	dir      string
	separate bool
	zip      bool
}

// renderFlags holds output rendering flags.
type renderFlags struct {
	imageDPI int
	title    string
}

// composeFlags holds all flags for the compose command.
type composeFlags struct {
	common  commonFlags
	output  outputFlags
	render  renderFlags
	workers int
}

// inspectFlags holds flags for the inspect command.
type inspectFlags struct {
	common commonFlags
	json   bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "merged output file")
	fs.StringVarP(&f.dir, "dir", "d", "", "directory for separate outputs")
	fs.BoolVar(&f.separate, "separate", false, "write one output per input")
	fs.BoolVar(&f.zip, "zip", false, "bundle separate outputs into processed_pdfs.zip")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVar(&f.imageDPI, "dpi", 0, "embedded image resolution (72-600, default 144)")
	fs.StringVar(&f.title, "title", "", "output document title")
}

// newFlagSet creates a FlagSet that reports errors and usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs.Parse, tagging failures other than --help with ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseComposeFlags parses compose command flags and returns positional args.
func parseComposeFlags(args []string, w io.Writer) (*composeFlags, []string, error) {
	f := &composeFlags{}
	fs := newFlagSet("compose", w, printComposeUsage)

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for --separate (0 = auto)")
	addOutputFlags(fs, &f.output)
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInspectFlags parses inspect command flags and returns positional args.
func parseInspectFlags(args []string, w io.Writer) (*inspectFlags, []string, error) {
	f := &inspectFlags{}
	fs := newFlagSet("inspect", w, printInspectUsage)

	fs.BoolVar(&f.json, "json", false, "print machine-readable JSON")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, w io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	fs := newFlagSet("config", w, printConfigUsage)
	addCommonFlags(fs, f)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: config takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)
	fs.BoolVar(&f.json, "json", false, "print machine-readable JSON")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}
