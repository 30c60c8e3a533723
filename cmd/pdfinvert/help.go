package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/alnah/go-pdfinvert/internal/config"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfinvert <command> [flags] [args]")
	fmt.Fprintln(w, "       pdfinvert <file.pdf>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  compose    Invert PDFs and tile their pages six per landscape A4 sheet")
	fmt.Fprintln(w, "  inspect    Validate PDFs and show page counts without rendering")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check that MuPDF and the pipeline work")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfinvert help <command>' for details on a specific command.")
}

// printComposeUsage prints usage for the compose command.
func printComposeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfinvert compose <file.pdf>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Invert the colours of every page and tile the pages 3 across and 2 down")
	fmt.Fprintln(w, "on landscape A4 sheets, in the order the files are given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintf(w, "  -o, --output <file>       Merged output file (default: %s)\n", config.DefaultOutputPath)
	fmt.Fprintln(w, "      --separate            Write <name>-inverted.pdf per input")
	fmt.Fprintln(w, "      --zip                 Bundle per-input outputs into processed_pdfs.zip")
	fmt.Fprintln(w, "  -d, --dir <dir>           Directory for --separate and --zip outputs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintf(w, "      --dpi <n>             Embedded image resolution, %d-%d (default: %d)\n",
		config.MinImageDPI, config.MaxImageDPI, config.DefaultImageDPI)
	fmt.Fprintln(w, "      --title <s>           Output document title")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for --separate (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PDFINVERT_CONFIG, PDFINVERT_OUTPUT, PDFINVERT_OUTPUT_DIR, PDFINVERT_TITLE,")
	fmt.Fprintln(w, "  PDFINVERT_IMAGE_DPI, PDFINVERT_MAX_INPUT_MB, PDFINVERT_WORKERS,")
	fmt.Fprintln(w, "  PDFINVERT_LOG_LEVEL, PDFINVERT_LOG_FORMAT, PDFINVERT_CONTAINER (doctor)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  pdfinvert slides.pdf notes.pdf -o handout.pdf")
	fmt.Fprintln(w, "  pdfinvert compose week*.pdf --separate -d out/")
	fmt.Fprintln(w, "  pdfinvert compose week*.pdf --zip --dpi 200")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfinvert inspect <file.pdf>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate PDFs and show page counts, sheet counts and metadata.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print machine-readable JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfinvert config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML, with environment overrides applied.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfinvert doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render and invert a probe page, compose it, and report the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print machine-readable JSON")
}

// printVersion prints the version line.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "pdfinvert %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "compose":
		printComposeUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfinvert version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfinvert help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
