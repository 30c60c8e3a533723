package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/fileutil"
)

// inspectResult describes one inspected file.
type inspectResult struct {
	File     string `json:"file"`
	Size     int64  `json:"size"`
	Pages    int    `json:"pages,omitempty"`
	Sheets   int    `json:"sheets,omitempty"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
	Error    string `json:"error,omitempty"`
}

// runInspect validates each file and reports its page count and metadata,
// without rendering anything. Every file is reported; the first failure is returned.
func runInspect(args []string, env *Environment) error {
	flags, paths, err := parseInspectFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return ErrNoInput
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	results := make([]inspectResult, 0, len(paths))
	var firstErr error
	for _, p := range paths {
		r, err := inspectFile(p, cfg.Limits.MaxInputMB)
		if err != nil {
			r.Error = err.Error()
			if firstErr == nil {
				firstErr = err
			}
		}
		results = append(results, r)
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else if !flags.common.quiet || firstErr != nil {
		printInspectResults(env.Stdout, results)
	}

	return firstErr
}

// inspectFile reads and inspects a single file.
func inspectFile(path string, limitMB int) (inspectResult, error) {
	r := inspectResult{File: path}

	files, err := readInputs([]string{path}, limitMB)
	if err != nil {
		return r, err
	}
	r.Size = int64(len(files[0].Data))

	info, err := pdfinvert.Inspect(files[0].Data)
	if err != nil {
		return r, err
	}
	r.Pages = info.Pages
	r.Sheets = pdfinvert.SheetCount(info.Pages)
	r.Title = info.Title
	r.Author = info.Author
	r.Creator = info.Creator
	r.Producer = info.Producer
	return r, nil
}

// printInspectResults outputs human-readable inspection results.
func printInspectResults(w io.Writer, results []inspectResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.File)
		if r.Error != "" {
			fmt.Fprintf(w, "  [ERROR] %s\n", r.Error)
			continue
		}
		fmt.Fprintf(w, "  Pages:    %d (%s)\n", r.Pages, plural(r.Sheets, "sheet"))
		fmt.Fprintf(w, "  Size:     %s\n", fileutil.FormatSize(r.Size))
		printField(w, "Title", r.Title)
		printField(w, "Author", r.Author)
		printField(w, "Creator", r.Creator)
		printField(w, "Producer", r.Producer)
	}
}

// printField prints a metadata line when value is set.
func printField(w io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-9s %s\n", name+":", value)
}
