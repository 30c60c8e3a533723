package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"runtime"

	"github.com/signintech/gopdf"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
	"github.com/alnah/go-pdfinvert/internal/fileutil"
	"github.com/alnah/go-pdfinvert/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	MuPDF    mupdfInfo    `json:"mupdf"`
	Pipeline pipelineInfo `json:"pipeline"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// mupdfInfo holds the rasterizer self-test results.
type mupdfInfo struct {
	OK       bool `json:"ok"`
	Cgo      bool `json:"cgo"`
	Width    int  `json:"width,omitempty"`  // rendered probe width in pixels
	Height   int  `json:"height,omitempty"` // rendered probe height in pixels
	Inverted bool `json:"inverted"`
}

// pipelineInfo holds the end-to-end composition self-test results.
type pipelineInfo struct {
	OK     bool  `json:"ok"`
	Sheets int   `json:"sheets,omitempty"`
	Size   int64 `json:"size,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	GoVersion     string `json:"go_version"`
	MaxProcs      int    `json:"gomaxprocs"`
	Workers       int    `json:"workers"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	ConfigDir     string `json:"config_dir,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		MuPDF:  mupdfInfo{Cgo: cgoEnabled},
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			GoVersion: runtime.Version(),
			MaxProcs:  runtime.GOMAXPROCS(0),
			Workers:   resolveWorkers(0),
		},
	}

	probe := checkSystem(result)
	checkMuPDF(result, probe)
	checkPipeline(ctx, result, probe, env)
	checkEnvironment(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// probePDF builds a one-page portrait A4 document: white with a black centre block.
func probePDF() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 85))
	for y := range 85 {
		for x := range 60 {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 20 && x < 40 && y >= 30 && y < 55 {
				c = color.RGBA{A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()
	if err := pdf.ImageFrom(img, 0, 0, gopdf.PageSizeA4); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkSystem verifies the temp directory by round-tripping the probe document
// through it. Returns the probe read back, or nil on failure.
func checkSystem(result *doctorResult) []byte {
	probe, err := probePDF()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Could not build probe PDF: %v", err))
		return nil
	}

	path, cleanup, err := fileutil.WriteTempFile(probe, "pdf")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return probe
	}
	defer cleanup()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from os.CreateTemp
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp file not readable: %v", err))
		return probe
	}
	result.System.TempWritable = true
	return data
}

// checkMuPDF rasterizes and inverts the probe page.
func checkMuPDF(result *doctorResult, probe []byte) {
	if probe == nil {
		return
	}
	if !cgoEnabled {
		result.Warnings = append(result.Warnings,
			"Built without cgo: MuPDF is loaded from a shared libmupdf at run time")
	}

	doc, err := pdfinvert.OpenDocument(probe)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("MuPDF could not open probe: %v%s", err, hints.ForMuPDF()))
		return
	}
	defer doc.Close()

	for img, err := range pdfinvert.Rasterize(doc) {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("MuPDF could not render probe: %v%s", err, hints.ForMuPDF()))
			return
		}

		result.MuPDF.OK = true
		result.MuPDF.Width = img.Width()
		result.MuPDF.Height = img.Height()

		inverted := pdfinvert.Invert(img).Image()
		centre := inverted.RGBAAt(img.Width()/2, img.Height()/2)
		corner := inverted.RGBAAt(2, 2)
		result.MuPDF.Inverted = centre.R > 200 && corner.R < 55
		if !result.MuPDF.Inverted {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Probe colours unexpected after inversion (centre %v, corner %v)", centre, corner))
		}
		img.Release()
	}
}

// checkPipeline runs the probe through the full composer.
func checkPipeline(ctx context.Context, result *doctorResult, probe []byte, env *Environment) {
	if probe == nil || !result.MuPDF.OK {
		return
	}

	newComposer := env.NewComposer
	if newComposer == nil {
		newComposer = DefaultEnv().NewComposer
	}
	comp := newComposer(pdfinvert.WithImageDPI(pdfinvert.MinImageDPI))

	res, err := comp.Compose(ctx, []pdfinvert.Input{{Name: "probe.pdf", Data: probe}})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Composition self-test failed: %v", err))
		return
	}
	info, err := pdfinvert.Inspect(res.PDF)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Composed output does not validate: %v", err))
		return
	}

	result.Pipeline.OK = info.Pages == 1
	result.Pipeline.Sheets = info.Pages
	result.Pipeline.Size = int64(len(res.PDF))
	if !result.Pipeline.OK {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Composed output has %d pages, want 1", info.Pages))
	}
}

// checkEnvironment detects container and CI environments, and stray env vars.
func checkEnvironment(result *doctorResult) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if dir, err := config.UserConfigDir(); err == nil {
		result.Env.ConfigDir = dir
	}

	for _, name := range unknownEnvVars() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unknown environment variable %s (typo?)", name))
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("PDFINVERT_CONTAINER") == "1" {
		return true, "PDFINVERT_CONTAINER=1"
	}
	// Docker
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfinvert doctor")
	fmt.Fprintln(w)

	// MuPDF section
	fmt.Fprintln(w, "MuPDF")
	if r.MuPDF.OK {
		fmt.Fprintf(w, "  [OK] Rendered probe page: %dx%d px\n", r.MuPDF.Width, r.MuPDF.Height)
		if r.MuPDF.Inverted {
			fmt.Fprintln(w, "  [OK] Inversion: correct")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Rendering unavailable")
	}
	if r.MuPDF.Cgo {
		fmt.Fprintln(w, "  [OK] Linked: cgo")
	} else {
		fmt.Fprintln(w, "  [OK] Linked: shared library")
	}
	fmt.Fprintln(w)

	// Pipeline section
	fmt.Fprintln(w, "Pipeline")
	if r.Pipeline.OK {
		fmt.Fprintf(w, "  [OK] Composed probe: %s, %s\n", plural(r.Pipeline.Sheets, "sheet"), fileutil.FormatSize(r.Pipeline.Size))
	} else {
		fmt.Fprintln(w, "  [ERROR] Composition self-test failed")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s (%s)\n", r.Env.OS, r.Env.Arch, r.Env.GoVersion)
	fmt.Fprintf(w, "  [OK] Workers: %d (GOMAXPROCS %d)\n", r.Env.Workers, r.Env.MaxProcs)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.ConfigDir != "" {
		fmt.Fprintf(w, "  [OK] Config directory: %s\n", r.Env.ConfigDir)
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to invert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
