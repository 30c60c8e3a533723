package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/signintech/gopdf"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
)

// fakeComposer records calls and returns a result whose PDF names its inputs.
type fakeComposer struct {
	mu    sync.Mutex
	calls [][]pdfinvert.Input
	each  int
	fail  map[string]error // by input name
	delay time.Duration
}

var _ Composer = (*fakeComposer)(nil)

func (f *fakeComposer) Compose(ctx context.Context, inputs []pdfinvert.Input) (*pdfinvert.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inputs)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	for _, in := range inputs {
		if err := f.fail[in.Name]; err != nil {
			return nil, err
		}
	}
	return &pdfinvert.Result{
		PDF:    fakeOutput(inputs),
		Sheets: pdfinvert.SheetCount(len(inputs)),
		Pages:  len(inputs),
	}, nil
}

func (f *fakeComposer) ComposeEach(ctx context.Context, inputs []pdfinvert.Input) ([]*pdfinvert.Result, error) {
	f.mu.Lock()
	f.each++
	f.mu.Unlock()

	for _, in := range inputs {
		if err := f.fail[in.Name]; err != nil {
			return nil, err
		}
	}
	results := make([]*pdfinvert.Result, len(inputs))
	for i, in := range inputs {
		results[i] = &pdfinvert.Result{PDF: fakeOutput([]pdfinvert.Input{in}), Sheets: 1, Pages: 1}
	}
	return results, nil
}

func (f *fakeComposer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeOutput is "%PDF-fake" followed by the input names.
func fakeOutput(inputs []pdfinvert.Input) []byte {
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	return []byte("%PDF-fake " + strings.Join(names, ","))
}

// testEnv returns an Environment with captured output and comp as composer.
func testEnv(comp Composer) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
		NewComposer: func(...pdfinvert.Option) Composer {
			return comp
		},
	}
	return env, &stdout, &stderr
}

// writeInputs creates placeholder input files in dir and returns their paths.
func writeInputs(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(paths[i]), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(paths[i], []byte("%PDF-1.7 "+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

// testPDF builds a real document with n blank A4 pages.
func testPDF(t *testing.T, n int) []byte {
	t.Helper()
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	for range n {
		pdf.AddPage()
	}
	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		t.Fatalf("building test PDF: %v", err)
	}
	return buf.Bytes()
}

// isolateConfig points config lookup at an empty directory so no user config
// or stray PDFINVERT_* variable leaks into a test. Not usable with t.Parallel.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
	return dir
}
