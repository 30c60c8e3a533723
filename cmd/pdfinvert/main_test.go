package main

// Notes:
// - runMain is exercised for dispatch and exit codes only; each command has its
//   own tests. The fake composer keeps these tests independent of MuPDF.

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInputs(t, dir, "deck.pdf")[0]
	out := filepath.Join(dir, "out.pdf")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: nil, wantCode: ExitUsage, wantStderr: "Usage: pdfinvert"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: ExitUsage, wantStderr: "unknown command: frobnicate"},
		{name: "version", args: []string{"version"}, wantCode: ExitSuccess, wantStdout: "pdfinvert dev"},
		{name: "version flag", args: []string{"--version"}, wantCode: ExitSuccess, wantStdout: "pdfinvert dev"},
		{name: "help", args: []string{"help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "help compose", args: []string{"help", "compose"}, wantCode: ExitSuccess, wantStdout: "--separate"},
		{name: "compose help flag", args: []string{"compose", "-h"}, wantCode: ExitSuccess, wantStderr: "Usage: pdfinvert compose"},
		{name: "compose", args: []string{"compose", input, "-o", out}, wantCode: ExitSuccess, wantStdout: "Created " + out},
		{name: "bare pdf runs compose", args: []string{input, "-o", out}, wantCode: ExitSuccess, wantStdout: "Created " + out},
		{name: "missing input", args: []string{filepath.Join(dir, "gone.pdf")}, wantCode: ExitIO, wantStderr: "error: failed to read input file"},
		{name: "bad flag", args: []string{"compose", "--nope"}, wantCode: ExitUsage, wantStderr: "invalid usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(&fakeComposer{})
			args := append([]string{"pdfinvert"}, tt.args...)

			if code := runMain(context.Background(), args, env); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_ErrorHints(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInputs(t, dir, "bad.pdf")[0]

	env, _, stderr := testEnv(&fakeComposer{fail: map[string]error{"bad.pdf": errBadInput}})
	code := runMain(context.Background(), []string{"pdfinvert", input, "-o", filepath.Join(dir, "o.pdf")}, env)

	if code != ExitInvalidInput {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidInput)
	}
	if !strings.Contains(stderr.String(), "hint: only PDF documents are accepted") {
		t.Errorf("stderr = %q, want not-a-PDF hint", stderr.String())
	}
}

func TestRunMain_RecoversPanic(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(nil)
	env.NewComposer = nil // calling it panics

	dir := t.TempDir()
	input := writeInputs(t, dir, "a.pdf")[0]

	code := runMain(context.Background(), []string{"pdfinvert", input, "-o", filepath.Join(dir, "o.pdf")}, env)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(stderr.String(), "internal error") {
		t.Errorf("stderr = %q, want internal error", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestIsInputArg - Bare PDF paths versus commands
// ---------------------------------------------------------------------------

func TestIsInputArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"slides.pdf", true},
		{"dir/Slides.PDF", true},
		{"compose", false},
		{"inspect", false},
		{"-o", false},
		{"--x.pdf", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := isInputArg(tt.arg); got != tt.want {
			t.Errorf("isInputArg(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
