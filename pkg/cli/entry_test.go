package cli

import (
	"strings"
	"testing"

	"github.com/kthxbye/lolc/internal/config"
)

func TestParseCompileFlagsDefaults(t *testing.T) {
	flags, err := parseCompileFlags(nil, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flags.cc != config.DefaultCC {
		t.Errorf("cc: got %q", flags.cc)
	}
	if flags.target != config.DefaultTarget {
		t.Errorf("target: got %q", flags.target)
	}
	if flags.out != "main" {
		t.Errorf("out: got %q", flags.out)
	}
	if flags.stack != config.DefaultStackSize || flags.heap != config.DefaultHeapSize {
		t.Errorf("sizes: got %d/%d", flags.stack, flags.heap)
	}
	if flags.noCache {
		t.Error("cache must be on by default")
	}
}

func TestParseCompileFlagsOverrides(t *testing.T) {
	args := []string{
		"--cc", "tcc",
		"--target", "asm",
		"--out", "prog",
		"--emit-c", "prog.c",
		"--stack", "128",
		"--heap", "64",
		"--no-cache",
	}

	flags, err := parseCompileFlags(args, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flags.cc != "tcc" || flags.target != "asm" || flags.out != "prog" || flags.emitC != "prog.c" {
		t.Errorf("got %+v", flags)
	}
	if flags.stack != 128 || flags.heap != 64 {
		t.Errorf("sizes: got %d/%d", flags.stack, flags.heap)
	}
	if !flags.noCache {
		t.Error("expected --no-cache to disable the cache")
	}
}

func TestParseCompileFlagsProjectConfigSeedsDefaults(t *testing.T) {
	project := config.Default()
	project.CC = "clang"
	project.StackSize = 512

	flags, err := parseCompileFlags([]string{"--heap", "256"}, project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Flags override the project file; untouched fields come from it.
	if flags.cc != "clang" || flags.stack != 512 || flags.heap != 256 {
		t.Errorf("got %+v", flags)
	}
}

func TestParseCompileFlagsErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"missing_cc_value", []string{"--cc"}, "--cc requires a value"},
		{"missing_out_value", []string{"--out"}, "--out requires a value"},
		{"missing_stack_value", []string{"--stack"}, "--stack requires a value"},
		{"stack_not_a_number", []string{"--stack", "lots"}, `invalid --stack value "lots"`},
		{"stack_negative", []string{"--stack", "-1"}, `invalid --stack value "-1"`},
		{"stack_zero", []string{"--stack", "0"}, `invalid --stack value "0"`},
		{"heap_not_a_number", []string{"--heap", "big"}, `invalid --heap value "big"`},
		{"unknown_option", []string{"--fast"}, `unknown option "--fast"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseCompileFlags(tc.args, config.Default())
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Error() != tc.want {
				t.Errorf("got %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestCheckTarget(t *testing.T) {
	if err := checkTarget("c"); err != nil {
		t.Errorf("c target: unexpected error %v", err)
	}

	err := checkTarget("asm")
	if err == nil {
		t.Fatal("expected asm to be rejected")
	}
	if !strings.Contains(err.Error(), `target "asm" is not supported`) {
		t.Errorf("message: got %q", err.Error())
	}

	if err := checkTarget("wasm"); err == nil {
		t.Error("expected unknown target to be rejected")
	}
}
