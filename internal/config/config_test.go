package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kthxbye/lolc/internal/config"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lolc.yaml")
	data := "stack_size: 8192\nheap_size: 16384\ncc: clang\ntarget: c\ncache: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if project.StackSize != 8192 || project.HeapSize != 16384 {
		t.Errorf("sizes: got %d/%d", project.StackSize, project.HeapSize)
	}
	if project.CC != "clang" {
		t.Errorf("cc: got %q", project.CC)
	}
	if project.CacheEnabled() {
		t.Error("expected cache disabled")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lolc.yaml")
	if err := os.WriteFile(path, []byte("cc: tcc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if project.StackSize != config.DefaultStackSize {
		t.Errorf("stack: got %d", project.StackSize)
	}
	if project.HeapSize != config.DefaultHeapSize {
		t.Errorf("heap: got %d", project.HeapSize)
	}
	if project.Target != config.DefaultTarget {
		t.Errorf("target: got %q", project.Target)
	}
	if !project.CacheEnabled() {
		t.Error("expected cache enabled by default")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lolc.yaml")
	if err := os.WriteFile(path, []byte("stack_size: [nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(root, "lolc.yaml")
	if err := os.WriteFile(configPath, []byte("cc: gcc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := config.Find(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != configPath {
		t.Errorf("got %q, want %q", found, configPath)
	}
}

func TestFindReturnsEmptyWithoutConfig(t *testing.T) {
	found, err := config.Find(t.TempDir())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != "" {
		t.Errorf("got %q, want empty", found)
	}
}

func TestForSourceDefaultsWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "program.lol")
	if err := os.WriteFile(src, []byte("HAI 1.2\nKTHXBYE"), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := config.ForSource(src)
	if err != nil {
		t.Fatalf("for source: %v", err)
	}
	if project.StackSize != config.DefaultStackSize || project.CC != config.DefaultCC {
		t.Errorf("got %+v", project)
	}
}
