package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if p, err := ExpandHome("~"); err != nil || p != home {
		t.Fatalf("expected %q, got %q err=%v", home, p, err)
	}
	exp, err := ExpandHome("~/locales")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if filepath.Base(exp) != "locales" || filepath.Dir(exp) != home {
		t.Fatalf("unexpected expanded path: %q", exp)
	}
}

func TestScanExt_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"fr.yaml", "en.YML", "de.toml", "notes.txt", "es.json"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := ScanExt(dir, ".yaml", ".yml", ".toml")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{"de.toml", "en.YML", "fr.yaml"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] || !filepath.IsAbs(got[i]) {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestScanExt_MissingDir(t *testing.T) {
	if _, err := ScanExt(filepath.Join(t.TempDir(), "absent"), ".yaml"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPathExistsAndStripExt(t *testing.T) {
	dir := t.TempDir()
	if !PathExists(dir) || PathExists(filepath.Join(dir, "nope")) {
		t.Fatalf("PathExists wrong")
	}
	if got := StripExt("/a/b/en.yaml"); got != "en" {
		t.Fatalf("StripExt=%q", got)
	}
}
