package mirror

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles_SortedMarkdownOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "b")
	writeFile(t, filepath.Join(dir, "a.md"), "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")
	writeFile(t, filepath.Join(dir, "sub", "c.markdown"), "c")

	files, err := Files(dir, filepath.Join(dir, "mdbuild"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "sub", "c.markdown"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i, w := range want {
		if files[i] != w {
			t.Errorf("files[%d]: expected %q, got %q", i, w, files[i])
		}
	}
}

func TestFiles_OutputDirectorySkipped(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "mdbuild")
	writeFile(t, filepath.Join(dir, "doc.md"), "doc")
	writeFile(t, filepath.Join(out, "doc.md"), "old output")

	files, err := Files(dir, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(dir, "doc.md") {
		t.Errorf("expected only the input file, got %v", files)
	}
}

func TestPrepare_RecreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "part1", "ch1", "doc.md"), "x")

	if err := Prepare(dir, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(filepath.Join(out, "part1", "ch1"))
	if err != nil || !info.IsDir() {
		t.Errorf("expected mirrored directory, got err=%v", err)
	}
}

func TestWrite_MirroredPath(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	in := filepath.Join(dir, "sub", "doc.md")
	writeFile(t, in, "original")

	path, err := Write(in, dir, out, "rewritten")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(out, "sub", "doc.md") {
		t.Errorf("unexpected output path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "rewritten" {
		t.Errorf("expected %q, got %q", "rewritten", string(data))
	}
}
