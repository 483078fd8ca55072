package stdlib

import (
	"path/filepath"
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func TestWriteFileThenReadFileRoundTrips(t *testing.T) {
	r := NewRegistry(nil)
	registerFilesystem(r)

	path := filepath.Join(t.TempDir(), "out.txt")
	call(t, r, "save document contents", runtime.Text(path), runtime.Text("hello"))
	got := call(t, r, "document contents", runtime.Text(path))
	if got.Str != "hello" {
		t.Errorf("document contents = %q, want \"hello\"", got.Str)
	}
}

func TestFileExists(t *testing.T) {
	r := NewRegistry(nil)
	registerFilesystem(r)

	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	call(t, r, "save document contents", runtime.Text(path), runtime.Text("x"))

	if got := call(t, r, "path exists", runtime.Text(path)); !got.Bool {
		t.Error("expected path exists to report true for a written file")
	}
	if got := call(t, r, "path exists", runtime.Text(filepath.Join(dir, "absent.txt"))); got.Bool {
		t.Error("expected path exists to report false for a missing file")
	}
}

func TestFilesMatchingGlob(t *testing.T) {
	r := NewRegistry(nil)
	registerFilesystem(r)

	dir := t.TempDir()
	call(t, r, "save document contents", runtime.Text(filepath.Join(dir, "a.wfl")), runtime.Text(""))
	call(t, r, "save document contents", runtime.Text(filepath.Join(dir, "b.txt")), runtime.Text(""))

	got := call(t, r, "files matching", runtime.Text(dir), runtime.Text("*.wfl"))
	if len(got.List) != 1 || got.List[0].Str != "a.wfl" {
		t.Errorf("files matching *.wfl = %#v, want [a.wfl]", got.List)
	}
}
