package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return f, dir
}

func TestNewFS_MissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestFS_WriteReadRoundTrip(t *testing.T) {
	f, _ := newTestFS(t)
	if err := f.Write("posts/note.md", []byte("content")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := f.Read("posts/note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("got %q", data)
	}
}

func TestFS_WriteLeavesNoTempFiles(t *testing.T) {
	f, dir := newTestFS(t)
	if err := f.Write("note.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".ansuz-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFS_List(t *testing.T) {
	f, _ := newTestFS(t)
	for _, p := range []string{"a.md", "sub/b.md", "sub/deep/c.MD", "sub/skip.txt"} {
		if err := f.Write(p, []byte(p)); err != nil {
			t.Fatal(err)
		}
	}
	infos, err := f.List(".", ".md")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	paths := make(map[string]string, len(infos))
	for _, info := range infos {
		paths[info.Path] = info.Checksum
	}
	for _, want := range []string{"a.md", "sub/b.md", "sub/deep/c.MD"} {
		if _, ok := paths[want]; !ok {
			t.Errorf("missing %s in %v", want, paths)
		}
	}
	if _, ok := paths["sub/skip.txt"]; ok {
		t.Error("extension filter did not exclude sub/skip.txt")
	}
	if paths["a.md"] == "" {
		t.Error("checksum not populated")
	}
}

func TestFS_ListSubdir(t *testing.T) {
	f, _ := newTestFS(t)
	if err := f.Write("notes/a.md", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := f.Write("other/b.md", []byte("b")); err != nil {
		t.Fatal(err)
	}
	infos, err := f.List("notes", ".md")
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Path != "notes/a.md" {
		t.Errorf("got %v", infos)
	}
}

func TestFS_ChecksumStableAcrossIdenticalWrites(t *testing.T) {
	f, _ := newTestFS(t)
	if err := f.Write("a.md", []byte("same")); err != nil {
		t.Fatal(err)
	}
	first, err := f.List(".", ".md")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write("a.md", []byte("same")); err != nil {
		t.Fatal(err)
	}
	second, err := f.List(".", ".md")
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Checksum != second[0].Checksum {
		t.Error("identical content produced different checksums")
	}
}

func TestFS_Delete(t *testing.T) {
	f, _ := newTestFS(t)
	if err := f.Write("a.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := f.Delete("a.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.Exists("a.md") {
		t.Error("file still exists after delete")
	}
	if err := f.Delete("a.md"); err == nil {
		t.Error("expected error deleting missing file")
	}
}

func TestFS_Exists(t *testing.T) {
	f, _ := newTestFS(t)
	if f.Exists("nope.md") {
		t.Error("unexpected existence")
	}
	if err := f.Write("yes.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if !f.Exists("yes.md") {
		t.Error("expected existence")
	}
}

func TestFS_RejectsTraversal(t *testing.T) {
	f, _ := newTestFS(t)
	for _, p := range []string{"../escape.md", "a/../../escape.md", "/etc/passwd"} {
		if _, err := f.Read(p); err == nil {
			t.Errorf("Read(%q) should fail", p)
		}
		if err := f.Write(p, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", p)
		}
		if f.Exists(p) {
			t.Errorf("Exists(%q) should be false", p)
		}
	}
}
