package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirProviderSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", []byte("second"))
	writeFile(t, dir, "a.txt", []byte("first"))
	writeFile(t, dir, "c.txt", []byte("third"))

	docs, err := NewDirProvider(dir).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Document{
		{Label: "a.txt", Text: "first"},
		{Label: "b.txt", Text: "second"},
		{Label: "c.txt", Text: "third"},
	}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestDirProviderSkipsNonRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", []byte("content"))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := NewDirProvider(dir).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Label != "doc.txt" {
		t.Errorf("Load = %v, want only doc.txt", docs)
	}
}

func TestDirProviderDropsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "weird.txt", []byte{'h', 0xff, 0xfe, 'i'})

	docs, err := NewDirProvider(dir).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Text != "hi" {
		t.Errorf("Text = %q, want invalid bytes dropped to %q", docs[0].Text, "hi")
	}
}

func TestDirProviderEmptyDirectory(t *testing.T) {
	docs, err := NewDirProvider(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("Load = %v, want empty", docs)
	}
}

func TestDirProviderMissingDirectory(t *testing.T) {
	_, err := NewDirProvider(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	if err == nil {
		t.Error("Load on missing directory succeeded, want error")
	}
}
