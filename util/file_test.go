package util

import (
	"os"
	"path"
	"testing"
)

func TestWriteToFileCreatesDirectories(t *testing.T) {
	p := path.Join(t.TempDir(), "nested", "dir", "out.txt")
	if err := WriteToFile(p, "a", "b"); err != nil {
		t.Fatalf("write failed: %s", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read failed: %s", err)
	}
	if string(data) != "a\nb\n" {
		t.Fatalf("unexpected contents: %q", string(data))
	}
}

func TestAppendToFileAppends(t *testing.T) {
	p := path.Join(t.TempDir(), "runs.txt")
	if err := AppendToFile(p, "first"); err != nil {
		t.Fatalf("append failed: %s", err)
	}
	if err := AppendToFile(p, "second"); err != nil {
		t.Fatalf("append failed: %s", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read failed: %s", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Fatalf("unexpected contents: %q", string(data))
	}
}
