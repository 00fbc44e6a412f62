package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLines(t *testing.T) {
	sf := NewInlineSource("a\nb\n")
	tests := []struct {
		n    int
		want string
	}{
		{1, "a"},
		{2, "b"},
		{3, ""},
		{0, ""},
		{4, ""},
	}
	for _, tt := range tests {
		if got := sf.Line(tt.n); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	if got := NewStdinSource("").DisplayPath(); got != "<stdin>" {
		t.Errorf("stdin display path = %q", got)
	}
	if got := FromFile("src/app.js", "").DisplayPath(); got != "src/app.js" {
		t.Errorf("file display path = %q", got)
	}
	if got := FromFile("src/app.js", "").Name; got != "app.js" {
		t.Errorf("file name = %q", got)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.js")
	if err := os.WriteFile(path, []byte("x;"), 0o644); err != nil {
		t.Fatal(err)
	}
	sf, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if sf.Content != "x;" || sf.Path != path {
		t.Errorf("unexpected source: %+v", sf)
	}
	if _, err := ReadFile(path + ".missing"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
