package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output strips input extension", "", "data.csv", "data"},
		{"output with format extension", "plot.svg", "data.csv", "plot"},
		{"output with html extension", "plot.html", "data.csv", "plot"},
		{"output without known extension", "plot", "data.csv", "plot"},
		{"output with unrelated extension", "plot.out", "data.csv", "plot.out"},
		{"input with path", "", "dir/data.csv", "dir/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := basePath(tt.output, tt.input)
			if got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "plot.svg")

	artifacts := map[string][]byte{"svg": []byte("<svg/>")}
	if err := writeArtifacts(artifacts, []string{"svg"}, "data.csv", out); err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("output content = %q", data)
	}
}

func TestWriteArtifactsDerivesPathFromInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")

	artifacts := map[string][]byte{"json": []byte("{}")}
	if err := writeArtifacts(artifacts, []string{"json"}, input, ""); err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "data.json")); err != nil {
		t.Errorf("expected data.json next to input: %v", err)
	}
}

func TestWriteArtifactsMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "plot")

	artifacts := map[string][]byte{
		"json": []byte("{}"),
		"html": []byte("<html/>"),
	}
	if err := writeArtifacts(artifacts, []string{"json", "html"}, "data.csv", base); err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}

	for _, name := range []string{"plot.json", "plot.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
