package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/upset"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	// Verify the expected structure: $HOME/.cache/setplot
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "setplot")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "setplot") {
		t.Errorf("cacheDir() = %q, should honor XDG_CACHE_HOME", dir)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to json", "", []string{"json"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,html", []string{"svg", "png", "html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "A", []string{"A"}},
		{"multiple", "A,B,C", []string{"A", "B", "C"}},
		{"trims whitespace", " A , B ", []string{"A", "B"}},
		{"drops empty entries", "A,,B,", []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAnnotations(t *testing.T) {
	specs, err := parseAnnotations([]string{"score", "age:bar", "weight:strip"})
	if err != nil {
		t.Fatalf("parseAnnotations() error: %v", err)
	}

	want := []upset.AnnotationSpec{
		{Attribute: "score", Kind: upset.AnnotationBoxplot},
		{Attribute: "age", Kind: upset.AnnotationBar},
		{Attribute: "weight", Kind: upset.AnnotationStrip},
	}
	if !reflect.DeepEqual(specs, want) {
		t.Errorf("parseAnnotations() = %v, want %v", specs, want)
	}
}

func TestParseAnnotationsErrors(t *testing.T) {
	// Unknown kind
	_, err := parseAnnotations([]string{"score:violin"})
	if err == nil {
		t.Fatal("parseAnnotations() should reject unknown kind")
	}
	if !errors.Is(err, errors.ErrCodeInvalidAnnotation) {
		t.Errorf("error code = %q, want invalid annotation", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "violin") {
		t.Errorf("error should name the bad kind: %v", err)
	}

	// Missing attribute name
	_, err = parseAnnotations([]string{":boxplot"})
	if err == nil {
		t.Fatal("parseAnnotations() should reject empty attribute")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	if root.Use != "setplot" {
		t.Errorf("root.Use = %q, want %q", root.Use, "setplot")
	}

	want := map[string]bool{"render": false, "inspect": false, "preview": false, "cache": false, "completion": false}
	for _, cmd := range root.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}
