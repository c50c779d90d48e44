package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setplot/setplot/pkg/cache"
	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/render/sink"
	"github.com/setplot/setplot/pkg/upset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleCSV = `A,B,C,score
1,0,0,10.5
1,0,0,12.0
1,1,0,8.25
0,0,1,3.0
`

func TestExecute(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Input:   writeCSV(t, sampleCSV),
		Sets:    []string{"A", "B", "C"},
		Formats: []string{sink.FormatJSON},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.Rows)
	assert.Equal(t, 3, result.Stats.Combinations)
	assert.Equal(t, []string{"A", "B", "C"}, result.Meta.Sets)
	require.NotNil(t, result.Chart)

	// The json artifact is the spec itself.
	require.Contains(t, result.Artifacts, sink.FormatJSON)
	assert.Equal(t, result.SpecJSON, result.Artifacts[sink.FormatJSON])
	assert.False(t, result.CacheInfo.Hits[sink.FormatJSON])

	var spec map[string]any
	require.NoError(t, json.Unmarshal(result.SpecJSON, &spec))
	assert.Contains(t, spec, "$schema")
}

func TestExecuteHTML(t *testing.T) {
	runner := NewRunner(nil, nil)

	result, err := runner.Execute(context.Background(), Options{
		Input:   writeCSV(t, sampleCSV),
		Sets:    []string{"A", "B"},
		Title:   "Overlap",
		Formats: []string{sink.FormatHTML},
	})
	require.NoError(t, err)

	html := string(result.Artifacts[sink.FormatHTML])
	assert.Contains(t, html, "<title>Overlap</title>")
	assert.Contains(t, html, string(result.SpecJSON))
}

func TestExecuteDeterministic(t *testing.T) {
	runner := NewRunner(nil, nil)
	opts := Options{
		Input: writeCSV(t, sampleCSV),
		Sets:  []string{"A", "B", "C"},
	}

	first, err := runner.Execute(context.Background(), opts)
	require.NoError(t, err)
	second, err := runner.Execute(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.SpecJSON, second.SpecJSON)
}

func TestExecuteWithAnnotations(t *testing.T) {
	runner := NewRunner(nil, nil)

	result, err := runner.Execute(context.Background(), Options{
		Input: writeCSV(t, sampleCSV),
		Sets:  []string{"A", "B", "C"},
		Annotations: []upset.AnnotationSpec{
			{Attribute: "score", Kind: upset.AnnotationBoxplot},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SpecJSON)
}

func TestExecuteValidation(t *testing.T) {
	runner := NewRunner(nil, nil)
	ctx := context.Background()

	// Missing input
	_, err := runner.Execute(ctx, Options{Sets: []string{"A"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	// Missing sets
	_, err = runner.Execute(ctx, Options{Input: writeCSV(t, sampleCSV)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSets))

	// Unknown format
	_, err = runner.Execute(ctx, Options{
		Input:   writeCSV(t, sampleCSV),
		Sets:    []string{"A"},
		Formats: []string{"gif"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	// Set column absent from the data
	_, err = runner.Execute(ctx, Options{
		Input: writeCSV(t, sampleCSV),
		Sets:  []string{"A", "missing"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSets))
}

func TestLoadTableErrors(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	_, err = LoadTable(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestValidateFormats(t *testing.T) {
	assert.NoError(t, ValidateFormats([]string{"json", "html", "svg", "png", "pdf"}))
	assert.NoError(t, ValidateFormats(nil))

	err := ValidateFormats([]string{"svg", "bmp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bmp")
}

func TestChartConfig(t *testing.T) {
	opts := Options{
		SortBy:          "degree",
		SortOrder:       "ascending",
		MaxCombinations: 5,
		DropEmpty:       true,
		Width:           800,
	}
	cfg, err := opts.ChartConfig()
	require.NoError(t, err)

	assert.Equal(t, upset.SortByDegree, cfg.SortBy)
	assert.Equal(t, upset.Ascending, cfg.SortOrder)
	assert.Equal(t, 5, cfg.MaxCombinations)
	assert.True(t, cfg.DropEmpty)
	assert.Equal(t, 800.0, cfg.Width)
	// Unset dimensions keep defaults
	assert.Equal(t, upset.DefaultHeight, cfg.Height)

	// Unknown sort key is rejected
	_, err = Options{SortBy: "alphabetical"}.ChartConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestChartConfigTheme(t *testing.T) {
	// Builtin theme by name
	cfg, err := Options{Theme: "dark"}.ChartConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.Theme)
	assert.Equal(t, "dark", cfg.Theme.Name)

	// Theme from a TOML file
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"custom\"\nmain_color = \"#123456\"\n"), 0644))
	cfg, err = Options{Theme: path}.ChartConfig()
	require.NoError(t, err)
	assert.Equal(t, "#123456", cfg.Theme.MainColor)

	// Unknown name that is not a file either
	_, err = Options{Theme: "neon"}.ChartConfig()
	require.Error(t, err)
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{
		Input: writeCSV(t, sampleCSV),
		Sets:  []string{"A"},
	}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, []string{DefaultFormat}, opts.Formats)
	assert.Equal(t, DefaultPNGScale, opts.PNGScale)

	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, []string{DefaultFormat}, opts.Formats)
}
