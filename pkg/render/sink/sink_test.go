package sink

import (
	"bytes"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/table"
	"github.com/setplot/setplot/pkg/upset"
)

func testChart(t *testing.T) *upset.Chart {
	t.Helper()
	tbl, err := table.FromRecords([][]string{
		{"A", "B"},
		{"1", "0"},
		{"1", "1"},
		{"0", "1"},
	})
	require.NoError(t, err)

	cfg := upset.DefaultConfig()
	dt, meta, err := upset.Preprocess(tbl, []string{"A", "B"}, cfg)
	require.NoError(t, err)

	chart, err := upset.Assemble(dt, meta, cfg)
	require.NoError(t, err)
	return chart
}

func TestJSON(t *testing.T) {
	chart := testChart(t)

	data, err := JSON(chart)
	require.NoError(t, err)

	direct, err := chart.JSON()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, direct))
}

func TestRenderHTML(t *testing.T) {
	chart := testChart(t)

	page, err := RenderHTML(chart, WithTitle("My Chart"))
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<title>My Chart</title>")
	assert.Contains(t, html, "vega-embed@")

	// The exact specification JSON is embedded in the page.
	spec, err := chart.JSON()
	require.NoError(t, err)
	assert.Contains(t, html, string(spec))
}

func TestRenderHTMLDefaultTitle(t *testing.T) {
	page, err := RenderHTML(testChart(t))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>setplot</title>")
}

func TestValidFormats(t *testing.T) {
	for _, f := range []string{FormatJSON, FormatHTML, FormatSVG, FormatPNG, FormatPDF} {
		assert.True(t, ValidFormats[f], f)
	}
	assert.False(t, ValidFormats["gif"])
}

func TestConverterMissing(t *testing.T) {
	if _, err := exec.LookPath(converterBinary); err == nil {
		t.Skip("vl-convert is installed")
	}

	_, err := ToSVG(testChart(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConverter))
	assert.Contains(t, err.Error(), "vl-convert")
}
