package sink

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/upset"
)

// converterBinary is the external Vega-Lite converter this package shells
// out to for image export.
const converterBinary = "vl-convert"

// ToSVG converts the chart to SVG using vl-convert.
// Requires vl-convert: cargo install vl-convert, or download a release binary.
func ToSVG(c *upset.Chart) ([]byte, error) {
	return vlConvert(c, "vl2svg", FormatSVG)
}

// ToPNG converts the chart to PNG at the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(c *upset.Chart, scale float64) ([]byte, error) {
	return vlConvert(c, "vl2png", FormatPNG, "--scale", fmt.Sprintf("%.2f", scale))
}

// ToPDF converts the chart to PDF.
func ToPDF(c *upset.Chart) ([]byte, error) {
	return vlConvert(c, "vl2pdf", FormatPDF)
}

// vlConvert shells out to vl-convert for format conversion. The spec and the
// result travel through uniquely named temp files to keep concurrent
// conversions from colliding.
func vlConvert(c *upset.Chart, subcommand, ext string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(converterBinary); err != nil {
		return nil, errors.New(errors.ErrCodeConverter,
			"%s export requires vl-convert. Install with:\n  cargo install vl-convert\n  or download a release from https://github.com/vega/vl-convert", ext)
	}

	spec, err := c.JSON()
	if err != nil {
		return nil, err
	}

	dir := os.TempDir()
	id := uuid.NewString()
	inPath := filepath.Join(dir, "setplot-"+id+".vl.json")
	outPath := filepath.Join(dir, "setplot-"+id+"."+ext)
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if err := os.WriteFile(inPath, spec, 0644); err != nil {
		return nil, err
	}

	args := append([]string{subcommand, "--input", inPath, "--output", outPath}, extraArgs...)
	cmd := exec.Command(converterBinary, args...)

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConverter, err,
			"vl-convert %s: %s", subcommand, errBuf.String())
	}

	return os.ReadFile(outPath)
}
