package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/setplot/setplot/pkg/errors"
	"github.com/setplot/setplot/pkg/table"
)

// LoadTable reads tabular data from a CSV or JSON file. The format is
// inferred from the file extension.
func LoadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %q not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open input %q", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return table.FromCSV(f)
	case ".json":
		return table.FromJSON(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported input format %q (must be .csv or .json)", filepath.Ext(path))
	}
}
