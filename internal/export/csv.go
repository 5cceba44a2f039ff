package export

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/rohankatakam/orgpulse/internal/errors"
)

// WriteCSV writes a slice of csv-tagged structs to path with a header row
func WriteCSV(path string, records interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.FileSystemErrorf(err, "failed to create %s", filepath.Dir(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.FileSystemErrorf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(records, f); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, errors.SeverityHigh, "failed to encode "+path)
	}
	return nil
}

// ReadCSV decodes path into out, a pointer to a slice of csv-tagged structs
func ReadCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.FileSystemErrorf(err, "failed to open %s", path)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return errors.DatasetErrorf(err, "failed to decode %s", path)
	}
	return nil
}
