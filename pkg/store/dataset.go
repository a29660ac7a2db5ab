package store

import (
	"context"
	"os"

	"github.com/beercompass/barfetch/pkg/bar"
)

// DefaultDatasetName is the dataset file name the client app looks for.
const DefaultDatasetName = "bars_data.json"

// DatasetFile reads and writes a bar.Dataset at a fixed path.
type DatasetFile struct {
	path string
}

// NewDatasetFile creates a DatasetFile for path.
func NewDatasetFile(path string) *DatasetFile {
	return &DatasetFile{path: path}
}

// Path returns the file path.
func (f *DatasetFile) Path() string { return f.path }

// Save writes ds atomically.
func (f *DatasetFile) Save(ctx context.Context, ds bar.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteJSON(f.path, ds)
}

// Load reads the dataset. A missing file is returned as an error wrapping
// os.ErrNotExist.
func (f *DatasetFile) Load(ctx context.Context) (bar.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return bar.Dataset{}, err
	}
	var ds bar.Dataset
	if err := ReadJSON(f.path, &ds); err != nil {
		return bar.Dataset{}, err
	}
	return ds, nil
}

// Size returns the file size in bytes.
func (f *DatasetFile) Size() (int64, error) {
	fi, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
