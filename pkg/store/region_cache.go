package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/beercompass/barfetch/pkg/overpass"
	"github.com/beercompass/barfetch/pkg/region"
)

// RegionFilePrefix starts the name of every region cache file.
const RegionFilePrefix = "bars_data_"

// RegionCache stores raw Overpass responses, one file per region.
type RegionCache struct {
	dir string
}

// NewRegionCache creates a RegionCache rooted at dir.
func NewRegionCache(dir string) *RegionCache {
	return &RegionCache{dir: dir}
}

// Dir returns the cache directory.
func (c *RegionCache) Dir() string { return c.dir }

// Path returns the cache file path for r.
func (c *RegionCache) Path(r region.Region) string {
	return filepath.Join(c.dir, RegionFilePrefix+r.Slug()+".json")
}

// Has reports whether r has already been downloaded.
func (c *RegionCache) Has(r region.Region) bool {
	_, err := os.Stat(c.Path(r))
	return err == nil
}

// Save stores the raw response body for r, re-indented for readability.
func (c *RegionCache) Save(r region.Region, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("region %s: %w", r.Name, err)
	}
	buf.WriteByte('\n')
	return writeAtomic(c.Path(r), buf.Bytes())
}

// Load decodes one cache file.
func (c *RegionCache) Load(path string) (*overpass.Response, error) {
	var resp overpass.Response
	if err := ReadJSON(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the cache files in the directory, sorted by name. A missing
// directory yields no files.
func (c *RegionCache) List() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, RegionFilePrefix+"*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// IsRegionFile reports whether name looks like a region cache file name.
func IsRegionFile(name string) bool {
	ok, _ := filepath.Match(RegionFilePrefix+"*.json", filepath.Base(name))
	return ok
}
