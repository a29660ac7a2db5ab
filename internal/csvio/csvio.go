// Package csvio moves bar records in and out of flat CSV files. Import reads
// one record per line with csvline; Export writes RFC 4180 output that
// Import reads back.
package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beercompass/barfetch/pkg/bar"
	"github.com/beercompass/barfetch/pkg/csvline"
)

// Kind marks bars that came from a CSV file rather than from OSM.
const Kind = "csv"

const maxLineSize = 1 << 20

var (
	ErrTooFewFields  = errors.New("too few fields")
	ErrBadCoordinate = errors.New("bad coordinate")
)

// Header is the first row written by Export.
var Header = []string{"name", "lat", "lon", "type"}

// ImportOptions controls Import.
type ImportOptions struct {
	// Header skips the first non-blank line.
	Header bool
}

// LineError reports a line Import had to skip.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e LineError) Unwrap() error { return e.Err }

// Import reads bars from r, one per line: name, lat, lon and an optional
// type. Bad lines are returned as LineErrors and skipped. The error result
// is only set when reading r fails.
//
// Imported bars get the negated line number as ID.
func Import(r io.Reader, opts ImportOptions) ([]bar.Bar, []LineError, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		bars    []bar.Bar
		badRows []LineError
		lineNo  int
		header  = opts.Header
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header {
			header = false
			continue
		}

		b, err := parseRecord(csvline.Parse(line))
		if err != nil {
			badRows = append(badRows, LineError{Line: lineNo, Err: err})
			continue
		}
		b.ID = -int64(lineNo)
		bars = append(bars, b)
	}
	if err := sc.Err(); err != nil {
		return bars, badRows, fmt.Errorf("read csv: %w", err)
	}
	return bars, badRows, nil
}

func parseRecord(fields []string) (bar.Bar, error) {
	if len(fields) < 3 {
		return bar.Bar{}, fmt.Errorf("%w: got %d, want at least 3", ErrTooFewFields, len(fields))
	}

	lat, err := parseCoord(fields[1], 90)
	if err != nil {
		return bar.Bar{}, fmt.Errorf("lat: %w", err)
	}
	lon, err := parseCoord(fields[2], 180)
	if err != nil {
		return bar.Bar{}, fmt.Errorf("lon: %w", err)
	}

	name := fields[0]
	if strings.TrimSpace(name) == "" {
		name = bar.DefaultName
	}
	typ := bar.TypeBar
	if len(fields) > 3 {
		typ = bar.TypeFromAmenity(strings.TrimSpace(fields[3]))
	}

	return bar.Bar{
		Name: name,
		Type: typ,
		Lat:  lat,
		Lon:  lon,
		Tags: map[string]string{"name": name, "amenity": string(typ)},
		Kind: Kind,
	}, nil
}

func parseCoord(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadCoordinate, s)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%w: %v out of range", ErrBadCoordinate, v)
	}
	return v, nil
}

// Export writes a header row and one row per bar. Line breaks inside names
// are replaced by spaces so every record stays on one line.
func Export(w io.Writer, bars []bar.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	flatten := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	for _, b := range bars {
		row := []string{
			flatten.Replace(b.Name),
			strconv.FormatFloat(b.Lat, 'f', -1, 64),
			strconv.FormatFloat(b.Lon, 'f', -1, 64),
			string(b.Type),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
