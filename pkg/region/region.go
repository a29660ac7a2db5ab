package region

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// ErrUnknownSet is returned when a region set or city name is not known.
var ErrUnknownSet = errors.New("region: unknown region set")

// Region is a named area queried as one unit. A nil Bounds means the whole
// planet.
type Region struct {
	Name   string
	Bounds *geom.Bounds
}

// New creates a region from Overpass-ordered edges.
func New(name string, south, west, north, east float64) Region {
	return Region{
		Name:   name,
		Bounds: geom.NewBounds(geom.XY).Set(west, south, east, north),
	}
}

// IsGlobal reports whether the region has no bounding box.
func (r Region) IsGlobal() bool { return r.Bounds == nil }

// South returns the minimum latitude. The edges of a global region are
// the edges of the planet.
func (r Region) South() float64 {
	if r.IsGlobal() {
		return -90
	}
	return r.Bounds.Min(1)
}

// West returns the minimum longitude.
func (r Region) West() float64 {
	if r.IsGlobal() {
		return -180
	}
	return r.Bounds.Min(0)
}

// North returns the maximum latitude.
func (r Region) North() float64 {
	if r.IsGlobal() {
		return 90
	}
	return r.Bounds.Max(1)
}

// East returns the maximum longitude.
func (r Region) East() float64 {
	if r.IsGlobal() {
		return 180
	}
	return r.Bounds.Max(0)
}

// BBox renders the bounds as an Overpass bounding box filter body
// ("south,west,north,east"). Global regions return "".
func (r Region) BBox() string {
	if r.IsGlobal() {
		return ""
	}
	return strings.Join([]string{
		formatCoord(r.South()),
		formatCoord(r.West()),
		formatCoord(r.North()),
		formatCoord(r.East()),
	}, ",")
}

// Contains reports whether the point lies inside the region, edges included.
func (r Region) Contains(lat, lon float64) bool {
	if r.IsGlobal() {
		return true
	}
	return r.Bounds.OverlapsPoint(geom.XY, geom.Coord{lon, lat})
}

// Slug returns a filesystem-safe form of the region name.
func (r Region) Slug() string {
	return slugger.Replace(r.Name)
}

func (r Region) String() string {
	if r.IsGlobal() {
		return r.Name + " (global)"
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.BBox())
}

var slugger = strings.NewReplacer(" ", "_", "°", "deg", "/", "_")

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
