package bar

import (
	"fmt"
	"time"

	"github.com/twpayne/go-geom"

	"github.com/beercompass/barfetch/pkg/overpass"
)

// Type is the kind of establishment.
type Type string

const (
	TypeBar        Type = "bar"
	TypePub        Type = "pub"
	TypeBiergarten Type = "biergarten"
)

// DefaultName is used when an element has neither a name nor an English name.
const DefaultName = "Unnamed Bar"

// TypeFromAmenity maps an OSM amenity value onto a Type. Unknown values are bars.
func TypeFromAmenity(amenity string) Type {
	switch Type(amenity) {
	case TypePub:
		return TypePub
	case TypeBiergarten:
		return TypeBiergarten
	default:
		return TypeBar
	}
}

// Bar is one point of interest.
type Bar struct {
	ID   int64             `json:"id"`
	Name string            `json:"name"`
	Type Type              `json:"type"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`

	// Kind is the OSM element type. IDs are only unique per kind.
	Kind string `json:"-"`
}

// Point returns the bar position as a WGS84 point (x = lon, y = lat).
func (b Bar) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{b.Lon, b.Lat}).SetSRID(4326)
}

func (b Bar) String() string {
	return fmt.Sprintf("%s (%s) - %.4f, %.4f", b.Name, b.Type, b.Lat, b.Lon)
}

// Normalize converts an element into a Bar. ok is false when the element has
// no coordinates.
func Normalize(el overpass.Element) (Bar, bool) {
	lat, lon, ok := el.Coordinates()
	if !ok {
		return Bar{}, false
	}

	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	name := tags["name"]
	if name == "" {
		name = tags["name:en"]
	}
	if name == "" {
		name = DefaultName
	}

	return Bar{
		ID:   el.ID,
		Name: name,
		Type: TypeFromAmenity(tags["amenity"]),
		Lat:  lat,
		Lon:  lon,
		Tags: tags,
		Kind: el.Type,
	}, true
}

// NormalizeAll converts elements in order, dropping those without coordinates.
func NormalizeAll(elements []overpass.Element) []Bar {
	bars := make([]Bar, 0, len(elements))
	for _, el := range elements {
		if b, ok := Normalize(el); ok {
			bars = append(bars, b)
		}
	}
	return bars
}

// Dedupe drops repeated elements, keeping the first occurrence. Overlapping
// region boxes return the same element more than once.
func Dedupe(bars []Bar) []Bar {
	type key struct {
		kind string
		id   int64
	}
	seen := make(map[key]struct{}, len(bars))
	out := bars[:0:0]
	for _, b := range bars {
		k := key{b.Kind, b.ID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, b)
	}
	return out
}

// GeneratedLayout is the timestamp layout of Meta.Generated.
const GeneratedLayout = "2006-01-02T15:04:05.000Z"

// License is the data license every dataset carries.
const License = "ODbL (OpenStreetMap)"

// Meta describes a dataset.
type Meta struct {
	Generated string `json:"generated"`
	Total     int    `json:"total"`
	Source    string `json:"source"`
	License   string `json:"license"`
	Region    string `json:"region,omitempty"`
}

// Dataset is the file format read by the client app.
type Dataset struct {
	Meta Meta  `json:"meta"`
	Bars []Bar `json:"bars"`
}

// NewDataset wraps bars with metadata generated at now.
func NewDataset(bars []Bar, source, region string, now time.Time) Dataset {
	if bars == nil {
		bars = []Bar{}
	}
	return Dataset{
		Meta: Meta{
			Generated: now.UTC().Format(GeneratedLayout),
			Total:     len(bars),
			Source:    source,
			License:   License,
			Region:    region,
		},
		Bars: bars,
	}
}
