package overpass

import (
	"fmt"
	"strings"
	"time"
)

// Kind is an OSM element type that can be selected in a query.
type Kind string

const (
	KindNode     Kind = "node"
	KindWay      Kind = "way"
	KindRelation Kind = "relation"
)

// DefaultAmenities are the amenity tag values barfetch collects.
var DefaultAmenities = []string{"bar", "pub", "biergarten"}

// DefaultKinds are the element types queried when a Query sets none.
var DefaultKinds = []Kind{KindNode, KindWay, KindRelation}

// DefaultQueryTimeout is the server-side timeout written into queries.
const DefaultQueryTimeout = 180 * time.Second

// Query selects amenity elements, optionally restricted to a bounding box.
type Query struct {
	// Timeout is the server-side evaluation limit. Zero uses DefaultQueryTimeout.
	Timeout time.Duration

	// BBox is an Overpass bounding box body ("south,west,north,east").
	// Empty means the whole planet.
	BBox string

	// Amenities lists amenity tag values to match. Nil uses DefaultAmenities.
	Amenities []string

	// Kinds lists element types to match. Nil uses DefaultKinds.
	Kinds []Kind
}

// String renders the query as Overpass QL. Ways and relations are returned
// with their center so every element carries a coordinate.
func (q Query) String() string {
	timeout := q.Timeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	amenities := q.Amenities
	if len(amenities) == 0 {
		amenities = DefaultAmenities
	}
	kinds := q.Kinds
	if len(kinds) == 0 {
		kinds = DefaultKinds
	}

	filter := ""
	if q.BBox != "" {
		filter = "(" + q.BBox + ")"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", int(timeout.Seconds()))
	for _, k := range kinds {
		for _, a := range amenities {
			fmt.Fprintf(&b, "  %s[\"amenity\"=%q]%s;\n", k, a, filter)
		}
	}
	b.WriteString(");\nout center meta;")
	return b.String()
}
