package overpass

// Response is the JSON document returned by the interpreter for [out:json].
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	OSM3S     *OSM3S    `json:"osm3s,omitempty"`
	Remark    string    `json:"remark,omitempty"`
	Elements  []Element `json:"elements"`
}

// OSM3S carries the data timestamp and license note.
type OSM3S struct {
	TimestampOSMBase string `json:"timestamp_osm_base"`
	Copyright        string `json:"copyright"`
}

// Element is a node, way or relation. Nodes carry Lat/Lon; ways and
// relations carry Center when queried with "out center".
type Element struct {
	Type      string            `json:"type"`
	ID        int64             `json:"id"`
	Lat       *float64          `json:"lat,omitempty"`
	Lon       *float64          `json:"lon,omitempty"`
	Center    *Center           `json:"center,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Version   int               `json:"version,omitempty"`
	Changeset int64             `json:"changeset,omitempty"`
	User      string            `json:"user,omitempty"`
	UID       int64             `json:"uid,omitempty"`
}

// Center is the computed center point of a way or relation.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates returns the element's position. ok is false when the element
// has none, e.g. a way fetched without "out center".
func (e Element) Coordinates() (lat, lon float64, ok bool) {
	switch Kind(e.Type) {
	case KindNode:
		if e.Lat == nil || e.Lon == nil {
			return 0, 0, false
		}
		return *e.Lat, *e.Lon, true
	case KindWay, KindRelation:
		if e.Center == nil {
			return 0, 0, false
		}
		return e.Center.Lat, e.Center.Lon, true
	default:
		return 0, 0, false
	}
}
