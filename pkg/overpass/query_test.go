package overpass

import (
	"strings"
	"testing"
	"time"
)

func TestQuery_String(t *testing.T) {
	q := Query{
		Timeout: 180 * time.Second,
		BBox:    "37.4,-122.8,38.2,-121.8",
		Kinds:   []Kind{KindNode, KindWay},
	}

	want := `[out:json][timeout:180];
(
  node["amenity"="bar"](37.4,-122.8,38.2,-121.8);
  node["amenity"="pub"](37.4,-122.8,38.2,-121.8);
  node["amenity"="biergarten"](37.4,-122.8,38.2,-121.8);
  way["amenity"="bar"](37.4,-122.8,38.2,-121.8);
  way["amenity"="pub"](37.4,-122.8,38.2,-121.8);
  way["amenity"="biergarten"](37.4,-122.8,38.2,-121.8);
);
out center meta;`

	if got := q.String(); got != want {
		t.Errorf("Query.String() =\n%s\nwant\n%s", got, want)
	}
}

func TestQuery_StringDefaults(t *testing.T) {
	got := Query{}.String()

	if !strings.HasPrefix(got, "[out:json][timeout:180];") {
		t.Errorf("missing default timeout header: %q", got)
	}
	if strings.Contains(got, "(;") || strings.Contains(got, "]()") {
		t.Errorf("global query must not carry an empty bbox: %q", got)
	}
	if n := strings.Count(got, `["amenity"=`); n != 9 {
		t.Errorf("expected 9 selectors (3 kinds x 3 amenities), got %d", n)
	}
	if !strings.Contains(got, `relation["amenity"="biergarten"];`) {
		t.Errorf("missing relation selector: %q", got)
	}
}

func TestElement_Coordinates(t *testing.T) {
	lat, lon := 51.0020672, 6.8521633

	tests := []struct {
		name   string
		el     Element
		wantOK bool
	}{
		{"node", Element{Type: "node", Lat: &lat, Lon: &lon}, true},
		{"node without lon", Element{Type: "node", Lat: &lat}, false},
		{"way with center", Element{Type: "way", Center: &Center{Lat: lat, Lon: lon}}, true},
		{"way without center", Element{Type: "way"}, false},
		{"relation with center", Element{Type: "relation", Center: &Center{Lat: lat, Lon: lon}}, true},
		{"unknown type", Element{Type: "area", Lat: &lat, Lon: &lon}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLat, gotLon, ok := tt.el.Coordinates()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (gotLat != lat || gotLon != lon) {
				t.Errorf("coordinates = %v,%v, want %v,%v", gotLat, gotLon, lat, lon)
			}
		})
	}
}
