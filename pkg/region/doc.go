// Package region defines the bounding boxes barfetch downloads, one Overpass
// request per box.
//
// Bounds are kept as go-geom bounds in XY order (longitude, latitude) and
// rendered in Overpass order (south,west,north,east) only when a query is
// built.
package region
