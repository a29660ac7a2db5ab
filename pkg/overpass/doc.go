// Package overpass talks to the Overpass API: it renders Overpass QL queries
// for amenity points of interest and posts them with a retry policy tuned to
// the public interpreter's failure modes.
//
// The public instance answers overload with 504 Gateway Timeout and 429 Too
// Many Requests, and large areas can run past the client timeout. Each of
// these is retried after a linearly growing wait; other transport failures
// use exponential backoff with jitter. Any other non-2xx status fails
// immediately with a *StatusError.
//
//	c := overpass.NewClient(overpass.WithLogger(logger))
//	resp, raw, err := c.Fetch(ctx, overpass.Query{BBox: "51.3,-0.6,51.7,0.2"})
package overpass
