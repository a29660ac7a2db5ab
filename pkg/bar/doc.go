// Package bar holds the flat record format consumed by the BeerCompass app
// and the normalization from Overpass elements into it.
//
// A Bar is one pub, bar or beer garden with a display name and a position.
// Elements without coordinates are dropped, unnamed ones get DefaultName,
// and Dedupe removes elements that overlapping region boxes returned twice.
// A Dataset wraps the bars with the meta envelope the app reads:
//
//	bars := bar.Dedupe(bar.NormalizeAll(resp.Elements))
//	ds := bar.NewDataset(bars, "OpenStreetMap via Overpass API", "london", time.Now())
package bar
