// Package store persists barfetch data as JSON files.
//
// Two kinds of files are written:
//
//   - region cache files (bars_data_<region>.json) holding the raw Overpass
//     response for one region, so an interrupted download can resume and
//     the combine step can rebuild the dataset without the network;
//   - the dataset file read by the client app (bars_data.json by default).
//
// Every write goes to a temporary file first and is renamed into place, so
// readers never observe a partial file.
//
//	cache := store.NewRegionCache("data")
//	if !cache.Has(r) {
//	    _ = cache.Save(r, raw)
//	}
//	ds := store.NewDatasetFile("data/bars_data.json")
//	_ = ds.Save(ctx, dataset)
package store
