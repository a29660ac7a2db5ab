package downloader

import (
	"context"

	"github.com/beercompass/barfetch/pkg/log"
	"github.com/beercompass/barfetch/pkg/overpass"
)

// Combine rebuilds the dataset from every region cache file in DataDir
// without touching the network. Unreadable files are logged and counted as
// failed.
func (d *Downloader) Combine(ctx context.Context) (Result, error) {
	paths, err := d.cache.List()
	if err != nil {
		return Result{}, err
	}

	res := Result{Regions: len(paths), Output: d.dataset.Path()}
	d.logger.Info("combining region files", log.Int("files", len(paths)), log.String("dir", d.cache.Dir()))

	var elements []overpass.Element
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		resp, err := d.cache.Load(p)
		if err != nil {
			d.logger.Error("could not read region file", log.String("path", p), log.Err(err))
			res.Failed++
			continue
		}
		d.logger.Debug("read region file", log.String("path", p), log.Int("elements", len(resp.Elements)))
		elements = append(elements, resp.Elements...)
		res.Succeeded++
	}

	return d.finish(ctx, res, elements, sourceCombined, "")
}
