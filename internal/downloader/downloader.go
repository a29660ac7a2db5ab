// Package downloader drives a full barfetch run: it walks a region set,
// fetches each region from Overpass, caches the raw responses and writes the
// normalized dataset.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/beercompass/barfetch/pkg/bar"
	"github.com/beercompass/barfetch/pkg/log"
	"github.com/beercompass/barfetch/pkg/overpass"
	"github.com/beercompass/barfetch/pkg/region"
	"github.com/beercompass/barfetch/pkg/store"
)

// ErrNoData is returned when a run ends without a single bar.
var ErrNoData = errors.New("downloader: no data downloaded")

const (
	sourceOverpass = "OpenStreetMap via Overpass API"
	sourceBlocks   = "OpenStreetMap - 10x10 Degree Blocks"
	sourceCombined = "OpenStreetMap - 10x10 Degree Blocks (Combined)"

	sampleSize = 10
)

// Fetcher runs one Overpass query. *overpass.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q overpass.Query) (*overpass.Response, []byte, error)
}

// Config selects what to download and where to put it.
type Config struct {
	// Method names a region set (see region.SetNames). Ignored when City is set.
	Method string

	// City downloads a single preset city box.
	City string

	// DataDir holds the region cache files.
	DataDir string

	// Output is the dataset file path.
	Output string

	// QueryTimeout is written into every query.
	QueryTimeout time.Duration

	// RequestDelay is the minimum spacing between two Overpass requests.
	RequestDelay time.Duration

	// Resume reuses cached regions instead of downloading them again.
	Resume bool
}

// Result summarizes a run.
type Result struct {
	Regions   int
	Succeeded int
	Skipped   int
	Failed    int
	Elements  int
	Bars      int
	Output    string
}

// Downloader runs downloads and combines cached regions.
type Downloader struct {
	cfg     Config
	fetcher Fetcher
	cache   *store.RegionCache
	dataset *store.DatasetFile
	limiter *rate.Limiter
	logger  log.Logger
	now     func() time.Time
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(d *Downloader) { d.logger = l }
}

// WithClock sets the time source used for dataset metadata.
func WithClock(now func() time.Time) Option {
	return func(d *Downloader) { d.now = now }
}

// New creates a Downloader. fetcher may be nil when only Combine and Watch
// are used.
func New(cfg Config, fetcher Fetcher, opts ...Option) *Downloader {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}
	d := &Downloader{
		cfg:     cfg,
		fetcher: fetcher,
		cache:   store.NewRegionCache(cfg.DataDir),
		dataset: store.NewDatasetFile(cfg.Output),
		limiter: rate.NewLimiter(limit, 1),
		logger:  log.NewNoopLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run downloads every region of the configured set and writes the dataset.
// A failing region is logged and skipped; the run only fails when nothing
// at all was collected.
func (d *Downloader) Run(ctx context.Context) (Result, error) {
	regions, label, err := d.regions()
	if err != nil {
		return Result{}, err
	}

	res := Result{Regions: len(regions), Output: d.dataset.Path()}
	d.logger.Info("starting download",
		log.String("set", label),
		log.Int("regions", len(regions)),
		log.Bool("resume", d.cfg.Resume),
	)

	var elements []overpass.Element
	for i, r := range regions {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if d.cfg.Resume && d.cache.Has(r) {
			resp, err := d.cache.Load(d.cache.Path(r))
			if err == nil {
				d.logger.Info("skipping region, already downloaded",
					log.String("region", r.Name),
					log.Progress(i+1, len(regions)),
				)
				elements = append(elements, resp.Elements...)
				res.Skipped++
				continue
			}
			d.logger.Warn("cached region unreadable, downloading again",
				log.String("region", r.Name),
				log.Err(err),
			)
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return res, err
		}

		d.logger.Info("downloading region",
			log.String("region", r.Name),
			log.Progress(i+1, len(regions)),
		)
		got, err := d.fetchRegion(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			d.logger.Error("region failed", log.String("region", r.Name), log.Err(err))
			res.Failed++
			continue
		}
		d.logger.Info("region downloaded", log.String("region", r.Name), log.Int("elements", len(got)))
		elements = append(elements, got...)
		res.Succeeded++
	}

	d.logger.Info("download finished",
		log.Int("succeeded", res.Succeeded),
		log.Int("skipped", res.Skipped),
		log.Int("failed", res.Failed),
		log.Int("elements", len(elements)),
	)

	source := sourceOverpass
	if d.cfg.City == "" && d.cfg.Method == region.SetBlocks {
		source = sourceBlocks
	}
	return d.finish(ctx, res, elements, source, label)
}

// fetchRegion downloads r and stores the raw response in the cache.
func (d *Downloader) fetchRegion(ctx context.Context, r region.Region) ([]overpass.Element, error) {
	q := overpass.Query{Timeout: d.cfg.QueryTimeout, BBox: r.BBox()}
	resp, raw, err := d.fetcher.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Save(r, raw); err != nil {
		// The data is still usable for this run.
		d.logger.Warn("could not cache region", log.String("region", r.Name), log.Err(err))
	}
	return resp.Elements, nil
}

// finish normalizes elements and writes the dataset.
func (d *Downloader) finish(ctx context.Context, res Result, elements []overpass.Element, source, label string) (Result, error) {
	res.Elements = len(elements)

	bars := bar.Dedupe(bar.NormalizeAll(elements))
	res.Bars = len(bars)
	if len(bars) == 0 {
		return res, ErrNoData
	}
	d.logger.Info("processed bars", log.Int("bars", len(bars)), log.Int("elements", len(elements)))

	ds := bar.NewDataset(bars, source, label, d.now())
	if err := d.dataset.Save(ctx, ds); err != nil {
		return res, fmt.Errorf("save dataset: %w", err)
	}

	fields := []log.Field{log.String("path", d.dataset.Path()), log.Int("bars", len(bars))}
	if size, err := d.dataset.Size(); err == nil {
		fields = append(fields, log.Float64("size_mb", float64(size)/1024/1024))
	}
	d.logger.Info("saved dataset", fields...)

	for i, b := range bars {
		if i == sampleSize {
			break
		}
		d.logger.Debug("sample", log.Int("n", i+1), log.String("bar", b.String()))
	}
	return res, nil
}

// regions resolves the configured set and the label stored in the dataset.
func (d *Downloader) regions() ([]region.Region, string, error) {
	if d.cfg.City != "" {
		r, err := region.City(d.cfg.City)
		if err != nil {
			return nil, "", err
		}
		return []region.Region{r}, d.cfg.City, nil
	}

	regions, err := region.Set(d.cfg.Method)
	if err != nil {
		return nil, "", err
	}
	label := d.cfg.Method
	if label == region.SetCities {
		label = "major_cities"
	}
	return regions, label, nil
}
