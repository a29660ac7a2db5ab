// Package barfetch builds the BeerCompass bar dataset from OpenStreetMap.
//
// Example usage:
//
//	cfg := barfetch.Config{
//	    City:    "berlin",
//	    DataDir: "data",
//	    Output:  "data/bars_data.json",
//	    Resume:  true,
//	}
//	res, err := barfetch.Download(context.Background(), cfg, log.NewNoopLogger())
//	if err != nil {
//	    stdlog.Fatal(err)
//	}
//	fmt.Println(res.Bars, "bars written to", res.Output)
package barfetch

import (
	"context"

	"github.com/beercompass/barfetch/internal/downloader"
	"github.com/beercompass/barfetch/pkg/csvline"
	"github.com/beercompass/barfetch/pkg/log"
	"github.com/beercompass/barfetch/pkg/overpass"
)

// Config selects the regions to download and the files to write.
type Config = downloader.Config

// Result summarizes a Download or Combine run.
type Result = downloader.Result

// ErrNoData is returned when a run collects no bars.
var ErrNoData = downloader.ErrNoData

// Download fetches every region of cfg and writes the dataset. Client options
// such as overpass.WithURL point it at another interpreter.
func Download(ctx context.Context, cfg Config, logger log.Logger, opts ...overpass.Option) (Result, error) {
	opts = append([]overpass.Option{overpass.WithLogger(logger)}, opts...)
	client := overpass.NewClient(opts...)
	return downloader.New(cfg, client, downloader.WithLogger(logger)).Run(ctx)
}

// Combine rebuilds the dataset from the region files already in cfg.DataDir.
func Combine(ctx context.Context, cfg Config, logger log.Logger) (Result, error) {
	return downloader.New(cfg, nil, downloader.WithLogger(logger)).Combine(ctx)
}

// ParseLine splits one comma-separated line into its fields.
func ParseLine(line string) []string {
	return csvline.Parse(line)
}
