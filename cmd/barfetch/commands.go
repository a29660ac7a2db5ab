package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/beercompass/barfetch/internal/cliconfig"
	"github.com/beercompass/barfetch/internal/csvio"
	"github.com/beercompass/barfetch/internal/downloader"
	"github.com/beercompass/barfetch/pkg/bar"
	"github.com/beercompass/barfetch/pkg/csvline"
	"github.com/beercompass/barfetch/pkg/log"
	"github.com/beercompass/barfetch/pkg/overpass"
	"github.com/beercompass/barfetch/pkg/region"
	"github.com/beercompass/barfetch/pkg/store"
)

func downloaderConfig(cfg cliconfig.Config) downloader.Config {
	return downloader.Config{
		Method:       cfg.Method,
		City:         cfg.City,
		DataDir:      cfg.DataDir,
		Output:       cfg.Output,
		QueryTimeout: cfg.QueryTimeout,
		RequestDelay: cfg.RequestDelay,
		Resume:       cfg.Resume,
	}
}

func (a *app) downloadCmd() *cobra.Command {
	cfg := &a.cfg
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download bars from the Overpass API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			logger := log.NewZerologAdapterWithLogger(a.log)

			client := overpass.NewClient(
				overpass.WithURL(cfg.OverpassURL),
				overpass.WithUserAgent(cfg.UserAgent),
				overpass.WithRequestTimeout(cfg.HTTPTimeout),
				overpass.WithRetryPolicy(cfg.RetryPolicy()),
				overpass.WithLogger(logger),
			)
			d := downloader.New(downloaderConfig(*cfg), client, downloader.WithLogger(logger))

			res, err := d.Run(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Info().
				Int("bars", res.Bars).
				Int("failed_regions", res.Failed).
				Str("output", res.Output).
				Msg("download complete")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Method, "method", cfg.Method, "region set: "+strings.Join(region.SetNames(), ", "))
	f.StringVar(&cfg.City, "city", cfg.City, "download a single city instead: "+strings.Join(region.CityKeys(), ", "))
	f.StringVar(&cfg.Output, "output", cfg.Output, "dataset path (default: <data-dir>/bars_data.json)")
	f.BoolVar(&cfg.Resume, "resume", cfg.Resume, "skip regions already in the cache")
	f.StringVar(&cfg.OverpassURL, "overpass-url", cfg.OverpassURL, "Overpass interpreter endpoint")
	f.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent sent to Overpass")
	f.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout per request")
	f.DurationVar(&cfg.QueryTimeout, "query-timeout", cfg.QueryTimeout, "server-side query timeout")
	f.IntVar(&cfg.MaxRetries, "retries", cfg.MaxRetries, "attempts per region")
	f.DurationVar(&cfg.RequestDelay, "delay", cfg.RequestDelay, "minimum pause between requests")
	f.DurationVar(&cfg.GatewayBackoff, "gateway-backoff", cfg.GatewayBackoff, "wait step after a 504 response")
	f.DurationVar(&cfg.TimeoutBackoff, "timeout-backoff", cfg.TimeoutBackoff, "wait step after a request timeout")
	f.DurationVar(&cfg.RateLimitBackoff, "rate-limit-backoff", cfg.RateLimitBackoff, "wait step after a 429 response")
	for _, name := range []string{"gateway-backoff", "timeout-backoff", "rate-limit-backoff"} {
		if err := f.MarkHidden(name); err != nil {
			a.log.Info().Err(err).Str("flag", name).Msg("failed to hide flag")
		}
	}
	return cmd
}

func (a *app) combineCmd() *cobra.Command {
	var (
		watch    bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Rebuild the dataset from cached region files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			logger := log.NewZerologAdapterWithLogger(a.log)
			d := downloader.New(downloaderConfig(a.cfg), nil, downloader.WithLogger(logger))

			if watch {
				return d.Watch(cmd.Context(), debounce)
			}
			res, err := d.Combine(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Info().
				Int("files", res.Succeeded).
				Int("bars", res.Bars).
				Str("output", res.Output).
				Msg("combine complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&a.cfg.Output, "output", a.cfg.Output, "dataset path (default: <data-dir>/bars_data.json)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and recombine when region files change")
	cmd.Flags().DurationVar(&debounce, "debounce", downloader.DefaultWatchDebounce, "quiet period before recombining in watch mode")
	return cmd
}

func (a *app) importCSVCmd() *cobra.Command {
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "import-csv <file>",
		Short: "Convert a name,lat,lon CSV file into a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd, "no-header"); err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			bars, badRows, err := csvio.Import(in, csvio.ImportOptions{Header: !noHeader})
			if err != nil {
				return err
			}
			for _, le := range badRows {
				a.log.Warn().Int("line", le.Line).Err(le.Err).Msg("skipping line")
			}
			if len(bars) == 0 {
				return fmt.Errorf("%s: no valid rows", args[0])
			}

			ds := bar.NewDataset(bars, "CSV import ("+filepath.Base(args[0])+")", "", time.Now())
			if err := store.NewDatasetFile(a.cfg.Output).Save(cmd.Context(), ds); err != nil {
				return err
			}
			a.log.Info().
				Int("bars", len(bars)).
				Int("skipped", len(badRows)).
				Str("output", a.cfg.Output).
				Msg("import complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&a.cfg.Output, "output", a.cfg.Output, "dataset path (default: <data-dir>/bars_data.json)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "the first line is data, not a header")
	return cmd
}

func (a *app) exportCSVCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Write a dataset as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// --output names the CSV file here, not the dataset.
			if err := a.loadConfig(cmd, "input", "output"); err != nil {
				return err
			}
			if input == "" {
				input = a.cfg.Output
			}

	ds, err := store.NewDatasetFile(input).Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeCSV(cmd.OutOrStdout(), output, ds.Bars); err != nil {
				return err
			}
			a.log.Info().Int("bars", len(ds.Bars)).Str("input", input).Msg("export complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "dataset path (default: <data-dir>/bars_data.json)")
	cmd.Flags().StringVar(&output, "output", "-", "CSV path, - for stdout")
	return cmd
}

// writeCSV exports bars to path, or to stdout when path is "" or "-".
func writeCSV(stdout io.Writer, path string, bars []bar.Bar) (err error) {
	if path == "" || path == "-" {
		return csvio.Export(stdout, bars)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := csvio.Export(f, bars); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func parseLineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-line <line>",
		Short: "Split one CSV line and print the fields as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return enc.Encode(csvline.Parse(args[0]))
		},
	}
}
