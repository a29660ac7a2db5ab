package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/beercompass/barfetch/internal/cliconfig"
)

const helpDescription = `
Download bars, pubs and beer gardens from OpenStreetMap into the flat JSON
dataset the BeerCompass app ships with.

Highlights:
  - Walks cities, continents, countries, 10x10 degree blocks or the whole planet.
  - Caches every region so an interrupted run resumes where it stopped.
  - Backs off on Overpass timeouts and rate limits.
  - Imports and exports simple name,lat,lon CSV files.

Configure via $HOME/.barfetch/config.toml, BARFETCH_* environment variables or flags.
`

var exampleUsage = strings.TrimSpace(`
  barfetch download --city london
  barfetch download --method blocks --delay 5s
  barfetch combine --watch
  barfetch import-csv bars.csv --output data/bars_data.json
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// app carries state shared by all subcommands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
}

// loadConfig resolves the configuration for cmd: defaults, then the config
// file, then BARFETCH_* variables, then flags the user set. Flags named in
// local are command specific and do not shadow configuration keys.
func (a *app) loadConfig(cmd *cobra.Command, local ...string) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	for _, name := range local {
		delete(changed, name)
	}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if err := cliconfig.SetLogLevel(a.cfg.LogLevel); err != nil {
		return err
	}
	a.log = cliconfig.Logger()
	a.log.Debug().Interface("config", a.cfg).Msg("configuration")
	return nil
}

func main() {
	a := &app{cfg: cliconfig.DefaultConfig(), log: cliconfig.Logger()}

	root := &cobra.Command{
		Use:          "barfetch",
		Short:        "Build the BeerCompass bar dataset from OpenStreetMap",
		Long:         strings.TrimSpace(helpDescription),
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.barfetch/config.toml)")
	root.PersistentFlags().StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "directory for region cache files and the dataset")
	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		a.downloadCmd(),
		a.combineCmd(),
		a.importCSVCmd(),
		a.exportCSVCmd(),
		parseLineCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		a.log.Error().Err(err).Msg("barfetch")
		os.Exit(1)
	}
}
