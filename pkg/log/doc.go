// Package log is the logging port used by barfetch library packages.
//
// The Overpass client and the downloader log through the Logger interface
// and never import a concrete logging library. The CLI wires in the zerolog adapter; tests use the
// no-op logger or a recording implementation.
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	logger.Info("region downloaded", log.String("region", "Europe"), log.Int("elements", 1200))
package log
