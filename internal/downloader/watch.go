package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/beercompass/barfetch/pkg/log"
	"github.com/beercompass/barfetch/pkg/store"
)

// DefaultWatchDebounce groups bursts of cache writes into one combine.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watch combines the region cache once, then again every time a region file
// in DataDir is created or rewritten, until ctx is cancelled.
func (d *Downloader) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	dir := d.cache.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex // serializes combines
		timerMu sync.Mutex
		timer   *time.Timer
		wg      sync.WaitGroup
	)
	combine := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		d.combineLogged(ctx)
	}
	defer func() {
		timerMu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		timerMu.Unlock()
		wg.Wait()
	}()

	combine()
	d.logger.Info("watching region files", log.String("dir", dir), log.Duration("debounce", debounce))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !store.IsRegionFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			d.logger.Debug("region file changed", log.String("path", event.Name), log.String("op", event.Op.String()))

			timerMu.Lock()
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			timer = time.AfterFunc(debounce, func() {
				defer wg.Done()
				combine()
			})
			timerMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error("watcher error", log.Err(err))
		}
	}
}

func (d *Downloader) combineLogged(ctx context.Context) {
	res, err := d.Combine(ctx)
	switch {
	case errors.Is(err, ErrNoData):
		d.logger.Info("no region data to combine yet")
	case err != nil:
		d.logger.Error("combine failed", log.Err(err))
	default:
		d.logger.Info("combined dataset updated",
			log.Int("files", res.Succeeded),
			log.Int("bars", res.Bars),
		)
	}
}
