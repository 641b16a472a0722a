package loader

import (
	"context"
	"path/filepath"
	"time"
)

const cacheWarmerInterval = 5 * time.Minute

// warmLoop re-touches every successfully loaded font file on a timer,
// sleeping until the next tick or ctx's cancellation, whichever comes
// first. The loader's own cancel token does not wake the sleep: it is
// checked at each tick and between files within a sweep, so a Cancel
// during the sleep is observed only at the next tick.
func (l *Loader) warmLoop(ctx context.Context) error {
	ticker := time.NewTicker(cacheWarmerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if l.cancel.isSet() {
				return nil
			}
			l.warmOnce()
		}
	}
}

func (l *Loader) warmOnce() {
	for _, r := range l.loaded {
		if l.cancel.isSet() {
			return
		}
		if r.Flag != LoadOK {
			continue
		}
		abs := filepath.Join(l.fontRoot, r.File)
		if _, err := mmapFile(abs); err != nil {
			l.logger.Printf("cache warmer: %s: %v", abs, err)
		}
	}
}
