// Package loader drives the end-to-end pipeline: scan subtitles for
// referenced font families, build or load a font catalog, match each
// family against catalog candidates (deduplicating by path and content
// hash), and register the winners with the operating system for the
// session's lifetime.
package loader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/go-text/fontprovision/assparse"
	"github.com/go-text/fontprovision/blacklist"
	"github.com/go-text/fontprovision/encoding"
	"github.com/go-text/fontprovision/fontscan"
	"github.com/go-text/fontprovision/internal/hashcache"
	"github.com/go-text/fontprovision/platform"
)

// Logger is satisfied by log.Default() without an adapter.
type Logger interface {
	Printf(format string, args ...interface{})
}

// State is the loader's current pipeline stage.
type State int

const (
	StateIdle State = iota
	StateLoadSub
	StateLoadCache
	StateScanFont
	StateLoadFont
	StateUnloadFont
	StateDone
	StateCancelled
)

const (
	maxSubtitleFileBytes = 64 << 20 // 64 MiB
	maxCandidatesPerFamily = 16
)

// Loader owns every piece of session state: the family-name set, the
// font catalog, the dedup vector of load attempts, and the shared
// cancellation token. It is not safe for concurrent use by more than
// one caller at a time, aside from Cancel, which may be called from
// any goroutine.
type Loader struct {
	logger     Logger
	fontRoot   string
	blacklist  *blacklist.List
	registrar  platform.Registrar
	hasher     *hashcache.Hasher

	families *familySet
	catalog  *fontscan.Catalog

	loaded []Record

	state   State
	stateMu sync.Mutex

	cancel *cancelToken

	numSubs int
}

// New returns a ready-to-use Loader rooted at fontRoot. If logger is
// nil, a standard logger writing to log.Writer() with the "loader"
// prefix is used; if bl is nil, an empty blacklist is used;
// if registrar is nil, platform.NewRegistrar() is used.
func New(logger Logger, fontRoot string, bl *blacklist.List, registrar platform.Registrar) *Loader {
	if logger == nil {
		logger = log.New(log.Writer(), "loader", log.Flags())
	}
	if bl == nil {
		bl = blacklist.Empty()
	}
	if registrar == nil {
		registrar = platform.NewRegistrar()
	}
	return &Loader{
		logger:    logger,
		fontRoot:  fontRoot,
		blacklist: bl,
		registrar: registrar,
		hasher:    hashcache.New(),
		families:  newFamilySet(),
		cancel:    newCancelToken(),
		state:     StateIdle,
	}
}

func (l *Loader) setState(s State) {
	l.stateMu.Lock()
	l.state = s
	l.stateMu.Unlock()
}

// State reports the loader's current pipeline stage.
func (l *Loader) State() State {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.state
}

// Cancel sets the shared cancel signal; it is safe to call from any
// goroutine, including one servicing a UI.
func (l *Loader) Cancel() {
	l.cancel.set()
}

// Cancelled reports whether Cancel has been observed.
func (l *Loader) Cancelled() bool {
	return l.cancel.isSet()
}

// AddSubs scans one subtitle file, or walks one directory of them,
// collecting referenced font families into the loader's family-name
// set. Files over 64 MiB, or without a .ass/.ssa extension (case
// insensitive), are skipped during a directory walk.
func (l *Loader) AddSubs(path string) error {
	l.setState(StateLoadSub)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	if !info.IsDir() {
		return l.addSubFile(path)
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if l.cancel.isSet() {
			return errCancelled
		}
		if err != nil {
			l.logger.Printf("skipping %s: %v", p, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !isSubtitleExt(p) {
			return nil
		}
		if fi, err := d.Info(); err == nil && fi.Size() > maxSubtitleFileBytes {
			l.logger.Printf("skipping oversize subtitle %s", p)
			return nil
		}
		if err := l.addSubFile(p); err != nil {
			l.logger.Printf("skipping %s: %v", p, err)
		}
		return nil
	})
}

func isSubtitleExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".ass" || ext == ".ssa"
}

func (l *Loader) addSubFile(path string) error {
	data, err := mmapFile(path)
	if err != nil {
		return err
	}
	text, err := encoding.Decode(data)
	if err != nil {
		return fmt.Errorf("loader: decoding %s: %w", path, err)
	}
	assparse.Scan(text, func(family string) {
		l.families.insert(family)
	})
	l.numSubs++
	return nil
}

// ScanFonts builds (or loads) the catalog rooted at root. If cachePath
// names an existing, valid cache file, it is adopted and the catalog is
// read-only; any other outcome (missing file, corrupt cache) degrades
// silently to a fresh directory walk.
func (l *Loader) ScanFonts(root string, cachePath string) error {
	l.fontRoot = root

	if cachePath != "" {
		l.setState(StateLoadCache)
		if cat, err := fontscan.Load(l.logger, cachePath); err == nil {
			l.catalog = cat
			return nil
		} else {
			l.logger.Printf("cache %s unusable, rescanning: %v", cachePath, err)
		}
	}

	l.setState(StateScanFont)
	cat := fontscan.New(l.logger)
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if l.cancel.isSet() {
			return errCancelled
		}
		if err != nil {
			l.logger.Printf("skipping %s: %v", p, err)
			return nil
		}
		if d.IsDir() || !isFontExt(p) {
			return nil
		}
		data, err := mmapFile(p)
		if err != nil {
			l.logger.Printf("skipping %s: %v", p, err)
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		if err := cat.AddFont(rel, data); err != nil {
			l.logger.Printf("font %s: %v", rel, err)
		}
		return nil
	})
	if err != nil && err != errCancelled {
		return fmt.Errorf("loader: scanning fonts: %w", err)
	}
	cat.Build()
	l.catalog = cat
	return err
}

func isFontExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc":
		return true
	default:
		return false
	}
}

// SaveCache writes the current catalog to <font_root>/<name>.
func (l *Loader) SaveCache(name string) error {
	if l.catalog == nil {
		return fmt.Errorf("loader: no catalog to save")
	}
	return l.catalog.DumpFile(filepath.Join(l.fontRoot, name))
}

// LoadFonts runs matching and registration in a single pass over the
// family-name set: each family is first checked for a system-wide
// installation and accepted outright if found, otherwise it is resolved
// against the scanned catalog before the next family is checked. There
// is no separate first pass over all families. It returns a Summary once done
// (or once cancellation is observed, in which case everything
// registered so far is unregistered before returning).
func (l *Loader) LoadFonts() Summary {
	l.setState(StateLoadFont)
	l.loaded = l.loaded[:0]

	for _, family := range l.families.names() {
		if l.cancel.isSet() {
			break
		}
		l.loadOneFamily(family)
	}

	if l.cancel.isSet() {
		l.unloadAll()
		l.setState(StateCancelled)
		return l.summarize()
	}

	sortRecords(l.loaded)
	l.setState(StateDone)
	return l.summarize()
}

func (l *Loader) loadOneFamily(family string) {
	if l.registrar.IsFamilyInstalledSystemWide(family) {
		l.loaded = append(l.loaded, Record{Flag: OSLoaded, Face: family})
		return
	}

	if l.blacklist.Contains(family) || l.catalog == nil {
		l.loaded = append(l.loaded, Record{Flag: LoadMiss, Face: family})
		return
	}

	it := l.catalog.Iter(family)
	successes := 0
	sawAny := false
	for successes < maxCandidatesPerFamily {
		if l.cancel.isSet() {
			return
		}
		cand, ok := it.Next()
		if !ok {
			break
		}
		sawAny = true
		rec, dup := l.loadFile(family, cand.Tag)
		l.loaded = append(l.loaded, rec)
		if dup {
			continue
		}
		if rec.Flag == LoadOK {
			successes++
		}
	}

	if !sawAny {
		l.loaded = append(l.loaded, Record{Flag: LoadMiss, Face: family})
	}
}

// loadFile is the heart of the matching logic: it returns the record to
// append and whether it was a duplicate (by path or by content hash) of
// something already loaded.
func (l *Loader) loadFile(face, fileTag string) (Record, bool) {
	for _, r := range l.loaded {
		if r.File == fileTag {
			return Record{Flag: LoadDup, Face: face, File: fileTag}, true
		}
	}

	abs := filepath.Join(l.fontRoot, fileTag)
	data, err := mmapFile(abs)
	if err != nil {
		return Record{Flag: LoadErr, Face: face, File: fileTag}, false
	}

	sum := l.hasher.Sum(data)
	for _, r := range l.loaded {
		if r.Flag == LoadOK && r.hasSha && r.Sha == sum {
			return Record{Flag: LoadDup, Face: face, File: fileTag}, true
		}
	}

	if err := l.registrar.InstallFont(abs); err != nil {
		return Record{Flag: LoadErr, Face: face, File: fileTag}, false
	}
	return Record{Flag: LoadOK, Face: face, File: fileTag, Sha: sum, hasSha: true}, false
}

// UnloadFonts unregisters everything previously registered (every
// record with a non-empty File and Flag != LoadDup) and clears the
// loaded-font vector.
func (l *Loader) UnloadFonts() {
	l.setState(StateUnloadFont)
	l.unloadAll()
	l.loaded = nil
}

func (l *Loader) unloadAll() {
	for _, r := range l.loaded {
		if r.File == "" || r.Flag == LoadDup {
			continue
		}
		abs := filepath.Join(l.fontRoot, r.File)
		if err := l.registrar.UninstallFont(abs); err != nil {
			l.logger.Printf("unloading %s: %v", abs, err)
		}
	}
}

func (l *Loader) summarize() Summary {
	s := Summary{Files: int(0), Subs: l.numSubs, Records: append([]Record(nil), l.loaded...)}
	if l.catalog != nil {
		s.Files = int(l.catalog.NumFile())
		s.Faces = int(l.catalog.NumFace())
	}
	for _, r := range l.loaded {
		switch r.Flag {
		case LoadOK:
			s.Loaded++
		case LoadErr:
			s.Failed++
		case LoadMiss:
			s.Unmatched++
		}
	}
	return s
}

// RunCacheWarmer starts the optional background cache warmer: once
// fonts are loaded, it periodically re-reads each loaded font file to
// keep it resident in the OS page cache, until ctx is cancelled or the
// loader's own cancel token is observed. It returns once the warmer
// goroutine has exited.
func (l *Loader) RunCacheWarmer(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return l.warmLoop(ctx)
	})
	return eg.Wait()
}

var errCancelled = fmt.Errorf("loader: cancelled")
