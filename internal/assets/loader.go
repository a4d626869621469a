// Package assets prepares the race artwork concurrently and installs it on
// the canvas.
package assets

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/JPM1118/harerace/internal/config"
	"github.com/JPM1118/harerace/internal/sprites"
)

// Asset names, also used as sprite and cache prefixes.
const (
	NameTurtle     = "Turtle"
	NameBunny      = "Bunny"
	NameMarker     = "zzz"
	NameBackground = "Background"
)

// Request describes one source image to prepare.
type Request struct {
	Name string
	Path string
	// Size is the bounding box for sprites, or the exact size for a
	// background.
	Size       image.Point
	Background bool
}

// Result is the outcome of one Request.
type Result struct {
	Request
	Frames  []sprites.Frame
	Cached  []string
	Elapsed time.Duration
	// Err is set when the asset could not be prepared. The frames are
	// empty and the race continues without this visual.
	Err error
	// CacheErr is set when the frames were prepared but not cached.
	CacheErr error
}

// Config holds loader configuration.
type Config struct {
	MaxWorkers int
	// CacheDir receives the prepared frames as GIF files. Empty disables
	// caching.
	CacheDir string
}

// Loader prepares assets with bounded concurrency.
type Loader struct {
	cfg    Config
	logger *log.Logger

	prepare    func(path string, size image.Point) ([]sprites.Frame, error)
	background func(path string, size image.Point) (sprites.Frame, error)
}

// New creates a loader. A nil logger discards output.
func New(cfg Config, logger *log.Logger) *Loader {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		cfg:        cfg,
		logger:     logger,
		prepare:    sprites.Prepare,
		background: sprites.PrepareBackground,
	}
}

// Requests builds the standard asset list from configuration. pixels is the
// canvas pixel grid the background is stretched to.
func Requests(cfg config.AssetConfig, pixels image.Point) []Request {
	return []Request{
		{Name: NameTurtle, Path: cfg.Path(cfg.Turtle), Size: cfg.RacerSize.Point()},
		{Name: NameBunny, Path: cfg.Path(cfg.Bunny), Size: cfg.RacerSize.Point()},
		{Name: NameMarker, Path: cfg.Path(cfg.SleepMark), Size: cfg.MarkerSize.Point()},
		{Name: NameBackground, Path: cfg.Path(cfg.Background), Size: pixels, Background: true},
	}
}

// Load prepares every request and returns the results in request order.
// Failures are logged as warnings and reported per result, never returned.
func (l *Loader) Load(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))
	sem := make(chan struct{}, l.cfg.MaxWorkers)

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()

			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				results[i] = Result{Request: req, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }() // release

			results[i] = l.load(req)
		}(i, req)
	}
	wg.Wait()

	for _, r := range results {
		l.report(r)
	}
	return results
}

func (l *Loader) load(req Request) Result {
	start := time.Now()
	res := Result{Request: req}

	if req.Background {
		f, err := l.background(req.Path, req.Size)
		if err == nil {
			res.Frames = []sprites.Frame{f}
		}
		res.Err = err
	} else {
		res.Frames, res.Err = l.prepare(req.Path, req.Size)
	}

	if res.Err == nil && l.cfg.CacheDir != "" {
		res.Cached, res.CacheErr = sprites.WriteFrames(l.cfg.CacheDir, req.Name, res.Frames)
	}
	res.Elapsed = time.Since(start)
	return res
}

func (l *Loader) report(r Result) {
	switch {
	case r.Err != nil:
		l.logger.Warn("asset unavailable", "asset", r.Name, "path", r.Path, "err", r.Err)
	case r.CacheErr != nil:
		l.logger.Warn("frame cache write failed", "asset", r.Name, "err", r.CacheErr)
	default:
		l.logger.Debug("asset prepared", "asset", r.Name, "frames", len(r.Frames), "elapsed", r.Elapsed)
	}
}

// Warnings returns every preparation and cache failure in results.
func Warnings(results []Result) []error {
	var out []error
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r.Err)
		}
		if r.CacheErr != nil {
			out = append(out, r.CacheErr)
		}
	}
	return out
}
