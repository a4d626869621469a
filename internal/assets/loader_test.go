package assets

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JPM1118/harerace/internal/config"
	apperr "github.com/JPM1118/harerace/internal/errors"
	"github.com/JPM1118/harerace/internal/sprites"
	"github.com/JPM1118/harerace/internal/testutil"
)

func writeGIF(t *testing.T, dir, name string, frames int) string {
	t.Helper()
	palette := color.Palette{color.Transparent, color.NRGBA{R: 0x20, G: 0x90, B: 0x30, A: 0xff}}
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 24, 24), palette)
		for y := 4; y < 20; y++ {
			for x := 4 + i; x < 20; x++ {
				img.SetColorIndex(x, y, 1)
			}
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xc0
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_PreparesInRequestOrder(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(t.TempDir(), "frames")
	reqs := []Request{
		{Name: NameTurtle, Path: writeGIF(t, dir, "Turtle.gif", 3), Size: image.Pt(12, 12)},
		{Name: NameBunny, Path: writeGIF(t, dir, "Bunny.gif", 2), Size: image.Pt(12, 12)},
		{Name: NameBackground, Path: writePNG(t, dir, "Background.png"), Size: image.Pt(70, 40), Background: true},
	}

	results := New(Config{MaxWorkers: 2, CacheDir: cache}, nil).Load(context.Background(), reqs)

	wantFrames := []int{3, 2, 1}
	for i, r := range results {
		if r.Name != reqs[i].Name {
			t.Errorf("result %d = %s, want %s", i, r.Name, reqs[i].Name)
		}
		if r.Err != nil || r.CacheErr != nil {
			t.Errorf("%s: err=%v cacheErr=%v", r.Name, r.Err, r.CacheErr)
		}
		if len(r.Frames) != wantFrames[i] {
			t.Errorf("%s: %d frames, want %d", r.Name, len(r.Frames), wantFrames[i])
		}
		if len(r.Cached) != wantFrames[i] {
			t.Errorf("%s: %d cached files, want %d", r.Name, len(r.Cached), wantFrames[i])
		}
	}

	if got := results[2].Frames[0].Size(); got != image.Pt(70, 40) {
		t.Errorf("background size = %v, want 70x40", got)
	}
	if _, err := os.Stat(filepath.Join(cache, "Turtle_2.gif")); err != nil {
		t.Errorf("cached frame missing: %v", err)
	}
}

func TestLoad_MissingAssetIsWarning(t *testing.T) {
	reqs := []Request{
		{Name: NameTurtle, Path: filepath.Join(t.TempDir(), "nope.gif"), Size: image.Pt(12, 12)},
	}

	results := New(Config{}, nil).Load(context.Background(), reqs)

	if len(results[0].Frames) != 0 {
		t.Errorf("missing asset should have no frames, got %d", len(results[0].Frames))
	}
	if !apperr.Is(results[0].Err, apperr.ErrCodeMissingAsset) {
		t.Errorf("err = %v, want MISSING_ASSET", results[0].Err)
	}
	if w := Warnings(results); len(w) != 1 {
		t.Errorf("warnings = %v, want 1", w)
	}
}

func TestLoad_BoundedConcurrency(t *testing.T) {
	var running, peak int32
	l := New(Config{MaxWorkers: 2}, nil)
	l.prepare = func(string, image.Point) ([]sprites.Frame, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil, nil
	}

	reqs := make([]Request, 8)
	for i := range reqs {
		reqs[i] = Request{Name: "a"}
	}
	l.Load(context.Background(), reqs)

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

func TestLoad_CancelledWhileWaiting(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	l := New(Config{MaxWorkers: 1}, nil)
	l.prepare = func(string, image.Point) ([]sprites.Frame, error) {
		close(started)
		<-release
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []Result)
	go func() {
		done <- l.Load(ctx, []Request{{Name: "a"}, {Name: "b"}})
	}()

	<-started
	cancel()
	// The waiting worker gives up; the running one finishes normally.
	time.Sleep(20 * time.Millisecond)
	close(release)

	var results []Result
	select {
	case results = <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Load")
	}

	cancelled := 0
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled != 1 {
		t.Errorf("cancelled results = %d, want 1", cancelled)
	}
}

func TestRequests_FromConfig(t *testing.T) {
	cfg := config.Defaults().Assets
	cfg.Dir = "art"

	reqs := Requests(cfg, image.Pt(70, 40))
	if len(reqs) != 4 {
		t.Fatalf("len = %d, want 4", len(reqs))
	}
	if reqs[0].Path != filepath.Join("art", "Turtle.gif") || reqs[0].Size != image.Pt(12, 12) {
		t.Errorf("turtle request = %+v", reqs[0])
	}
	if reqs[2].Size != image.Pt(8, 5) {
		t.Errorf("marker size = %v, want 8x5", reqs[2].Size)
	}
	if !reqs[3].Background || reqs[3].Size != image.Pt(70, 40) {
		t.Errorf("background request = %+v", reqs[3])
	}
}

type fakeSurface struct {
	testutil.MockRegistrar
	background *sprites.Frame
}

func (s *fakeSurface) SetBackground(f sprites.Frame) { s.background = &f }

func TestInstall(t *testing.T) {
	frame := func() sprites.Frame {
		return sprites.Frame{Image: image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black}), Key: sprites.NoKey}
	}
	results := []Result{
		{Request: Request{Name: NameTurtle}, Frames: []sprites.Frame{frame(), frame()}},
		{Request: Request{Name: NameBunny}, Frames: []sprites.Frame{frame(), frame(), frame()}},
		{Request: Request{Name: NameMarker}},
		{Request: Request{Name: NameBackground, Background: true}, Frames: []sprites.Frame{frame()}},
	}
	s := &fakeSurface{}
	s.Reject = map[string]bool{"Bunny_frame_1": true}

	got, warnings := Install(s, results)

	if got.Turtle.Len() != 2 {
		t.Errorf("turtle frames = %d, want 2", got.Turtle.Len())
	}
	if got.Bunny.Len() != 2 {
		t.Errorf("bunny frames = %d, want 2 after one rejection", got.Bunny.Len())
	}
	if !got.Marker.Empty() {
		t.Error("marker should be empty")
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want 1", warnings)
	}
	if s.background == nil {
		t.Error("background not set")
	}
}
