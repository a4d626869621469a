package sprites

import (
	"fmt"
	"image/gif"
	"os"
	"path/filepath"

	apperr "github.com/JPM1118/harerace/internal/errors"
)

// WriteFrames encodes each frame as a single-image GIF named
// "<prefix>_<i>.gif" in dir and returns the written paths. The GIF encoder
// records the key colour as the transparent index.
func WriteFrames(dir, prefix string, frames []Frame) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeCache, err, "create %s", dir)
	}

	paths := make([]string, 0, len(frames))
	for i, f := range frames {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.gif", prefix, i))
		if err := writeGIF(path, f); err != nil {
			return paths, apperr.Wrap(apperr.ErrCodeCache, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeGIF(path string, f Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.Encode(out, f.Image, &gif.Options{NumColors: len(f.Image.Palette)}); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
