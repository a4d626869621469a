package sprites

import (
	"fmt"
)

// Handle identifies a sprite registered with a rendering surface.
type Handle string

// Registrar binds prepared frames to a rendering surface.
// canvas.Surface implements this interface. Tests can provide fakes.
type Registrar interface {
	RegisterSprite(name string, f Frame) (Handle, error)
}

// Set is an ordered, cyclic sequence of sprite handles. Registration order
// is animation order. A Set is read-only once built and may be shared by
// racers using the same art; the animation cursor belongs to the racer.
type Set struct {
	handles []Handle
}

// NewSet builds a Set from already registered handles.
func NewSet(handles ...Handle) Set {
	return Set{handles: append([]Handle(nil), handles...)}
}

// Register binds every frame under "<prefix>_frame_<i>". Frames the surface
// rejects are left out of the set and reported in skipped; the rest keep
// their relative order.
func Register(reg Registrar, prefix string, frames []Frame) (set Set, skipped []error) {
	handles := make([]Handle, 0, len(frames))
	for i, f := range frames {
		name := fmt.Sprintf("%s_frame_%d", prefix, i)
		h, err := reg.RegisterSprite(name, f)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s frame %d: %w", prefix, i, err))
			continue
		}
		handles = append(handles, h)
	}
	return Set{handles: handles}, skipped
}

// Len returns the number of handles.
func (s Set) Len() int {
	return len(s.handles)
}

// Empty reports whether the set has nothing to display.
func (s Set) Empty() bool {
	return len(s.handles) == 0
}

// HandleAt returns the handle at index i, wrapping cyclically.
// It returns false for an empty set.
func (s Set) HandleAt(i int) (Handle, bool) {
	n := len(s.handles)
	if n == 0 {
		return "", false
	}
	i %= n
	if i < 0 {
		i += n
	}
	return s.handles[i], true
}
