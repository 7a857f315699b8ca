// Package viewport implements the sliding window used by every scrollable
// panel: the commit log, the branch list and the commit detail text.
package viewport

// Mode selects how the window is derived from the cursor.
type Mode uint8

const (
	// Paged aligns the window start to a multiple of the capacity that
	// contains the cursor.
	Paged Mode = iota
	// Centered keeps the cursor roughly in the middle of the window.
	Centered
	// Free has no cursor. The window is moved by explicit scroll requests.
	Free
)

func (m Mode) String() string {
	switch m {
	case Paged:
		return "paged"
	case Centered:
		return "centered"
	case Free:
		return "free"
	default:
		return "unknown"
	}
}

// Viewport is the visible half-open range [start, end) over a sequence of
// length n. The zero value is an empty paged viewport.
type Viewport struct {
	mode     Mode
	capacity int
	length   int
	cursor   int
	start    int
	end      int
}

// New creates a viewport over length elements with no capacity yet. Resize
// must be called before anything becomes visible.
func New(mode Mode, length int) *Viewport {
	v := &Viewport{mode: mode}
	v.SetLength(length)
	return v
}

// Mode returns the derivation mode of the viewport.
func (v *Viewport) Mode() Mode { return v.mode }

// Len returns the length of the underlying sequence.
func (v *Viewport) Len() int { return v.length }

// Capacity returns how many elements fit in the window.
func (v *Viewport) Capacity() int { return v.capacity }

// Cursor returns the selected index. It is always 0 for empty sequences and
// for free viewports.
func (v *Viewport) Cursor() int { return v.cursor }

// Range returns the visible window as a half-open range.
func (v *Viewport) Range() (start, end int) { return v.start, v.end }

// Resize sets the number of visible elements and re-derives the window.
// It is called on every render pass and is idempotent.
func (v *Viewport) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	v.capacity = capacity
	v.derive()
}

// SetLength replaces the length of the underlying sequence, clamping the
// cursor into the new bounds.
func (v *Viewport) SetLength(length int) {
	if length < 0 {
		length = 0
	}
	v.length = length
	v.cursor = clampIndex(v.cursor, length)
	if v.start > length {
		v.start = length
	}
	v.derive()
}

// Reset replaces the sequence length and moves cursor and window back to the
// top.
func (v *Viewport) Reset(length int) {
	v.cursor = 0
	v.start = 0
	v.SetLength(length)
}

// MoveCursor moves the selection by delta elements, clamped to [0, n-1], and
// re-derives the window. Free viewports scroll instead.
func (v *Viewport) MoveCursor(delta int) {
	if v.mode == Free {
		v.Step(delta)
		return
	}
	if v.length == 0 {
		return
	}
	v.cursor = clampIndex(v.cursor+delta, v.length)
	v.derive()
}

// Select places the cursor on index, clamped into range.
func (v *Viewport) Select(index int) {
	if v.mode == Free || v.length == 0 {
		return
	}
	v.cursor = clampIndex(index, v.length)
	v.derive()
}

// Step shifts start and end together by delta elements. The shift is
// clamped so the window never leaves [0, n).
func (v *Viewport) Step(delta int) {
	if v.length == 0 || delta == 0 {
		return
	}
	shift := delta
	if shift > 0 {
		if room := v.length - v.end; shift > room {
			shift = room
		}
	} else if shift < -v.start {
		shift = -v.start
	}
	v.start += shift
	v.end += shift
}

// Page jumps by a full window in the direction of delta. List viewports move
// the cursor, free viewports move the window.
func (v *Viewport) Page(delta int) {
	if v.length == 0 || delta == 0 {
		return
	}
	size := v.capacity
	if size < 1 {
		size = 1
	}
	if v.mode == Free {
		v.Step(delta * size)
		return
	}
	v.cursor = clampIndex(v.cursor+delta*size, v.length)
	v.derive()
}

// Visible reports whether index falls inside the window.
func (v *Viewport) Visible(index int) bool {
	return index >= v.start && index < v.end
}

func (v *Viewport) derive() {
	if v.length == 0 {
		v.cursor, v.start, v.end = 0, 0, 0
		return
	}
	if v.capacity == 0 {
		if v.mode != Free {
			v.start = v.cursor
		}
		v.end = v.start
		return
	}
	switch v.mode {
	case Paged:
		v.start = v.cursor - v.cursor%v.capacity
	case Centered:
		v.start = max(0, v.cursor-v.capacity/2)
	case Free:
		// keep the window size when the trailing edge hits the end
		end := min(v.start+v.capacity, v.length)
		v.start = max(0, end-v.capacity)
	}
	v.end = min(v.start+v.capacity, v.length)
}

func clampIndex(idx, length int) int {
	if length <= 0 || idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}
