package timeline

// Zoom owns the user-chosen pixels-per-day scale. The committed value is
// clamped to [MinPixelsPerDay, MaxPixelsPerDay]; the value layout actually
// uses is additionally floored by the content-fit minimum so the visible
// range always fills at least the viewport.

const (
	DefaultPixelsPerDay = 60.0
	MinPixelsPerDay     = 2.0
	MaxPixelsPerDay     = 400.0

	zoomStep = 1.4
)

type Zoom struct {
	pixelsPerDay float64

	// gestureBase holds the pre-gesture value while a pinch/magnify gesture
	// is in flight. Intermediate values are visual-only: a cancelled gesture
	// must leave the committed value untouched.
	gestureBase float64
	inGesture   bool
}

func NewZoom(pixelsPerDay float64) *Zoom {
	return &Zoom{pixelsPerDay: clampPPD(pixelsPerDay)}
}

func (z *Zoom) PixelsPerDay() float64 {
	return z.pixelsPerDay
}

func (z *Zoom) In() {
	z.pixelsPerDay = clampPPD(z.pixelsPerDay * zoomStep)
}

func (z *Zoom) Out() {
	z.pixelsPerDay = clampPPD(z.pixelsPerDay / zoomStep)
}

// BeginGesture starts a continuous zoom. Calling it twice without an end is
// treated as restarting from the current committed value.
func (z *Zoom) BeginGesture() {
	z.gestureBase = z.pixelsPerDay
	z.inGesture = true
}

// Magnify applies multiplier to the pre-gesture value. The result is live
// (PixelsPerDay reflects it) but not yet committed.
func (z *Zoom) Magnify(multiplier float64) {
	if !z.inGesture {
		z.BeginGesture()
	}
	z.pixelsPerDay = clampPPD(z.gestureBase * multiplier)
}

// EndGesture finishes a continuous zoom. commit=false restores the
// pre-gesture value (gesture cancelled).
func (z *Zoom) EndGesture(commit bool) {
	if !z.inGesture {
		return
	}
	if !commit {
		z.pixelsPerDay = z.gestureBase
	}
	z.inGesture = false
	z.gestureBase = 0
}

// Effective returns the pixels-per-day value layout should use:
// max(committed, contentFitMinimum, absolute minimum). rangeDays is floored
// at 1 to keep the division total.
func (z *Zoom) Effective(viewportWidth float64, rangeDays int) float64 {
	return EffectivePixelsPerDay(z.pixelsPerDay, viewportWidth, rangeDays)
}

// EffectivePixelsPerDay is the pure form of Zoom.Effective.
func EffectivePixelsPerDay(pixelsPerDay, viewportWidth float64, rangeDays int) float64 {
	if rangeDays < 1 {
		rangeDays = 1
	}
	eff := pixelsPerDay
	if fit := viewportWidth / float64(rangeDays); fit > eff {
		eff = fit
	}
	if eff < MinPixelsPerDay {
		eff = MinPixelsPerDay
	}
	return eff
}

func clampPPD(v float64) float64 {
	if v < MinPixelsPerDay {
		return MinPixelsPerDay
	}
	if v > MaxPixelsPerDay {
		return MaxPixelsPerDay
	}
	return v
}
