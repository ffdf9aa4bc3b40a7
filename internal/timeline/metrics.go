package timeline

// Metrics are the fixed layout constants. Hosts seed them from config; the
// zero value is unusable, call DefaultMetrics.
type Metrics struct {
	LaneHeight       float64
	AxisHeaderHeight float64
	BottomMargin     float64

	// LaneHeaderWidth is the leading margin reserved for character names.
	LaneHeaderWidth   float64
	HorizontalPadding float64

	// InstantaneousWidth is the fixed block width for zero-duration events.
	InstantaneousWidth float64

	// ArcMinWidth floors arc bars so inverted spans stay visible.
	ArcMinWidth float64
	// ArcHeight is the arc bar thickness.
	ArcHeight float64

	// BlockFraction places the event band within its lane. Deliberately not
	// 0.5: the arc band occupies the lower part of the same lane.
	BlockFraction float64
	// BlockHeightFraction is the event band height relative to the lane.
	BlockHeightFraction float64
	// ArcFraction places the arc band within its lane.
	ArcFraction float64
}

func DefaultMetrics() Metrics {
	return Metrics{
		LaneHeight:          44,
		AxisHeaderHeight:    28,
		BottomMargin:        12,
		LaneHeaderWidth:     140,
		HorizontalPadding:   8,
		InstantaneousWidth:  8,
		ArcMinWidth:         5,
		ArcHeight:           3,
		BlockFraction:       0.18,
		BlockHeightFraction: 0.42,
		ArcFraction:         0.72,
	}
}

// OriginX is the fixed leading margin owned by the layout: lane header plus
// padding. Axis offsets are added to it.
func (m Metrics) OriginX() float64 {
	return m.LaneHeaderWidth + m.HorizontalPadding
}
