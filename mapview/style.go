package mapview

import "github.com/tailored-agentic-units/landmatch/core/model"

// Pin colors and sizes.
const (
	CurrentColor = "#0EA5E9"
	DefaultColor = "#475569"
	StrokeColor  = "#0F172A"

	CurrentSize = 42
	DefaultSize = 30

	CurrentZIndex = 1000
	DefaultZIndex = 500
)

// PinStyle describes how a single marker is drawn.
type PinStyle struct {
	Size   int
	Color  string
	Stroke string
	ZIndex int
	Pulse  bool
}

// Anchor is the pixel offset of the pin tip from the icon origin.
func (s PinStyle) Anchor() (x, y int) {
	return s.Size / 2, s.Size
}

// PopupOffset is the popup position relative to the anchor.
func (s PinStyle) PopupOffset() (x, y int) {
	return 0, -s.Size
}

// PinStyleFor returns the emphasized style for the current location and the
// standard style for everything else.
func PinStyleFor(isCurrent bool) PinStyle {
	if isCurrent {
		return PinStyle{
			Size:   CurrentSize,
			Color:  CurrentColor,
			Stroke: StrokeColor,
			ZIndex: CurrentZIndex,
			Pulse:  true,
		}
	}
	return PinStyle{
		Size:   DefaultSize,
		Color:  DefaultColor,
		Stroke: StrokeColor,
		ZIndex: DefaultZIndex,
	}
}

// Pin is a styled marker handed to a Layer.
type Pin struct {
	Marker    model.MapMarker
	Style     PinStyle
	Popup     string
	PopupOpen bool
	OnClick   func()
}
