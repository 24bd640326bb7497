package raster

import (
	"io"

	"github.com/tailored-agentic-units/landmatch/mapview"
)

// Render draws props into a canvas sized by container and writes it to w as
// PNG. It runs the same reconciliation a live map view would.
func Render(w io.Writer, props mapview.Props, container mapview.Container, opts mapview.Options) (*Snapshot, error) {
	var canvas *Canvas
	factory := mapview.FactoryFunc(func(c mapview.Container, t mapview.TileLayer) (mapview.Canvas, mapview.Layer, error) {
		cv, layer, err := Factory{}.Open(c, t)
		if err != nil {
			return nil, nil, err
		}
		canvas = cv.(*Canvas)
		return cv, layer, nil
	})

	view := mapview.New(factory, opts)
	defer view.Close()

	if err := view.Update(props); err != nil {
		return nil, err
	}
	if err := view.Attach(container); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Center: canvas.Center(),
		Zoom:   canvas.Zoom(),
		Width:  canvas.width,
		Height: canvas.height,
	}
	if err := canvas.Render(w); err != nil {
		return nil, err
	}
	return snap, nil
}
