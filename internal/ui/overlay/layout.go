package overlay

import (
	"fyne.io/fyne/v2"

	"visionary/internal/core/model"
	"visionary/internal/ui/animation"
)

// guideLayout places the guide dot inside the canvas for the current frame.
type guideLayout struct {
	pattern model.MovementPattern
	point   animation.Point
	dot     float32
	closed  bool
}

func (layout *guideLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	background, dot := objects[0], objects[1]
	background.Move(fyne.NewPos(0, 0))
	background.Resize(size)

	position := animation.Place(layout.pattern, layout.point, size, layout.dot)
	height := layout.dot
	if layout.closed {
		height = layout.dot * 0.15
		position.Y += (layout.dot - height) / 2
	}
	dot.Move(position)
	dot.Resize(fyne.NewSize(layout.dot, height))

	for _, object := range objects[2:] {
		objectSize := object.MinSize()
		if objectSize.Width > size.Width {
			objectSize.Width = size.Width
		}
		object.Resize(fyne.NewSize(size.Width, objectSize.Height))
		object.Move(fyne.NewPos(0, (size.Height-objectSize.Height)/2))
	}
}

func (layout *guideLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(layout.dot*4, layout.dot*4)
}

// progressLayout fills the first object and sizes the second to fraction of the width.
type progressLayout struct {
	fraction float64
}

func (layout *progressLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	track, fill := objects[0], objects[1]
	track.Move(fyne.NewPos(0, 0))
	track.Resize(size)

	fraction := layout.fraction
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	fill.Move(fyne.NewPos(0, 0))
	fill.Resize(fyne.NewSize(size.Width*float32(fraction), size.Height))
}

func (layout *progressLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(120, 8)
}
