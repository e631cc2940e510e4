package window

import "math"

// moveRect applies a pointer delta to a move baseline. The window may not
// leave the top-left of the desktop.
func moveRect(start Rect, dx, dy float64) Rect {
	r := start
	r.X = math.Max(0, start.X+dx)
	r.Y = math.Max(0, start.Y+dy)
	return r
}

// resizeRect applies a pointer delta to a resize baseline. Edges opposite
// the dragged handle stay fixed: for west and north handles the origin moves
// by the clamped size change, not the raw delta, so hitting the minimum
// never makes the window jump.
func resizeRect(start Rect, dir Direction, dx, dy float64) Rect {
	r := start

	switch {
	case dir.hasEast():
		r.Width = math.Max(MinWidth, start.Width+dx)
	case dir.hasWest():
		r.Width = math.Max(MinWidth, start.Width-dx)
		r.X = start.X + (start.Width - r.Width)
	}

	switch {
	case dir.hasSouth():
		r.Height = math.Max(MinHeight, start.Height+dy)
	case dir.hasNorth():
		r.Height = math.Max(MinHeight, start.Height-dy)
		r.Y = start.Y + (start.Height - r.Height)
	}

	return r
}
