// Package window implements the desktop window registry: window records with
// geometry and stacking order, and the drag/resize state machine driven by
// pointer-down, pointer-move and pointer-up events.
//
// Invariants:
//   - every focus strictly increments the running top z-index, so after any
//     focus the z-order is total;
//   - at most one move or resize is active, and pointer-up always clears it;
//   - width and height never drop below MinWidth x MinHeight while resizing.
//
// Example:
//
//	wm := window.NewManager()
//	w := wm.Open("Notes", window.AppNotes, window.Rect{X: 40, Y: 40, Width: 600, Height: 400})
//	wm.BeginResize(w.ID, window.West, 40, 200)
//	wm.PointerMove(500, 200) // width clamps to 200, right edge stays put
//	wm.PointerUp()
package window
