package window

// Minimum window size in layout pixels
const (
	MinWidth  = 200.0
	MinHeight = 100.0
)

// AppType selects which embedded application view a window renders
type AppType string

const (
	AppGeneric    AppType = "generic"
	AppFinder     AppType = "finder"
	AppCalculator AppType = "calculator"
	AppNotes      AppType = "notes"
	AppTerminal   AppType = "terminal"
	AppSafari     AppType = "safari"
	AppTextEdit   AppType = "textedit"
)

// ParseAppType maps unknown tags to AppGeneric
func ParseAppType(s string) AppType {
	switch t := AppType(s); t {
	case AppFinder, AppCalculator, AppNotes, AppTerminal, AppSafari, AppTextEdit:
		return t
	default:
		return AppGeneric
	}
}

// Rect is window geometry
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// clampSize enforces the minimum window size
func (r Rect) clampSize() Rect {
	if r.Width < MinWidth {
		r.Width = MinWidth
	}
	if r.Height < MinHeight {
		r.Height = MinHeight
	}
	return r
}

// Window is a single window record
type Window struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ZIndex          int     `json:"z_index"`
	IsMinimized     bool    `json:"is_minimized"`
	IsMaximized     bool    `json:"is_maximized"`
	PreMaximizeRect *Rect   `json:"pre_maximize_rect,omitempty"`
	AppType         AppType `json:"app_type"`
}

// Rect returns the window's current geometry
func (w *Window) Rect() Rect {
	return Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

func (w *Window) setRect(r Rect) {
	w.X, w.Y, w.Width, w.Height = r.X, r.Y, r.Width, r.Height
}

// clone returns a deep copy safe to hand to callers
func (w *Window) clone() Window {
	c := *w
	if w.PreMaximizeRect != nil {
		r := *w.PreMaximizeRect
		c.PreMaximizeRect = &r
	}
	return c
}

// Direction is one of the eight resize handles
type Direction string

const (
	North     Direction = "n"
	South     Direction = "s"
	East      Direction = "e"
	West      Direction = "w"
	NorthEast Direction = "ne"
	NorthWest Direction = "nw"
	SouthEast Direction = "se"
	SouthWest Direction = "sw"
)

// ParseDirection reports false for anything that is not a handle name
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest:
		return d, true
	default:
		return "", false
	}
}

func (d Direction) hasNorth() bool { return d == North || d == NorthEast || d == NorthWest }
func (d Direction) hasSouth() bool { return d == South || d == SouthEast || d == SouthWest }
func (d Direction) hasEast() bool  { return d == East || d == NorthEast || d == SouthEast }
func (d Direction) hasWest() bool  { return d == West || d == NorthWest || d == SouthWest }

// OperationKind tags the active pointer interaction
type OperationKind string

const (
	OpNone   OperationKind = "none"
	OpMove   OperationKind = "move"
	OpResize OperationKind = "resize"
)

// Operation is the at-most-one in-progress drag or resize. Start holds the
// window geometry captured at pointer-down; OriginX/OriginY the pointer.
type Operation struct {
	Kind      OperationKind `json:"kind"`
	WindowID  uint64        `json:"window_id,omitempty"`
	Direction Direction     `json:"direction,omitempty"`
	OriginX   float64       `json:"origin_x"`
	OriginY   float64       `json:"origin_y"`
	Start     Rect          `json:"start"`
}

// Active reports whether a move or resize is in progress
func (o Operation) Active() bool {
	return o.Kind == OpMove || o.Kind == OpResize
}

// Stats contains window manager statistics
type Stats struct {
	TotalWindows     int     `json:"total_windows"`
	VisibleWindows   int     `json:"visible_windows"`
	MinimizedWindows int     `json:"minimized_windows"`
	TopZIndex        int     `json:"top_z_index"`
	ActiveWindowID   *uint64 `json:"active_window_id,omitempty"`
	Dragging         bool    `json:"dragging"`
}
