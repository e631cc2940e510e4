// Package apps lists the built-in desktop applications shown in the dock,
// found by Spotlight and launched by the Terminal's open command.
package apps

import (
	"strings"

	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/window"
)

// ApplicationsDir holds one "<Name>.app" file per catalog entry
const ApplicationsDir = "/Applications"

// App describes a launchable application
type App struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Icon    string         `json:"icon"`
	AppType window.AppType `json:"app_type"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
}

// BundlePath returns the app's file under /Applications
func (a App) BundlePath() string {
	return ApplicationsDir + "/" + a.Name + ".app"
}

// DefaultRect is the initial geometry for a new window of this app,
// cascaded by the number of windows already open
func (a App) DefaultRect(open int) window.Rect {
	offset := float64(open%10) * 24
	return window.Rect{X: 80 + offset, Y: 60 + offset, Width: a.Width, Height: a.Height}
}

var catalog = []App{
	{ID: "finder", Name: "Finder", Icon: "🗂️", AppType: window.AppFinder, Width: 800, Height: 500},
	{ID: "calculator", Name: "Calculator", Icon: "🧮", AppType: window.AppCalculator, Width: 240, Height: 360},
	{ID: "notes", Name: "Notes", Icon: "📝", AppType: window.AppNotes, Width: 700, Height: 480},
	{ID: "terminal", Name: "Terminal", Icon: "💻", AppType: window.AppTerminal, Width: 640, Height: 400},
	{ID: "safari", Name: "Safari", Icon: "🧭", AppType: window.AppSafari, Width: 900, Height: 600},
	{ID: "textedit", Name: "TextEdit", Icon: "📃", AppType: window.AppTextEdit, Width: 600, Height: 450},
}

// All returns the catalog in dock order
func All() []App {
	out := make([]App, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds an app by id, name or bundle name ("Notes.app"), ignoring case
func Lookup(key string) (App, bool) {
	key = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(key)), ".app")
	for _, a := range catalog {
		if a.ID == key || strings.ToLower(a.Name) == key {
			return a, true
		}
	}
	return App{}, false
}

// ForType returns the app registered for a window app type
func ForType(t window.AppType) (App, bool) {
	for _, a := range catalog {
		if a.AppType == t {
			return a, true
		}
	}
	return App{}, false
}

// ForPath picks the app that opens a file system entry: bundles launch
// themselves, directories open in Finder and other files in TextEdit
func ForPath(path string, isDir bool) App {
	if isDir {
		a, _ := Lookup("finder")
		return a
	}
	name := path[strings.LastIndex(path, "/")+1:]
	if strings.HasSuffix(name, ".app") {
		if a, ok := Lookup(name); ok {
			return a
		}
	}
	a, _ := Lookup("textedit")
	return a
}
