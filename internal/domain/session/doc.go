// Package session tracks desktop sessions. Each browser page opens one
// session, which owns that page's window registry and Terminal shell.
// Windows are not persisted: a session lives in memory until it is deleted
// or sits idle past its TTL.
//
// Example:
//
//	mgr := session.NewManager(session.Config{TTL: 12 * time.Hour, FS: fs})
//	defer mgr.Close()
//	s := mgr.Create()
//	s.Windows.Open("Finder", window.AppFinder, window.Rect{Width: 800, Height: 500})
package session
