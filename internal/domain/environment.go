package domain

// Environment is the host capability the controller needs from the UI:
// global key hooks and the window title.
type Environment interface {
	// OnKey registers handler for a key code (e.g. "esc", "enter").
	// The returned function removes the registration.
	OnKey(code string, handler func()) (unsubscribe func())

	// SetTitle sets the host window title
	SetTitle(title string)
}
