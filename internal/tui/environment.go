package tui

import "sync"

// Environment implements domain.Environment for the terminal.
// Key handlers run on the Bubble Tea goroutine via Dispatch; SetTitle may be
// called from any goroutine and is picked up by the model on its next refresh.
type Environment struct {
	mu       sync.Mutex
	handlers map[string][]keyHandler
	nextID   int

	title        string
	titlePending bool
}

type keyHandler struct {
	id int
	fn func()
}

// NewEnvironment creates an environment with no key handlers
func NewEnvironment() *Environment {
	return &Environment{handlers: make(map[string][]keyHandler)}
}

// OnKey registers fn for code and returns a function that removes it
func (e *Environment) OnKey(code string, fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.handlers[code] = append(e.handlers[code], keyHandler{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		hs := e.handlers[code]
		for i, h := range hs {
			if h.id == id {
				e.handlers[code] = append(hs[:i:i], hs[i+1:]...)
				break
			}
		}
		if len(e.handlers[code]) == 0 {
			delete(e.handlers, code)
		}
	}
}

// Dispatch runs the handlers registered for code and reports whether any ran
func (e *Environment) Dispatch(code string) bool {
	e.mu.Lock()
	hs := append([]keyHandler(nil), e.handlers[code]...)
	e.mu.Unlock()

	// Handlers may call back into OnKey or SetTitle
	for _, h := range hs {
		h.fn()
	}
	return len(hs) > 0
}

// SetTitle records the window title
func (e *Environment) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if title == e.title && !e.titlePending {
		return
	}
	e.title = title
	e.titlePending = true
}

// TakeTitle returns the title if it changed since the last call
func (e *Environment) TakeTitle() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.titlePending {
		return "", false
	}
	e.titlePending = false
	return e.title, true
}

// Title returns the current title
func (e *Environment) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}
