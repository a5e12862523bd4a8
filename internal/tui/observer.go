package tui

// ChangeNotifier adapts controller change callbacks to a channel for Bubble Tea.
// Notifications coalesce: the model re-reads the whole snapshot on each one.
type ChangeNotifier struct {
	ch chan struct{}
}

// NewChangeNotifier creates a notifier with room for one pending change
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{ch: make(chan struct{}, 1)}
}

// Notify signals a change (non-blocking if one is already pending)
func (n *ChangeNotifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default: // Already pending
	}
}

// C returns the receive side
func (n *ChangeNotifier) C() <-chan struct{} {
	return n.ch
}
