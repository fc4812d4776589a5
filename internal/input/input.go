// Package input turns polled key state into one-shot actions.
package input

import "github.com/tinyrange/polydemo/internal/window"

// Action is something the user can trigger with a key press.
type Action int

const (
	ActionQuit Action = iota
	ActionTriangle
	ActionQuad
	ActionNGon
	ActionMoreSides
	ActionFewerSides

	actionCount
)

var actionNames = [actionCount]string{
	ActionQuit:       "quit",
	ActionTriangle:   "triangle",
	ActionQuad:       "quad",
	ActionNGon:       "ngon",
	ActionMoreSides:  "more-sides",
	ActionFewerSides: "fewer-sides",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Actions lists every action in evaluation order.
func Actions() []Action {
	all := make([]Action, actionCount)
	for i := range all {
		all[i] = Action(i)
	}
	return all
}

// Bindings maps each action to the key that triggers it.
type Bindings map[Action]window.Key

// DefaultBindings returns ESC, 1, 2, 3, Up and Down.
func DefaultBindings() Bindings {
	return Bindings{
		ActionQuit:       window.KeyEscape,
		ActionTriangle:   window.Key1,
		ActionQuad:       window.Key2,
		ActionNGon:       window.Key3,
		ActionMoreSides:  window.KeyUp,
		ActionFewerSides: window.KeyDown,
	}
}

// Events is the set of actions that fired during one Update.
type Events uint32

// Has reports whether a fired.
func (e Events) Has(a Action) bool {
	return e&(1<<a) != 0
}

func (e Events) with(a Action) Events {
	return e | 1<<a
}

// Of builds an Events set, mostly for tests.
func Of(actions ...Action) Events {
	var e Events
	for _, a := range actions {
		e = e.with(a)
	}
	return e
}

// Tracker remembers whether each bound action was held on the previous
// update, so that an action fires once per press rather than once per frame.
type Tracker struct {
	bindings Bindings
	prev     [actionCount]bool
}

func NewTracker(b Bindings) *Tracker {
	return &Tracker{bindings: b}
}

// Update samples every bound key through down and returns the actions whose
// key went from released to pressed since the previous call. Call it exactly
// once per frame.
func (t *Tracker) Update(down func(window.Key) bool) Events {
	var ev Events
	for _, a := range Actions() {
		key, ok := t.bindings[a]
		if !ok {
			continue
		}
		cur := down(key)
		if cur && !t.prev[a] {
			ev = ev.with(a)
		}
		t.prev[a] = cur
	}
	return ev
}

// Reset forgets the previous state. A key still held on the next Update
// fires again.
func (t *Tracker) Reset() {
	t.prev = [actionCount]bool{}
}
