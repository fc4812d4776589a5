// Package windowtest provides a scripted window.Window for driving render
// loops in tests.
package windowtest

import (
	"slices"

	"github.com/tinyrange/polydemo/internal/gl"
	"github.com/tinyrange/polydemo/internal/window"
)

// Window replays Script: poll i reports the keys in Script[i] as held. Once
// the script is exhausted Poll reports the window closed, as if the user had
// clicked the close button.
type Window struct {
	Script [][]window.Key
	OpenGL gl.OpenGL
	Width  int
	Height int

	// FrameTime is the number of seconds Time advances per poll.
	FrameTime float64

	Titles []string
	Polls  int
	Swaps  int
	Closed bool

	held []window.Key
}

var _ window.Window = (*Window)(nil)

func (w *Window) GL() (gl.OpenGL, error) {
	return w.OpenGL, nil
}

func (w *Window) Close() {
	w.Closed = true
}

func (w *Window) Poll() bool {
	if w.Closed || w.Polls >= len(w.Script) {
		return false
	}
	w.held = w.Script[w.Polls]
	w.Polls++
	return true
}

func (w *Window) Swap() {
	w.Swaps++
}

func (w *Window) BackingSize() (int, int) {
	return w.Width, w.Height
}

func (w *Window) SetTitle(title string) {
	w.Titles = append(w.Titles, title)
}

// Title returns the most recently set title.
func (w *Window) Title() string {
	if len(w.Titles) == 0 {
		return ""
	}
	return w.Titles[len(w.Titles)-1]
}

func (w *Window) Time() float64 {
	return float64(w.Polls) * w.FrameTime
}

func (w *Window) KeyDown(key window.Key) bool {
	return slices.Contains(w.held, key)
}

// Tap returns a script that presses key for one poll and releases it for
// the next.
func Tap(key window.Key) [][]window.Key {
	return [][]window.Key{{key}, nil}
}

// Taps concatenates n taps of key.
func Taps(key window.Key, n int) [][]window.Key {
	var script [][]window.Key
	for i := 0; i < n; i++ {
		script = append(script, Tap(key)...)
	}
	return script
}
