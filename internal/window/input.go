package window

// Key represents a keyboard key. Only the keys the demo binds are mapped;
// everything else arrives as KeyUnknown and is ignored.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	Key1
	Key2
	Key3
	KeyUp
	KeyDown

	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "Unknown",
	KeyEscape:  "Escape",
	Key1:       "1",
	Key2:       "2",
	Key3:       "3",
	KeyUp:      "Up",
	KeyDown:    "Down",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return keyNames[KeyUnknown]
	}
	return keyNames[k]
}

// keyTable holds the pressed state for every mapped key. Native backends
// update it from press/release events while polling.
type keyTable [keyCount]bool

func (t *keyTable) set(k Key, down bool) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	t[k] = down
}

func (t *keyTable) down(k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return t[k]
}

// reset releases every key, e.g. when the window loses focus and release
// events would otherwise be lost.
func (t *keyTable) reset() {
	*t = keyTable{}
}
