//go:build !glfw && !linux && !darwin

package window

func New(Config) (Window, error) {
	return nil, ErrUnsupportedPlatform
}
