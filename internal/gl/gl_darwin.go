//go:build darwin

package gl

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	libOnce   sync.Once
	libHandle uintptr
	libErr    error
)

// LibraryResolver resolves entry points from OpenGL.framework, which exports
// the full core profile directly.
func LibraryResolver() (ProcResolver, error) {
	libOnce.Do(func() {
		libHandle, libErr = purego.Dlopen("/System/Library/Frameworks/OpenGL.framework/OpenGL", purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	})
	if libErr != nil {
		return nil, libErr
	}

	return func(name string) uintptr {
		addr, err := purego.Dlsym(libHandle, name)
		if err != nil {
			return 0
		}
		return addr
	}, nil
}
