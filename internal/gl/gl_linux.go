//go:build linux

package gl

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	libOnce   sync.Once
	libHandle uintptr
	libErr    error

	glxGetProcAddress func(*byte) uintptr
)

// LibraryResolver resolves entry points from libGL.so.1. Symbols the library
// does not export directly are looked up with glXGetProcAddressARB.
func LibraryResolver() (ProcResolver, error) {
	libOnce.Do(func() {
		libHandle, libErr = purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if libErr != nil {
			return
		}
		if _, err := purego.Dlsym(libHandle, "glXGetProcAddressARB"); err == nil {
			purego.RegisterLibFunc(&glxGetProcAddress, libHandle, "glXGetProcAddressARB")
		}
	})
	if libErr != nil {
		return nil, libErr
	}

	return func(name string) uintptr {
		if addr, err := purego.Dlsym(libHandle, name); err == nil && addr != 0 {
			return addr
		}
		if glxGetProcAddress == nil {
			return 0
		}
		nameBytes := append([]byte(name), 0)
		return glxGetProcAddress(&nameBytes[0])
	}, nil
}
