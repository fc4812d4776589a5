//go:build linux && !glfw

package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/tinyrange/polydemo/internal/gl"
)

const (
	glxRGBA         = 4
	glxDoubleBuffer = 5
	glxRedSize      = 8
	glxGreenSize    = 9
	glxBlueSize     = 10
	glxDepthSize    = 12
	glxXVisualType  = 0x22
	glxTrueColor    = 0x8002
	glxDrawableType = 0x8010
	glxRenderType   = 0x8011
	glxXRenderable  = 0x8012
	glxWindowBit    = 1
	glxRGBABit      = 1
	glxNone         = 0

	glxContextMajorVersion     = 0x2091
	glxContextMinorVersion     = 0x2092
	glxContextFlags            = 0x2094
	glxContextProfileMask      = 0x9126
	glxContextCoreProfileBit   = 0x1
	glxContextForwardCompatBit = 0x2

	inputOutput = 1

	exposureMask        = 1 << 15
	structureNotifyMask = 1 << 17
	focusChangeMask     = 1 << 21
	keyPressMask        = 1 << 0
	keyReleaseMask      = 1 << 1

	keyPress      = 2
	keyRelease    = 3
	focusOut      = 10
	destroyNotify = 17
	clientMessage = 33
)

// X keysyms for the mapped keys.
const (
	xkEscape = 0xff1b
	xk1      = 0x31
	xk2      = 0x32
	xk3      = 0x33
	xkUp     = 0xff52
	xkDown   = 0xff54
	xkKPUp   = 0xff97
	xkKPDown = 0xff99
)

type XVisualInfo struct {
	Visual       uintptr
	VisualID     uint
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
	MapEntries   int32
	pad          int32
}

type xclientMessage struct {
	Type        int32
	Serial      uint64
	SendEvent   int32
	Display     uintptr
	Window      uintptr
	MessageType uintptr
	Format      int32
	Data        [5]uint64
}

var (
	libsOnce sync.Once
	libsErr  error

	x11lib uintptr
	gllib  uintptr

	xOpenDisplay               func(*byte) uintptr
	xDefaultScreen             func(uintptr) int32
	xRootWindow                func(uintptr, int32) uintptr
	xCreateColormap            func(uintptr, uintptr, uintptr, int32) uintptr
	xCreateWindow              func(uintptr, uintptr, int32, int32, uint32, uint32, uint32, int32, uint32, uintptr, uint64, unsafe.Pointer) uintptr
	xMapWindow                 func(uintptr, uintptr) int32
	xStoreName                 func(uintptr, uintptr, *byte) int32
	xInternAtom                func(uintptr, *byte, int32) uintptr
	xSetWMProtocols            func(uintptr, uintptr, *uintptr, int32) int32
	xSelectInput               func(uintptr, uintptr, int64)
	xPending                   func(uintptr) int32
	xNextEvent                 func(uintptr, unsafe.Pointer)
	xLookupKeysym              func(unsafe.Pointer, int32) uint64
	xGetGeometry               func(uintptr, uintptr, *uintptr, *int32, *int32, *uint32, *uint32, *uint32, *uint32) int32
	xDestroyWindow             func(uintptr, uintptr) int32
	xCloseDisplay              func(uintptr) int32
	xFree                      func(unsafe.Pointer) int32
	xSync                      func(uintptr, int32) int32
	xSetErrorHandler           func(uintptr) uintptr
	xkbSetDetectableAutoRepeat func(uintptr, int32, *int32) int32

	glxChooseVisual            func(uintptr, int32, *int32) *XVisualInfo
	glxChooseFBConfig          func(uintptr, int32, *int32, *int32) *uintptr
	glxGetVisualFromFBConfig   func(uintptr, uintptr) *XVisualInfo
	glxCreateContext           func(uintptr, *XVisualInfo, uintptr, int32) uintptr
	glxCreateContextAttribsARB func(uintptr, uintptr, uintptr, int32, *int32) uintptr
	glxGetProcAddressARB       func(*byte) uintptr
	glxMakeCurrent             func(uintptr, uintptr, uintptr) int32
	glxSwapBuffers             func(uintptr, uintptr)
	glxDestroyContext          func(uintptr, uintptr)

	// xErrorSeen is set by the X error handler. Context creation with an
	// unsupported version raises BadMatch instead of returning NULL.
	xErrorSeen     bool
	xErrorCallback uintptr
)

type x11Window struct {
	display  uintptr
	window   uintptr
	ctx      uintptr
	wmDelete uintptr
	running  bool
	start    time.Time
	keys     keyTable
}

func New(cfg Config) (Window, error) {
	runtime.LockOSThread()
	if err := ensureLibs(); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	dpy := xOpenDisplay(nil)
	if dpy == 0 {
		runtime.UnlockOSThread()
		return nil, errors.New("XOpenDisplay failed")
	}

	screen := xDefaultScreen(dpy)
	root := xRootWindow(dpy, screen)

	fbConfig, visual, err := chooseVisual(dpy, screen, cfg.coreProfile())
	if err != nil {
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, err
	}
	defer xFree(unsafe.Pointer(visual))

	cmap := xCreateColormap(dpy, root, visual.Visual, 0)

	var swa xSetWindowAttributes
	swa.Colormap = cmap
	swa.EventMask = exposureMask | structureNotifyMask | focusChangeMask | keyPressMask | keyReleaseMask

	const (
		cwColormap    = 1 << 13
		cwEventMask   = 1 << 11
		cwBorderPixel = 1 << 3
	)

	win := xCreateWindow(
		dpy, root,
		0, 0,
		uint32(cfg.Width), uint32(cfg.Height),
		0,
		visual.Depth,
		inputOutput,
		visual.Visual,
		cwBorderPixel|cwColormap|cwEventMask,
		unsafe.Pointer(&swa),
	)
	if win == 0 {
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, errors.New("XCreateWindow failed")
	}
	xSelectInput(dpy, win, swa.EventMask)

	xStoreName(dpy, win, cString(cfg.Title))
	xMapWindow(dpy, win)

	wmDelete := xInternAtom(dpy, cString("WM_DELETE_WINDOW"), 0)
	xSetWMProtocols(dpy, win, &wmDelete, 1)

	// Without this X reports a held key as a release/press pair per repeat.
	if xkbSetDetectableAutoRepeat != nil {
		xkbSetDetectableAutoRepeat(dpy, 1, nil)
	}

	ctx, err := createContext(dpy, fbConfig, visual, cfg)
	if err != nil {
		xDestroyWindow(dpy, win)
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, err
	}
	if glxMakeCurrent(dpy, win, ctx) == 0 {
		glxDestroyContext(dpy, ctx)
		xDestroyWindow(dpy, win)
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, errors.New("glXMakeCurrent failed")
	}

	w := &x11Window{
		display:  dpy,
		window:   win,
		ctx:      ctx,
		wmDelete: wmDelete,
		running:  true,
		start:    time.Now(),
	}
	return w, nil
}

// chooseVisual picks a double-buffered RGBA visual with a depth buffer. Core
// contexts need a GLXFBConfig; legacy ones use glXChooseVisual.
func chooseVisual(dpy uintptr, screen int32, core bool) (uintptr, *XVisualInfo, error) {
	if !core {
		attrs := []int32{glxRGBA, glxDoubleBuffer, glxDepthSize, 24, glxNone}
		visual := glxChooseVisual(dpy, screen, &attrs[0])
		if visual == nil {
			return 0, nil, errors.New("glXChooseVisual failed")
		}
		return 0, visual, nil
	}

	attrs := []int32{
		glxXRenderable, 1,
		glxDrawableType, glxWindowBit,
		glxRenderType, glxRGBABit,
		glxXVisualType, glxTrueColor,
		glxRedSize, 8,
		glxGreenSize, 8,
		glxBlueSize, 8,
		glxDepthSize, 24,
		glxDoubleBuffer, 1,
		glxNone,
	}
	var count int32
	configs := glxChooseFBConfig(dpy, screen, &attrs[0], &count)
	if configs == nil || count == 0 {
		return 0, nil, errors.New("glXChooseFBConfig found no matching framebuffer config")
	}
	fbConfig := *configs
	xFree(unsafe.Pointer(configs))

	visual := glxGetVisualFromFBConfig(dpy, fbConfig)
	if visual == nil {
		return 0, nil, errors.New("glXGetVisualFromFBConfig failed")
	}
	return fbConfig, visual, nil
}

func createContext(dpy, fbConfig uintptr, visual *XVisualInfo, cfg Config) (uintptr, error) {
	if fbConfig == 0 {
		ctx := glxCreateContext(dpy, visual, 0, 1)
		if ctx == 0 {
			return 0, errors.New("glXCreateContext failed")
		}
		return ctx, nil
	}

	if glxCreateContextAttribsARB == nil {
		return 0, errors.New("glXCreateContextAttribsARB unavailable")
	}
	attrs := []int32{
		glxContextMajorVersion, int32(cfg.GLMajor),
		glxContextMinorVersion, int32(cfg.GLMinor),
		glxContextProfileMask, glxContextCoreProfileBit,
		glxContextFlags, glxContextForwardCompatBit,
		glxNone,
	}

	xErrorSeen = false
	prev := xSetErrorHandler(xErrorCallback)
	ctx := glxCreateContextAttribsARB(dpy, fbConfig, 0, 1, &attrs[0])
	xSync(dpy, 0)
	xSetErrorHandler(prev)

	if ctx == 0 || xErrorSeen {
		return 0, fmt.Errorf("glXCreateContextAttribsARB: OpenGL %d.%d core profile not available", cfg.GLMajor, cfg.GLMinor)
	}
	return ctx, nil
}

func (w *x11Window) GL() (gl.OpenGL, error) {
	resolve, err := gl.LibraryResolver()
	if err != nil {
		return nil, err
	}
	return gl.Load(resolve)
}

func (w *x11Window) Close() {
	if w.ctx != 0 {
		glxMakeCurrent(w.display, 0, 0)
		glxDestroyContext(w.display, w.ctx)
		w.ctx = 0
	}
	if w.window != 0 {
		xDestroyWindow(w.display, w.window)
		w.window = 0
	}
	if w.display != 0 {
		xCloseDisplay(w.display)
		w.display = 0
	}
	w.running = false
	runtime.UnlockOSThread()
}

func (w *x11Window) Poll() bool {
	if !w.running {
		return false
	}

	for xPending(w.display) > 0 {
		var ev [192]byte
		xNextEvent(w.display, unsafe.Pointer(&ev[0]))
		etype := *(*int32)(unsafe.Pointer(&ev[0]))
		switch etype {
		case keyPress, keyRelease:
			sym := xLookupKeysym(unsafe.Pointer(&ev[0]), 0)
			w.keys.set(keyFromKeysym(sym), etype == keyPress)
		case focusOut:
			w.keys.reset()
		case clientMessage:
			cm := (*xclientMessage)(unsafe.Pointer(&ev[0]))
			if cm.Format == 32 && cm.Data[0] == uint64(w.wmDelete) {
				w.running = false
			}
		case destroyNotify:
			w.running = false
		}
	}
	return w.running
}

func (w *x11Window) Swap() {
	if w.display != 0 && w.window != 0 {
		glxSwapBuffers(w.display, w.window)
	}
}

func (w *x11Window) BackingSize() (int, int) {
	var root uintptr
	var x, y int32
	var width, height uint32
	var border, depth uint32
	if xGetGeometry(w.display, w.window, &root, &x, &y, &width, &height, &border, &depth) == 0 {
		return 0, 0
	}
	return int(width), int(height)
}

func (w *x11Window) SetTitle(title string) {
	if w.display != 0 && w.window != 0 {
		xStoreName(w.display, w.window, cString(title))
	}
}

func (w *x11Window) Time() float64 {
	return time.Since(w.start).Seconds()
}

func (w *x11Window) KeyDown(key Key) bool {
	return w.keys.down(key)
}

func keyFromKeysym(sym uint64) Key {
	switch sym {
	case xkEscape:
		return KeyEscape
	case xk1:
		return Key1
	case xk2:
		return Key2
	case xk3:
		return Key3
	case xkUp, xkKPUp:
		return KeyUp
	case xkDown, xkKPDown:
		return KeyDown
	}
	return KeyUnknown
}

type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uint64
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

func ensureLibs() error {
	libsOnce.Do(func() {
		var err error
		x11lib, err = purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			libsErr = err
			return
		}
		registerX11()

		gllib, err = purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			libsErr = err
			return
		}
		registerGLX()

		xErrorCallback = purego.NewCallback(func(dpy, event uintptr) uintptr {
			xErrorSeen = true
			return 0
		})
	})
	return libsErr
}

func registerX11() {
	purego.RegisterLibFunc(&xOpenDisplay, x11lib, "XOpenDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, x11lib, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, x11lib, "XRootWindow")
	purego.RegisterLibFunc(&xCreateColormap, x11lib, "XCreateColormap")
	purego.RegisterLibFunc(&xCreateWindow, x11lib, "XCreateWindow")
	purego.RegisterLibFunc(&xMapWindow, x11lib, "XMapWindow")
	purego.RegisterLibFunc(&xStoreName, x11lib, "XStoreName")
	purego.RegisterLibFunc(&xInternAtom, x11lib, "XInternAtom")
	purego.RegisterLibFunc(&xSetWMProtocols, x11lib, "XSetWMProtocols")
	purego.RegisterLibFunc(&xSelectInput, x11lib, "XSelectInput")
	purego.RegisterLibFunc(&xPending, x11lib, "XPending")
	purego.RegisterLibFunc(&xNextEvent, x11lib, "XNextEvent")
	purego.RegisterLibFunc(&xLookupKeysym, x11lib, "XLookupKeysym")
	purego.RegisterLibFunc(&xGetGeometry, x11lib, "XGetGeometry")
	purego.RegisterLibFunc(&xDestroyWindow, x11lib, "XDestroyWindow")
	purego.RegisterLibFunc(&xCloseDisplay, x11lib, "XCloseDisplay")
	purego.RegisterLibFunc(&xFree, x11lib, "XFree")
	purego.RegisterLibFunc(&xSync, x11lib, "XSync")
	purego.RegisterLibFunc(&xSetErrorHandler, x11lib, "XSetErrorHandler")
	// Xkb lives in libX11 on every modern distribution, but stay usable without it.
	if _, err := purego.Dlsym(x11lib, "XkbSetDetectableAutoRepeat"); err == nil {
		purego.RegisterLibFunc(&xkbSetDetectableAutoRepeat, x11lib, "XkbSetDetectableAutoRepeat")
	}
}

func registerGLX() {
	purego.RegisterLibFunc(&glxChooseVisual, gllib, "glXChooseVisual")
	purego.RegisterLibFunc(&glxChooseFBConfig, gllib, "glXChooseFBConfig")
	purego.RegisterLibFunc(&glxGetVisualFromFBConfig, gllib, "glXGetVisualFromFBConfig")
	purego.RegisterLibFunc(&glxCreateContext, gllib, "glXCreateContext")
	purego.RegisterLibFunc(&glxGetProcAddressARB, gllib, "glXGetProcAddressARB")
	purego.RegisterLibFunc(&glxMakeCurrent, gllib, "glXMakeCurrent")
	purego.RegisterLibFunc(&glxSwapBuffers, gllib, "glXSwapBuffers")
	purego.RegisterLibFunc(&glxDestroyContext, gllib, "glXDestroyContext")

	if addr := glxGetProcAddressARB(cString("glXCreateContextAttribsARB")); addr != 0 {
		purego.RegisterFunc(&glxCreateContextAttribsARB, addr)
	}
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
