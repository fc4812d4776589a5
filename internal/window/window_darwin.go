//go:build darwin && !glfw

// The macOS backend drives Cocoa and NSOpenGL through purego, keeping control
// of the run loop so callers can render manually.

package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/tinyrange/polydemo/internal/gl"
)

// NS geometry mirrors (keep alignment explicit).
type NSPoint struct {
	X float64
	Y float64
}

type NSSize struct {
	W float64
	H float64
}

type NSRect struct {
	Origin NSPoint
	Size   NSSize
}

// Cocoa constants (subset).
const (
	nsApplicationActivationPolicyRegular = 0

	nsWindowStyleTitled      = 1 << 0
	nsWindowStyleClosable    = 1 << 1
	nsWindowStyleMiniaturize = 1 << 2
	nsWindowStyleResizable   = 1 << 3

	nsBackingStoreBuffered = 2

	nsEventMaskAny = ^uint(0)

	nsEventTypeKeyDown = 10
	nsEventTypeKeyUp   = 11

	// NSOpenGL pixel format attributes.
	nsOpenGLPFAAccelerated       = 73
	nsOpenGLPFADoubleBuffer      = 5
	nsOpenGLPFAColorSize         = 8
	nsOpenGLPFADepthSize         = 12
	nsOpenGLPFAOpenGLProfile     = 99
	nsOpenGLProfileVersionLegacy = 0x1000
	nsOpenGLProfileVersion32Core = 0x3200
	nsOpenGLProfileVersion41Core = 0x4100

	nsOpenGLCPSwapInterval = 222
)

// Virtual key codes from HIToolbox/Events.h.
const (
	kVKEscape    = 0x35
	kVK1         = 0x12
	kVK2         = 0x13
	kVK3         = 0x14
	kVKUpArrow   = 0x7E
	kVKDownArrow = 0x7D
	kVKKeypad1   = 0x53
	kVKKeypad2   = 0x54
	kVKKeypad3   = 0x55
)

// Cocoa exposes objects as pointers (Objective-C id).
type Cocoa struct {
	app     objc.ID
	window  objc.ID
	view    objc.ID
	ctx     objc.ID
	pool    objc.ID
	running bool
	start   time.Time
	keys    keyTable
}

var (
	initOnce sync.Once
	initErr  error

	// CoreFoundation.
	cfRunLoopRunInMode func(uintptr, float64, bool) int32
	cfDefaultMode      uintptr

	// Cached selectors.
	selAlloc                 objc.SEL
	selInit                  objc.SEL
	selRelease               objc.SEL
	selSharedApplication     objc.SEL
	selNextEventMatchingMask objc.SEL
	selSetActivationPolicy   objc.SEL
	selFinishLaunching       objc.SEL
	selStringWithUTF8String  objc.SEL
	selInitWithContentRect   objc.SEL
	selMakeKeyAndOrderFront  objc.SEL
	selSetTitle              objc.SEL
	selSetReleasedWhenClosed objc.SEL
	selCenter                objc.SEL
	selContentView           objc.SEL
	selBounds                objc.SEL
	selConvertRectToBacking  objc.SEL
	selIsVisible             objc.SEL
	selIsKeyWindow           objc.SEL
	selSendEvent             objc.SEL
	selType                  objc.SEL
	selKeyCode               objc.SEL
	selFlushBuffer           objc.SEL
	selSetView               objc.SEL
	selMakeCurrentContext    objc.SEL
	selClearCurrentContext   objc.SEL
	selInitWithAttributes    objc.SEL
	selInitWithFormat        objc.SEL
	selSetValuesForParameter objc.SEL
)

// New boots Cocoa and OpenGL, keeping control of the run loop in Go.
func New(cfg Config) (Window, error) {
	runtime.LockOSThread()
	if err := ensureRuntime(); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	profile, err := profileFor(cfg)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	c := &Cocoa{running: true}
	if err := c.bootstrapApp(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.makeWindow(cfg.Title, cfg.Width, cfg.Height); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.makeGLContext(profile); err != nil {
		c.Close()
		return nil, err
	}
	c.start = time.Now()
	return c, nil
}

// profileFor maps a requested version onto the NSOpenGL profiles. macOS
// tops out at 4.1 core.
func profileFor(cfg Config) (uint32, error) {
	switch {
	case !cfg.coreProfile():
		return nsOpenGLProfileVersionLegacy, nil
	case cfg.GLMajor == 3:
		return nsOpenGLProfileVersion32Core, nil
	case cfg.GLMajor == 4 && cfg.GLMinor <= 1:
		return nsOpenGLProfileVersion41Core, nil
	}
	return 0, fmt.Errorf("OpenGL %d.%d is not available on macOS (max 4.1)", cfg.GLMajor, cfg.GLMinor)
}

func (c *Cocoa) GL() (gl.OpenGL, error) {
	resolve, err := gl.LibraryResolver()
	if err != nil {
		return nil, err
	}
	return gl.Load(resolve)
}

// Poll pumps Cocoa events once. Returns false when the window is no longer visible.
func (c *Cocoa) Poll() bool {
	if !c.running {
		return false
	}

	// Drain one slice of the run loop without blocking and pump pending NSEvents.
	cfRunLoopRunInMode(cfDefaultMode, 0, true)
	for {
		ev := objc.Send[objc.ID](c.app, selNextEventMatchingMask, nsEventMaskAny, objc.ID(0), objc.ID(cfDefaultMode), true)
		if ev == 0 {
			break
		}
		if c.handleKey(ev) {
			continue
		}
		c.app.Send(selSendEvent, ev)
	}

	if !objc.Send[bool](c.window, selIsKeyWindow) {
		c.keys.reset()
	}
	if !objc.Send[bool](c.window, selIsVisible) {
		c.running = false
	}
	return c.running
}

// handleKey records mapped key events and swallows them so AppKit does not
// beep for an unhandled keystroke.
func (c *Cocoa) handleKey(ev objc.ID) bool {
	etype := objc.Send[uint](ev, selType)
	if etype != nsEventTypeKeyDown && etype != nsEventTypeKeyUp {
		return false
	}
	key := keyFromKeyCode(objc.Send[uint16](ev, selKeyCode))
	if key == KeyUnknown {
		return false
	}
	c.keys.set(key, etype == nsEventTypeKeyDown)
	return true
}

// Swap presents the back buffer.
func (c *Cocoa) Swap() {
	if c.ctx != 0 {
		c.ctx.Send(selFlushBuffer)
	}
}

// BackingSize returns the current pixel dimensions, accounting for Retina scale.
func (c *Cocoa) BackingSize() (int, int) {
	if c.view == 0 {
		return 0, 0
	}
	bounds := objc.Send[NSRect](c.view, selBounds)
	backing := objc.Send[NSRect](c.view, selConvertRectToBacking, bounds)
	return int(backing.Size.W), int(backing.Size.H)
}

func (c *Cocoa) SetTitle(title string) {
	if c.window != 0 {
		c.window.Send(selSetTitle, nsString(title))
	}
}

func (c *Cocoa) Time() float64 {
	return time.Since(c.start).Seconds()
}

func (c *Cocoa) KeyDown(key Key) bool {
	return c.keys.down(key)
}

// Close tears down the GL context and window.
func (c *Cocoa) Close() {
	if c.ctx != 0 {
		objc.ID(objc.GetClass("NSOpenGLContext")).Send(selClearCurrentContext)
		c.ctx.Send(selRelease)
		c.ctx = 0
	}
	if c.window != 0 {
		c.window.Send(selRelease)
		c.window = 0
	}
	if c.pool != 0 {
		c.pool.Send(selRelease)
		c.pool = 0
	}
	c.running = false
	runtime.UnlockOSThread()
}

func (c *Cocoa) bootstrapApp() error {
	app := objc.ID(objc.GetClass("NSApplication")).Send(selSharedApplication)
	if app == 0 {
		return errors.New("nsapplication unavailable")
	}
	app.Send(selSetActivationPolicy, nsApplicationActivationPolicyRegular)
	app.Send(selFinishLaunching)

	pool := objc.ID(objc.GetClass("NSAutoreleasePool")).Send(selAlloc)
	pool = pool.Send(selInit)

	c.app = app
	c.pool = pool
	return nil
}

func (c *Cocoa) makeWindow(title string, width, height int) error {
	frame := NSRect{
		Origin: NSPoint{X: 100, Y: 100},
		Size:   NSSize{W: float64(width), H: float64(height)},
	}

	style := uint(nsWindowStyleTitled | nsWindowStyleClosable | nsWindowStyleMiniaturize | nsWindowStyleResizable)
	backing := uint(nsBackingStoreBuffered)

	win := objc.ID(objc.GetClass("NSWindow")).Send(selAlloc)
	win = win.Send(selInitWithContentRect, frame, style, backing, false)
	if win == 0 {
		return errors.New("failed to create nswindow")
	}

	win.Send(selCenter)
	win.Send(selSetReleasedWhenClosed, 0)
	win.Send(selSetTitle, nsString(title))
	win.Send(selMakeKeyAndOrderFront, objc.ID(0))

	c.window = win
	c.view = win.Send(selContentView)
	if c.view == 0 {
		return errors.New("window missing content view")
	}
	return nil
}

func (c *Cocoa) makeGLContext(profile uint32) error {
	attrs := []uint32{
		nsOpenGLPFAAccelerated,
		nsOpenGLPFADoubleBuffer,
		nsOpenGLPFAColorSize, 24,
		nsOpenGLPFADepthSize, 24,
		nsOpenGLPFAOpenGLProfile, profile,
		0,
	}

	pf := objc.ID(objc.GetClass("NSOpenGLPixelFormat")).Send(selAlloc)
	pf = pf.Send(selInitWithAttributes, unsafe.Pointer(&attrs[0]))
	if pf == 0 {
		return errors.New("failed to create pixel format")
	}
	defer pf.Send(selRelease)

	ctx := objc.ID(objc.GetClass("NSOpenGLContext")).Send(selAlloc)
	ctx = ctx.Send(selInitWithFormat, pf, objc.ID(0))
	if ctx == 0 {
		return errors.New("failed to create gl context")
	}

	ctx.Send(selSetView, c.view)
	ctx.Send(selMakeCurrentContext)

	// Enable vsync.
	swap := int32(1)
	ctx.Send(selSetValuesForParameter, unsafe.Pointer(&swap), nsOpenGLCPSwapInterval)

	c.ctx = ctx
	return nil
}

func keyFromKeyCode(code uint16) Key {
	switch code {
	case kVKEscape:
		return KeyEscape
	case kVK1, kVKKeypad1:
		return Key1
	case kVK2, kVKKeypad2:
		return Key2
	case kVK3, kVKKeypad3:
		return Key3
	case kVKUpArrow:
		return KeyUp
	case kVKDownArrow:
		return KeyDown
	}
	return KeyUnknown
}

func ensureRuntime() error {
	initOnce.Do(func() {
		if err := loadObjc(); err != nil {
			initErr = err
			return
		}
		loadSelectors()
	})
	return initErr
}

func loadObjc() error {
	// Load libobjc and AppKit so the symbols are available.
	if _, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_GLOBAL); err != nil {
		return err
	}
	if _, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL); err != nil {
		return err
	}
	cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}

	purego.RegisterLibFunc(&cfRunLoopRunInMode, cf, "CFRunLoopRunInMode")
	ptr, err := purego.Dlsym(cf, "kCFRunLoopDefaultMode")
	if err != nil {
		return err
	}
	// Dlsym returns the address of the CFStringRef variable; read its value.
	cfDefaultMode = *(*uintptr)(unsafe.Pointer(ptr))

	return nil
}

func loadSelectors() {
	selAlloc = objc.RegisterName("alloc")
	selInit = objc.RegisterName("init")
	selRelease = objc.RegisterName("release")
	selSharedApplication = objc.RegisterName("sharedApplication")
	selNextEventMatchingMask = objc.RegisterName("nextEventMatchingMask:untilDate:inMode:dequeue:")
	selSetActivationPolicy = objc.RegisterName("setActivationPolicy:")
	selFinishLaunching = objc.RegisterName("finishLaunching")
	selStringWithUTF8String = objc.RegisterName("stringWithUTF8String:")
	selInitWithContentRect = objc.RegisterName("initWithContentRect:styleMask:backing:defer:")
	selMakeKeyAndOrderFront = objc.RegisterName("makeKeyAndOrderFront:")
	selSetTitle = objc.RegisterName("setTitle:")
	selSetReleasedWhenClosed = objc.RegisterName("setReleasedWhenClosed:")
	selCenter = objc.RegisterName("center")
	selContentView = objc.RegisterName("contentView")
	selBounds = objc.RegisterName("bounds")
	selConvertRectToBacking = objc.RegisterName("convertRectToBacking:")
	selIsVisible = objc.RegisterName("isVisible")
	selIsKeyWindow = objc.RegisterName("isKeyWindow")
	selSendEvent = objc.RegisterName("sendEvent:")
	selType = objc.RegisterName("type")
	selKeyCode = objc.RegisterName("keyCode")
	selFlushBuffer = objc.RegisterName("flushBuffer")
	selSetView = objc.RegisterName("setView:")
	selMakeCurrentContext = objc.RegisterName("makeCurrentContext")
	selClearCurrentContext = objc.RegisterName("clearCurrentContext")
	selInitWithAttributes = objc.RegisterName("initWithAttributes:")
	selInitWithFormat = objc.RegisterName("initWithFormat:shareContext:")
	selSetValuesForParameter = objc.RegisterName("setValues:forParameter:")
}

func nsString(v string) objc.ID {
	return objc.ID(objc.GetClass("NSString")).Send(selStringWithUTF8String, v+"\x00")
}
