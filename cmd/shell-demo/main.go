// Command shell-demo opens a window, drives the run loop and clears the
// screen with a color that follows the cursor. It exercises the full
// platform layer: backend selection, scale reconciliation, event
// translation and the close protocol (window close button or Ctrl+Q).
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
	_ "github.com/linden-ui/shell/backend/d3d12"
	"github.com/linden-ui/shell/backend/opengl"
	_ "github.com/linden-ui/shell/backend/vulkan"
)

var (
	backendName = pflag.String("backend", "", "surface backend to use (default: best available)")
	width       = pflag.Float64("width", 800, "logical window width")
	height      = pflag.Float64("height", 600, "logical window height")
	userScale   = pflag.Float64("scale", 1, "user scale factor")
	title       = pflag.String("title", "shell demo", "window title")
	vsync       = pflag.Bool("vsync", true, "synchronize presents to the display")
	watchDir    = pflag.String("watch", "", "directory to watch; changes trigger a refresh")
	verbose     = pflag.BoolP("verbose", "v", false, "debug logging")
)

func init() {
	// The windowing system and the GL context require the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	pflag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	winBackend, err := opengl.NewWindowBackend(log)
	if err != nil {
		return err
	}
	defer opengl.Terminate()

	desc := shell.NewWindowDescription()
	desc.Title = *title
	desc.InnerSize = shell.LogicalSize{Width: *width, Height: *height}
	desc.UserScaleFactor = *userScale
	desc.VSync = *vsync

	windows := shell.NewWindowManager(winBackend)
	win, err := windows.Open(shell.RootEntity, desc)
	if err != nil {
		return err
	}
	defer windows.Close(shell.RootEntity)

	surfaces, err := pickBackend(*backendName, log)
	if err != nil {
		return err
	}
	// GL swap intervals are set at window creation; backends that decide
	// at swap chain creation expose a setter instead.
	if v, ok := surfaces.(interface{ SetVSync(bool) }); ok {
		v.SetVSync(desc.VSync)
	}
	size := desc.InnerSize.Physical(win.ScaleFactor() * desc.UserScaleFactor)
	if err := surfaces.Create(win, size); err != nil {
		return fmt.Errorf("create surfaces (%s): %w", surfaces.Name(), err)
	}
	defer surfaces.Close()
	log.Info("backend selected", zap.String("name", surfaces.Name()))

	core := &demoCore{
		logical: desc.InnerSize,
		scale:   desc.UserScaleFactor,
		redraw:  true,
	}
	queue := shell.NewEventQueue()
	driver := shell.NewDriver(core, win, surfaces, queue,
		shell.WithLogger(log),
		shell.WithQuitAccelerator(shell.KeyQ, shell.ModCtrl),
	)
	win.(*opengl.Window).SetEventSink(driver.HandleRaw)

	if *watchDir != "" {
		watcher, err := shell.WatchAssets(queue, log, *watchDir)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	for !driver.ShouldClose() {
		opengl.PollEvents()
		if err := driver.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func pickBackend(name string, log *zap.Logger) (shell.SurfaceManager, error) {
	if name == "" {
		return shell.DefaultBackend(log)
	}
	return shell.NewBackend(name, log)
}

// demoCore is a toy UI core: it tracks the state the driver manages and
// clears the screen with a color derived from the cursor position. Draw
// runs between Acquire and Present, so GL calls are valid here when the
// OpenGL backend is active.
type demoCore struct {
	logical shell.LogicalSize
	scale   float64
	physW   float32
	physH   float32
	mods    shell.Modifiers

	cursorX float32
	cursorY float32
	pending []shell.Event
	redraw  bool
}

func (c *demoCore) InjectEvent(ev shell.Event) {
	c.pending = append(c.pending, ev)
}

func (c *demoCore) ProcessEvents() {
	for _, ev := range c.pending {
		switch e := ev.(type) {
		case shell.MouseMove:
			c.cursorX, c.cursorY = e.X, e.Y
			c.redraw = true
		case shell.Refresh:
			c.redraw = true
		}
	}
	c.pending = c.pending[:0]
}

func (c *demoCore) LogicalSize() shell.LogicalSize        { return c.logical }
func (c *demoCore) SetLogicalSize(size shell.LogicalSize) { c.logical = size }
func (c *demoCore) UserScaleFactor() float64              { return c.scale }
func (c *demoCore) SetScaleFactor(factor float64)         {}
func (c *demoCore) SetPhysicalSize(w, h float32)          { c.physW, c.physH = w, h }
func (c *demoCore) Modifiers() shell.Modifiers            { return c.mods }
func (c *demoCore) SetModifiers(mods shell.Modifiers)     { c.mods = mods }
func (c *demoCore) SetSurfaces(pair shell.SurfacePair)    {}
func (c *demoCore) ProcessStyleUpdates()                  {}
func (c *demoCore) ProcessAnimations()                    {}
func (c *demoCore) ProcessVisualUpdates()                 {}
func (c *demoCore) RedrawRequested() bool                 { return c.redraw }
func (c *demoCore) NeedsRefresh()                         { c.redraw = true }
func (c *demoCore) SetCurrent(e shell.Entity)             {}

func (c *demoCore) Draw() {
	r, g := float32(0.1), float32(0.1)
	if c.physW > 0 {
		r = c.cursorX / c.physW
	}
	if c.physH > 0 {
		g = c.cursorY / c.physH
	}
	gl.Viewport(0, 0, int32(c.physW), int32(c.physH))
	gl.ClearColor(r, g, 0.25, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	c.redraw = false
}
