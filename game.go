package pulsar

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAlreadyRunning is returned by Run when the loop is already running.
var ErrAlreadyRunning = errors.New("pulsar: game is already running")

// ExitPolicy decides what happens once the loop has stopped and EndRun has
// completed.
type ExitPolicy uint8

const (
	ExitReturn  ExitPolicy = iota // Run returns to the caller (default)
	ExitProcess                   // the host process is terminated with ExitCode
)

// drawPass is the draw half of a tick. It is installed by RenderableGame.
type drawPass interface {
	drawFrame(t GameTime)
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for lifecycle and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithClock replaces the frame clock. Useful for deterministic tests.
func WithClock(c Clock) Option {
	return func(g *Game) { g.clock = c }
}

// WithExitFunc replaces os.Exit for the ExitProcess policy.
func WithExitFunc(fn func(code int)) Option {
	return func(g *Game) { g.exit = fn }
}

// Game drives the component lifecycle and the update loop:
//
//	BeginRun -> BeginInitialize -> Initialize -> EndInitialize -> LoadContent
//	-> Tick... -> UnloadContent -> EndRun
//
// The loop is single-threaded. Only Exit may be called from other goroutines.
type Game struct {
	// Lifecycle hooks. Any of them may be nil.
	OnBeginRun        func() error
	OnBeginInitialize func() error
	OnEndInitialize   func() error
	OnLoadContent     func() error
	OnUnloadContent   func()
	OnEndRun          func()

	// ExitPolicy is applied after EndRun on a clean shutdown.
	ExitPolicy ExitPolicy
	// ExitCode is passed to the exit func under ExitProcess.
	ExitCode int

	components ComponentCollection
	pending    []Component
	live       map[Component]struct{}
	addErr     error

	updateables  orderedList[Updateable]
	orderHandles map[Updateable]Handle
	updateBuf    []Updateable

	time          GameTime
	clock         Clock
	frameStart    time.Time
	targetElapsed time.Duration
	sleep         func(time.Duration)
	exit          func(int)

	running     bool
	initialized bool
	exiting     atomic.Bool
	mu          sync.Mutex

	draw drawPass

	logger *slog.Logger
	debug  bool
	stats  frameStats
}

// NewGame creates a Game with an empty component registry.
func NewGame(opts ...Option) *Game {
	g := &Game{
		live:         make(map[Component]struct{}),
		orderHandles: make(map[Updateable]Handle),
		clock:        systemClock{},
		sleep:        time.Sleep,
		exit:         os.Exit,
		logger:       slog.Default(),
	}
	g.updateables.order = func(u Updateable) int { return u.UpdateOrder() }
	for _, opt := range opts {
		opt(g)
	}
	g.components.Added().Subscribe(g.componentAdded)
	g.components.Removed().Subscribe(g.componentRemoved)
	return g
}

// Components returns the registry. Components may also be added through it
// directly; an Initialize error raised that way surfaces on the next Tick.
func (g *Game) Components() *ComponentCollection { return &g.components }

// Add registers a component and returns any error raised by its immediate
// initialization.
func (g *Game) Add(c Component) error {
	if err := g.components.Add(c); err != nil {
		return err
	}
	return g.takeAddErr()
}

// Remove unregisters a component. Reports whether it was registered.
func (g *Game) Remove(c Component) bool {
	return g.components.Remove(c)
}

// Time returns the timing snapshot that the next Update will receive.
func (g *Game) Time() GameTime { return g.time }

// IsRunning reports whether Run is executing.
func (g *Game) IsRunning() bool { return g.running }

// IsExiting reports whether Exit has been requested.
func (g *Game) IsExiting() bool { return g.exiting.Load() }

// Logger returns the game's logger.
func (g *Game) Logger() *slog.Logger { return g.logger }

// SetTargetElapsed enables a fixed time step: each tick is padded with sleep
// until d has elapsed. Zero disables it.
func (g *Game) SetTargetElapsed(d time.Duration) { g.targetElapsed = d }

// SetDebugMode enables per-frame timing output at debug level.
func (g *Game) SetDebugMode(enabled bool) { g.debug = enabled }

// Run initializes the game, runs the loop until Exit is called, then unloads.
// Any error from a hook, Initialize, Update or Draw stops the loop and is
// returned; UnloadContent still runs but the exit policy is not applied.
func (g *Game) Run() error {
	if g.running {
		return ErrAlreadyRunning
	}
	g.running = true
	defer func() { g.running = false }()

	if err := g.start(); err != nil {
		g.unloadContent()
		return err
	}

	for g.running && !g.exiting.Load() {
		if err := g.Tick(); err != nil {
			g.logger.Error("game loop stopped", "err", err)
			g.unloadContent()
			return err
		}
	}

	g.unloadContent()
	g.endRun()
	return nil
}

// Exit asks the loop to stop. The tick in flight completes first.
func (g *Game) Exit() {
	g.exiting.Store(true)
}

// Tick runs one loop iteration: the update pass and, for a RenderableGame,
// the draw pass. It does nothing once Exit has been called.
func (g *Game) Tick() error {
	if g.exiting.Load() {
		return nil
	}
	if err := g.takeAddErr(); err != nil {
		return err
	}

	g.beginUpdate()
	if err := g.Update(g.time); err != nil {
		return err
	}
	if g.debug {
		g.stats.updateTime = g.clock.Now().Sub(g.frameStart)
	}

	if g.draw != nil {
		g.draw.drawFrame(g.time)
	}
	g.endFrame()
	return nil
}

// Update calls Update on every enabled updateable, in update order.
func (g *Game) Update(t GameTime) error {
	g.updateBuf = g.updateables.snapshot(g.updateBuf)
	for _, u := range g.updateBuf {
		if !u.Enabled() {
			continue
		}
		if err := u.Update(t); err != nil {
			return fmt.Errorf("update %T: %w", u, err)
		}
	}
	return nil
}

// Dispose removes every component, disposing the initialized ones. Safe to
// call more than once.
func (g *Game) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.components.Clear()
}

// start runs the lifecycle up to the first tick.
func (g *Game) start() error {
	g.exiting.Store(false)
	g.logger.Info("game starting", "components", g.components.Len())

	if err := callHook(g.OnBeginRun); err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	if err := callHook(g.OnBeginInitialize); err != nil {
		return fmt.Errorf("begin initialize: %w", err)
	}
	if err := g.initialize(); err != nil {
		return err
	}
	if err := callHook(g.OnEndInitialize); err != nil {
		return fmt.Errorf("end initialize: %w", err)
	}
	if err := callHook(g.OnLoadContent); err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	return nil
}

// initialize runs Initialize on every component queued before the loop
// started, in registration order. Components queued while this runs are
// picked up by the same pass.
func (g *Game) initialize() error {
	for i := 0; i < len(g.pending); i++ {
		if err := g.initComponent(g.pending[i]); err != nil {
			g.pending = g.pending[i+1:]
			return err
		}
	}
	g.pending = g.pending[:0]
	g.initialized = true
	return nil
}

func (g *Game) initComponent(c Component) error {
	if err := c.Initialize(); err != nil {
		return fmt.Errorf("initialize %T: %w", c, err)
	}
	g.live[c] = struct{}{}
	if lc, ok := c.(ContentLoader); ok {
		if err := lc.LoadContent(); err != nil {
			return fmt.Errorf("load content %T: %w", c, err)
		}
	}
	return nil
}

func (g *Game) unloadContent() {
	if g.OnUnloadContent != nil {
		g.OnUnloadContent()
	}
}

func (g *Game) endRun() {
	if g.OnEndRun != nil {
		g.OnEndRun()
	}
	g.logger.Info("game stopped", "total", g.time.Total)
	if g.ExitPolicy == ExitProcess {
		g.exit(g.ExitCode)
	}
}

// beginUpdate restarts the frame timer.
func (g *Game) beginUpdate() {
	g.frameStart = g.clock.Now()
}

// endFrame pads the frame for a fixed time step and accumulates the frame
// duration into the next GameTime.
func (g *Game) endFrame() {
	if g.targetElapsed > 0 {
		if spent := g.clock.Now().Sub(g.frameStart); spent < g.targetElapsed {
			g.sleep(g.targetElapsed - spent)
		}
	}
	frame := g.clock.Now().Sub(g.frameStart)
	g.time = g.time.advance(frame)
	if g.debug {
		g.stats.frameTime = frame
		g.stats.updateables = len(g.updateables.items)
		g.debugLog()
	}
}

func (g *Game) takeAddErr() error {
	err := g.addErr
	g.addErr = nil
	return err
}

func (g *Game) componentAdded(c Component) {
	if g.initialized {
		if err := g.initComponent(c); err != nil && g.addErr == nil {
			g.addErr = err
		}
	} else {
		g.pending = append(g.pending, c)
	}

	if u, ok := c.(Updateable); ok {
		g.updateables.insert(u)
		g.orderHandles[u] = u.UpdateOrderChanged().Subscribe(func(int) {
			g.updateables.reposition(u)
		})
	}
	if g.debug {
		g.debugCheckComponentCount()
	}
}

func (g *Game) componentRemoved(c Component) {
	for i, p := range g.pending {
		if p == c {
			g.pending = append(g.pending[:i], g.pending[i+1:]...)
			break
		}
	}

	if u, ok := c.(Updateable); ok {
		g.updateables.remove(u)
		g.orderHandles[u].Remove()
		delete(g.orderHandles, u)
	}

	if _, ok := g.live[c]; ok {
		delete(g.live, c)
		if d, ok := c.(Disposer); ok {
			d.Dispose()
		}
	}
}

func callHook(fn func() error) error {
	if fn == nil {
		return nil
	}
	return fn()
}
