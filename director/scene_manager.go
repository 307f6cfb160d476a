package director

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/content"
)

// SceneManager swaps the shots of a ShotManager scene by scene. Change
// returns immediately; the new shots load in parallel and are installed, in
// the order the scene declares them, by a later Update once all of them
// have loaded.
//
// Every notification is emitted from Update, on the loop goroutine.
type SceneManager struct {
	pulsar.GameComponent

	shots    *ShotManager
	registry *ShotRegistry
	loader   content.Loader
	scenes   map[string]Scene
	workers  int
	logger   *slog.Logger

	current  string
	loading  bool
	batch    *loadBatch
	reported int

	loadStarted  pulsar.Event[LoadStarted]
	loadProgress pulsar.Event[LoadProgress]
	sceneLoaded  pulsar.Event[SceneLoaded]
	loadFailed   pulsar.Event[LoadFailed]
}

// loadBatch is the bookkeeping of one scene change. The loaded set, the
// all-loaded check and the failure are guarded by mu.
type loadBatch struct {
	scene  string
	tags   []string
	shots  []Shot
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	loaded   []int // indexes into shots, in completion order
	complete bool
	err      error
}

// NewSceneManager creates a scene manager installing shots into sm, built
// through reg and loaded through loader.
func NewSceneManager(sm *ShotManager, reg *ShotRegistry, loader content.Loader, opts ...Option) *SceneManager {
	if sm == nil || reg == nil || loader == nil {
		panic("director: NewSceneManager requires a shot manager, a registry and a loader")
	}
	o := buildOptions(opts)
	return &SceneManager{
		shots:    sm,
		registry: reg,
		loader:   loader,
		scenes:   make(map[string]Scene),
		workers:  o.workers,
		logger:   o.logger,
	}
}

// Register binds key to s, replacing any previous binding.
func (m *SceneManager) Register(key string, s Scene) {
	m.scenes[key] = s
}

// Scene returns the scene bound to key.
func (m *SceneManager) Scene(key string) (Scene, bool) {
	s, ok := m.scenes[key]
	return s, ok
}

// Validate checks every registered scene against the registry.
func (m *SceneManager) Validate() error {
	for key, s := range m.scenes {
		if len(s.Shots) == 0 {
			return fmt.Errorf("scene %q: %w", key, ErrEmptyScene)
		}
		if err := m.registry.validate(s); err != nil {
			return fmt.Errorf("scene %q: %w", key, err)
		}
	}
	return nil
}

// Current returns the key of the last scene passed to a successful Change.
func (m *SceneManager) Current() string { return m.current }

// IsLoading reports whether a scene change is in progress.
func (m *SceneManager) IsLoading() bool { return m.loading }

// LoadStarted fires when a change begins.
func (m *SceneManager) LoadStarted() *pulsar.Event[LoadStarted] { return &m.loadStarted }

// LoadProgress fires once per loaded shot.
func (m *SceneManager) LoadProgress() *pulsar.Event[LoadProgress] { return &m.loadProgress }

// SceneLoaded fires once the new shots are installed.
func (m *SceneManager) SceneLoaded() *pulsar.Event[SceneLoaded] { return &m.sceneLoaded }

// LoadFailed fires when a change is abandoned because a shot failed to load.
func (m *SceneManager) LoadFailed() *pulsar.Event[LoadFailed] { return &m.loadFailed }

// Change starts loading the scene bound to key. Nothing is unloaded unless
// the scene is valid. The current shots are unloaded and removed right
// away; the new ones are installed by a later Update.
func (m *SceneManager) Change(key string) error {
	if m.loading {
		return fmt.Errorf("change %q: %w", key, ErrSceneLoading)
	}
	scene, ok := m.scenes[key]
	if !ok {
		return fmt.Errorf("change %q: %w", key, ErrUnknownScene)
	}
	if len(scene.Shots) == 0 {
		return fmt.Errorf("change %q: %w", key, ErrEmptyScene)
	}
	shots, err := m.registry.build(scene)
	if err != nil {
		return fmt.Errorf("change %q: %w", key, err)
	}

	m.loading = true
	m.shots.Clear()
	m.current = key
	m.logger.Info("scene change", "scene", key, "shots", len(shots), "heavy", scene.HeavyLoad)
	m.loadStarted.Emit(LoadStarted{Scene: key, ShotCount: len(shots), HeavyLoad: scene.HeavyLoad})

	ctx, cancel := context.WithCancel(context.Background())
	b := &loadBatch{
		scene:  key,
		tags:   scene.Shots,
		shots:  shots,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.batch = b
	m.reported = 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	go func() {
		defer close(b.done)
		defer cancel()
		for i := range b.shots {
			g.Go(func() error { return b.load(gctx, m.loader, i) })
		}
		if err := g.Wait(); err != nil {
			b.mu.Lock()
			if b.err == nil {
				b.err = err
			}
			b.mu.Unlock()
		}
	}()
	return nil
}

// load runs LoadContent for shot i and records the completion.
func (b *loadBatch) load(ctx context.Context, loader content.Loader, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.shots[i].LoadContent(ctx, loader); err != nil {
		err = &LoadError{Scene: b.scene, Shot: b.tags[i], Err: err}
		b.mu.Lock()
		if b.err == nil {
			b.err = err
		}
		b.mu.Unlock()
		return err
	}

	b.mu.Lock()
	b.loaded = append(b.loaded, i)
	b.complete = len(b.loaded) == len(b.shots)
	b.mu.Unlock()
	return nil
}

// snapshot returns the loaded count, whether every shot has loaded, and the
// first failure.
func (b *loadBatch) snapshot() (loaded int, complete bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.loaded), b.complete, b.err
}

// Update delivers load progress and, once every shot has loaded, installs
// them in declared order. A failed load is reported once the other loads
// have stopped: the loaded shots are unloaded, LoadFailed is emitted and
// the *LoadError is returned.
func (m *SceneManager) Update(pulsar.GameTime) error {
	if !m.loading {
		return nil
	}
	b := m.batch
	loaded, complete, err := b.snapshot()

	if err != nil {
		select {
		case <-b.done:
		default:
			return nil
		}
		return m.fail(b, err)
	}

	for m.reported < loaded {
		m.reported++
		m.loadProgress.Emit(LoadProgress{Loaded: m.reported, Total: len(b.shots)})
	}
	if !complete {
		return nil
	}
	return m.commit(b)
}

// commit installs the shots of b in the order the scene declares them.
func (m *SceneManager) commit(b *loadBatch) error {
	b.mu.Lock()
	ordered := make([]Shot, len(b.shots))
	for _, i := range b.loaded {
		ordered[i] = b.shots[i]
	}
	b.loaded = nil
	b.mu.Unlock()

	m.loading = false
	m.batch = nil
	if err := m.shots.install(ordered); err != nil {
		for _, s := range ordered {
			s.UnloadContent()
		}
		m.loadFailed.Emit(LoadFailed{Scene: b.scene, Err: err})
		return fmt.Errorf("install scene %q: %w", b.scene, err)
	}
	m.logger.Info("scene loaded", "scene", b.scene)
	m.sceneLoaded.Emit(SceneLoaded{Scene: b.scene})
	return nil
}

// fail unloads whatever finished loading and abandons the change.
func (m *SceneManager) fail(b *loadBatch, err error) error {
	b.mu.Lock()
	loaded := b.loaded
	b.loaded = nil
	b.mu.Unlock()

	for _, i := range loaded {
		b.shots[i].UnloadContent()
	}
	m.loading = false
	m.batch = nil
	m.logger.Warn("scene load failed", "scene", b.scene, "err", err)
	m.loadFailed.Emit(LoadFailed{Scene: b.scene, Err: err})

	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Scene: b.scene, Err: err}
}

// Wait blocks until the loaders of the current change have returned. It does
// not install anything; the next Update does.
func (m *SceneManager) Wait() {
	if m.batch != nil {
		<-m.batch.done
	}
}

// Dispose cancels an in-flight change and waits for its loaders to return.
func (m *SceneManager) Dispose() {
	b := m.batch
	if b == nil {
		return
	}
	b.cancel()
	<-b.done
	b.mu.Lock()
	loaded := b.loaded
	b.loaded = nil
	b.mu.Unlock()
	for _, i := range loaded {
		b.shots[i].UnloadContent()
	}
	m.batch = nil
	m.loading = false
}
