package director

import (
	"errors"
	"fmt"
)

var (
	// ErrSceneLoading is returned by Change while a scene is still loading.
	ErrSceneLoading = errors.New("director: scene is loading")
	// ErrUnknownScene is returned by Change for an unregistered key.
	ErrUnknownScene = errors.New("director: unknown scene")
	// ErrEmptyScene is returned by Change for a scene without shots.
	ErrEmptyScene = errors.New("director: scene has no shots")
	// ErrUnknownShotType is returned when a scene names an unregistered
	// shot type.
	ErrUnknownShotType = errors.New("director: unknown shot type")
	// ErrDuplicateShotType is returned when a shot type is registered twice.
	ErrDuplicateShotType = errors.New("director: shot type already registered")
)

// Scene declares the shots of a screen, bottom to top. Shots are listed by
// the type tag they were registered under in a ShotRegistry; a tag may
// appear more than once.
type Scene struct {
	Shots []string
	// HeavyLoad hints that loading takes long enough to show a loading
	// screen. It is passed through in LoadStarted.
	HeavyLoad bool
}

// NewScene returns a scene with the given shot tags.
func NewScene(heavy bool, shots ...string) Scene {
	return Scene{Shots: shots, HeavyLoad: heavy}
}

// ShotFactory creates a fresh shot instance.
type ShotFactory func() Shot

// ShotRegistry maps shot type tags to factories.
type ShotRegistry struct {
	factories map[string]ShotFactory
}

// NewShotRegistry returns an empty registry.
func NewShotRegistry() *ShotRegistry {
	return &ShotRegistry{factories: make(map[string]ShotFactory)}
}

// Register binds tag to f.
func (r *ShotRegistry) Register(tag string, f ShotFactory) error {
	if _, ok := r.factories[tag]; ok {
		return fmt.Errorf("register %q: %w", tag, ErrDuplicateShotType)
	}
	r.factories[tag] = f
	return nil
}

// Has reports whether tag is registered.
func (r *ShotRegistry) Has(tag string) bool {
	_, ok := r.factories[tag]
	return ok
}

// New creates a shot of type tag.
func (r *ShotRegistry) New(tag string) (Shot, error) {
	f, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShotType, tag)
	}
	s := f()
	if s == nil {
		return nil, fmt.Errorf("factory %q: %w", tag, ErrNilShot)
	}
	return s, nil
}

// validate checks that every tag of s is registered.
func (r *ShotRegistry) validate(s Scene) error {
	for _, tag := range s.Shots {
		if !r.Has(tag) {
			return fmt.Errorf("%w: %q", ErrUnknownShotType, tag)
		}
	}
	return nil
}

// build creates the shots of s in declared order.
func (r *ShotRegistry) build(s Scene) ([]Shot, error) {
	shots := make([]Shot, 0, len(s.Shots))
	for _, tag := range s.Shots {
		shot, err := r.New(tag)
		if err != nil {
			return nil, err
		}
		shots = append(shots, shot)
	}
	return shots, nil
}

// LoadError reports a shot whose LoadContent failed.
type LoadError struct {
	Scene string
	Shot  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("director: scene %q: load shot %q: %v", e.Scene, e.Shot, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadStarted is emitted when a scene change begins.
type LoadStarted struct {
	Scene     string
	ShotCount int
	HeavyLoad bool
}

// LoadProgress is emitted once per loaded shot with the running count.
type LoadProgress struct {
	Loaded int
	Total  int
}

// SceneLoaded is emitted once the new shots are installed.
type SceneLoaded struct {
	Scene string
}

// LoadFailed is emitted when a shot failed to load and the change was
// abandoned.
type LoadFailed struct {
	Scene string
	Err   error
}
