// Package content loads game assets from a file system. Each file extension
// maps to a resolver that turns the raw bytes into a usable value; resolved
// values are cached by key until Unload.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoResolver is returned when no resolver handles a key's extension.
	ErrNoResolver = errors.New("content: no resolver for extension")
	// ErrTypeMismatch is returned by Load when the resolved value has a
	// different type than requested.
	ErrTypeMismatch = errors.New("content: type mismatch")
)

// LoadError reports a failed asset load.
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("content: load %q: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader resolves an asset key to a value.
type Loader interface {
	Load(key string) (any, error)
}

// Load resolves key through l and asserts the result to T.
func Load[T any](l Loader, key string) (T, error) {
	var zero T
	v, err := l.Load(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &LoadError{Key: key, Err: fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, v, zero)}
	}
	return t, nil
}

// Resolver turns the contents of a file into an asset value.
type Resolver func(data []byte, key string) (any, error)

// Sound is undecoded audio data. The audio package decodes it by extension.
type Sound struct {
	Ext  string
	Data []byte
}

// YAML is a parsed YAML document waiting to be decoded into a typed value.
type YAML struct {
	node yaml.Node
}

// Decode decodes the document into v.
func (y *YAML) Decode(v any) error {
	return y.node.Decode(v)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithoutCache disables caching; every Load resolves the file again.
func WithoutCache() Option {
	return func(m *Manager) { m.caching = false }
}

// Manager loads assets from an fs.FS. It is safe for concurrent use, which
// lets shots load their content in parallel.
type Manager struct {
	fsys      fs.FS
	resolvers map[string]Resolver
	caching   bool
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]any
}

// NewManager creates a manager reading from fsys with the default resolvers
// registered: images (.png, .jpg, .jpeg), fonts (.ttf, .otf), sounds (.wav,
// .ogg, .mp3), YAML (.yaml, .yml) and plain text (.txt).
func NewManager(fsys fs.FS, opts ...Option) *Manager {
	m := &Manager{
		fsys:      fsys,
		resolvers: make(map[string]Resolver),
		caching:   true,
		logger:    slog.Default(),
		cache:     make(map[string]any),
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		m.resolvers[ext] = resolveImage
	}
	for _, ext := range []string{".ttf", ".otf"} {
		m.resolvers[ext] = resolveFont
	}
	for _, ext := range []string{".wav", ".ogg", ".mp3"} {
		m.resolvers[ext] = resolveSound
	}
	m.resolvers[".yaml"] = resolveYAML
	m.resolvers[".yml"] = resolveYAML
	m.resolvers[".txt"] = func(data []byte, _ string) (any, error) { return string(data), nil }
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds or replaces the resolver for ext (".png", ".json", ...).
func (m *Manager) Register(ext string, r Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[strings.ToLower(ext)] = r
}

// Load reads and resolves key. Cached values are returned as-is, so two
// loads of the same key yield the same instance.
func (m *Manager) Load(key string) (any, error) {
	m.mu.Lock()
	if v, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	resolve, ok := m.resolvers[strings.ToLower(path.Ext(key))]
	m.mu.Unlock()
	if !ok {
		return nil, &LoadError{Key: key, Err: ErrNoResolver}
	}

	data, err := fs.ReadFile(m.fsys, key)
	if err != nil {
		return nil, &LoadError{Key: key, Err: err}
	}
	v, err := resolve(data, key)
	if err != nil {
		return nil, &LoadError{Key: key, Err: err}
	}

	if !m.caching {
		return v, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// A concurrent load of the same key may have won; keep the first value.
	if prev, ok := m.cache[key]; ok {
		return prev, nil
	}
	m.cache[key] = v
	m.logger.Debug("content loaded", "key", key, "type", fmt.Sprintf("%T", v))
	return v, nil
}

// Open returns a reader over the raw file, bypassing resolvers and cache.
func (m *Manager) Open(key string) (io.ReadCloser, error) {
	f, err := m.fsys.Open(key)
	if err != nil {
		return nil, &LoadError{Key: key, Err: err}
	}
	return f, nil
}

// Cached reports whether key is in the cache.
func (m *Manager) Cached(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cache[key]
	return ok
}

// Unload drops every cached value, releasing GPU images.
func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.cache {
		if img, ok := v.(*ebiten.Image); ok {
			img.Deallocate()
		}
		delete(m.cache, key)
	}
}

func resolveImage(data []byte, _ string) (any, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func resolveFont(data []byte, _ string) (any, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return src, nil
}

func resolveSound(data []byte, key string) (any, error) {
	return &Sound{Ext: strings.ToLower(path.Ext(key)), Data: data}, nil
}

func resolveYAML(data []byte, _ string) (any, error) {
	doc := &YAML{}
	if err := yaml.Unmarshal(data, &doc.node); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}
