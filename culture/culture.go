// Package culture loads language files and translates UI text.
package culture

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/phanxgames/pulsar"
	"github.com/phanxgames/pulsar/config"
	"github.com/phanxgames/pulsar/content"
)

var (
	ErrAlreadyInitialized  = errors.New("culture: already initialized")
	ErrNoDefaultCulture    = errors.New("culture: game configuration has no culture")
	ErrNoLanguage          = errors.New("culture: no language loaded")
	ErrFunctionNotFound    = errors.New("culture: function not found")
	ErrTranslationNotFound = errors.New("culture: translation not found")
)

// Translation is one translated string.
type Translation struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Function groups the translations of one screen or feature.
type Function struct {
	Key          string        `yaml:"key"`
	Translations []Translation `yaml:"translations"`
}

// Language is the content of a language file.
type Language struct {
	Name      string     `yaml:"name"`
	Key       string     `yaml:"key"`
	Functions []Function `yaml:"functions"`
}

// Equal reports whether l and o carry the same translations.
func (l *Language) Equal(o *Language) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.Key == o.Key && l.Name == o.Name &&
		slices.EqualFunc(l.Functions, o.Functions, func(a, b Function) bool {
			return a.Key == b.Key && slices.Equal(a.Translations, b.Translations)
		})
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithDir sets the content directory language files live in.
func WithDir(dir string) Option {
	return func(m *Manager) { m.dir = dir }
}

// WithExtension sets the language file extension, ".yaml" by default.
func WithExtension(ext string) Option {
	return func(m *Manager) { m.ext = ext }
}

// Manager holds the current language.
type Manager struct {
	loader      content.Loader
	dir         string
	ext         string
	logger      *slog.Logger
	initialized bool
	current     *Language

	languageChanged pulsar.Event[*Language]
}

// NewManager creates a manager loading language files through l.
func NewManager(l content.Loader, opts ...Option) *Manager {
	m := &Manager{loader: l, dir: "culture", ext: ".yaml", logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads the culture named by the game configuration.
func (m *Manager) Initialize(g config.Game) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	if g.Culture == "" {
		return ErrNoDefaultCulture
	}
	if err := m.ChangeLanguage(g.Culture); err != nil {
		return fmt.Errorf("initialize culture: %w", err)
	}
	m.initialized = true
	return nil
}

// Follow changes language whenever the culture of the game configuration
// changes. Failures are logged and leave the current language in place.
func (m *Manager) Follow(cfg *config.Manager) pulsar.Handle {
	return cfg.GameChanged().Subscribe(func(g config.Game) {
		if g.Culture == "" || (m.current != nil && g.Culture == m.current.Key) {
			return
		}
		if err := m.ChangeLanguage(g.Culture); err != nil {
			m.logger.Warn("language change failed", "culture", g.Culture, "err", err)
		}
	})
}

// Current returns the loaded language, or nil.
func (m *Manager) Current() *Language { return m.current }

// LanguageChanged fires with the new language after ChangeLanguage replaced
// it.
func (m *Manager) LanguageChanged() *pulsar.Event[*Language] { return &m.languageChanged }

// ChangeLanguage loads the language file of code. Loading the language
// already in place is a no-op.
func (m *Manager) ChangeLanguage(code string) error {
	key := code + m.ext
	if m.dir != "" {
		key = m.dir + "/" + key
	}
	doc, err := content.Load[*content.YAML](m.loader, key)
	if err != nil {
		return err
	}
	lang := new(Language)
	if err := doc.Decode(lang); err != nil {
		return fmt.Errorf("decode language %q: %w", key, err)
	}
	if lang.Key == "" {
		lang.Key = code
	}
	if lang.Equal(m.current) {
		return nil
	}
	m.current = lang
	m.logger.Info("language changed", "culture", lang.Key, "name", lang.Name)
	m.languageChanged.Emit(lang)
	return nil
}

// Function returns the translations of the function key.
func (m *Manager) Function(key string) ([]Translation, error) {
	if m.current == nil {
		return nil, ErrNoLanguage
	}
	for _, f := range m.current.Functions {
		if f.Key == key {
			return f.Translations, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, key)
}

// Translate returns the first translation of key across every function.
func (m *Manager) Translate(key string) (string, error) {
	if m.current == nil {
		return "", ErrNoLanguage
	}
	for _, f := range m.current.Functions {
		for _, t := range f.Translations {
			if t.Key == key {
				return t.Value, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrTranslationNotFound, key)
}

// T is Translate falling back to the key itself.
func (m *Manager) T(key string) string {
	s, err := m.Translate(key)
	if err != nil {
		return key
	}
	return s
}

// Lookup finds key in a function's translations.
func Lookup(ts []Translation, key string) (string, bool) {
	for _, t := range ts {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}
