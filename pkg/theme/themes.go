package theme

import (
	"strings"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/persist"
	"github.com/go-drift/statekit/pkg/state"
)

// DefaultKey is the store key used when WithStore is given an empty key.
const DefaultKey = "theme"

// Entry registers a theme under Key with a value for each brightness.
// Theme values are opaque to the switcher.
type Entry[T any] struct {
	Key   string
	Light T
	Dark  T
}

// Option configures a Themes switcher.
type Option func(*options)

type options struct {
	system   func() Brightness
	store    persist.Store
	key      string
	stateOps []state.Option
}

// WithSystemBrightness sets the provider consulted in ModeSystem. The
// default always reports BrightnessLight.
func WithSystemBrightness(fn func() Brightness) Option {
	return func(o *options) {
		o.system = fn
	}
}

// WithStore persists the selection in store under key.
func WithStore(store persist.Store, key string) Option {
	return func(o *options) {
		o.store = store
		o.key = key
	}
}

// WithStateOptions forwards options to the underlying container.
func WithStateOptions(opts ...state.Option) Option {
	return func(o *options) {
		o.stateOps = append(o.stateOps, opts...)
	}
}

// Themes switches between registered themes and light/dark variants.
//
// The first registered entry is the default selection, in ModeSystem. When a
// store is configured the selection is hydrated on first use; an absent or
// undecodable token leaves the default in place and writes it back. Every
// change re-encodes the selection and writes it before observers run.
type Themes[T any] struct {
	entries []Entry[T]
	index   map[string]int
	system  func() Brightness
	sel     *state.Injected[Selection]
}

// New registers entries, in order, with reg.
func New[T any](reg *state.Registry, entries []Entry[T], opts ...Option) *Themes[T] {
	errors.Must(len(entries) > 0, "theme.New", "at least one theme is required")

	o := &options{system: func() Brightness { return BrightnessLight }}
	for _, opt := range opts {
		opt(o)
	}

	t := &Themes[T]{
		entries: entries,
		index:   make(map[string]int, len(entries)),
		system:  o.system,
	}
	keys := make([]string, 0, len(entries))
	for i, e := range entries {
		errors.Must(e.Key != "" && !strings.Contains(e.Key, Separator), "theme.New", "invalid theme key "+e.Key)
		_, dup := t.index[e.Key]
		errors.Must(!dup, "theme.New", "duplicate theme key "+e.Key)
		t.index[e.Key] = i
		keys = append(keys, e.Key)
	}

	t.sel = state.Inject(reg, Selection{Key: entries[0].Key, Mode: ModeSystem}, o.stateOps...)
	if o.store != nil {
		key := o.key
		if key == "" {
			key = DefaultKey
		}
		t.sel.Persist(state.Persistence[Selection]{
			Store: o.store,
			Key:   key,
			Codec: SelectionCodec{Keys: keys},
		})
	}
	return t
}

// Keys returns the registered theme keys in registration order.
func (t *Themes[T]) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Has reports whether key is registered.
func (t *Themes[T]) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Hydrate creates the selection container, reading the store if one is
// configured. Any later read does the same implicitly.
func (t *Themes[T]) Hydrate() Selection {
	return t.sel.Value()
}

// Selection returns the current selection.
func (t *Themes[T]) Selection() Selection { return t.sel.Value() }

// Key returns the selected theme key.
func (t *Themes[T]) Key() string { return t.sel.Value().Key }

// Mode returns the selected mode.
func (t *Themes[T]) Mode() Mode { return t.sel.Value().Mode }

// Brightness returns the effective brightness.
func (t *Themes[T]) Brightness() Brightness {
	return t.sel.Value().Mode.Resolve(t.system())
}

// IsDark reports whether the effective brightness is dark.
func (t *Themes[T]) IsDark() bool { return t.Brightness() == BrightnessDark }

// Theme returns the selected theme's variant for the effective brightness.
func (t *Themes[T]) Theme() T {
	e := t.entries[t.index[t.Key()]]
	if t.IsDark() {
		return e.Dark
	}
	return e.Light
}

// Select switches to the theme registered under key, keeping the mode.
// Selecting an unregistered key panics.
func (t *Themes[T]) Select(key string) {
	errors.Must(t.Has(key), "theme.Themes.Select", "unknown theme key "+key)
	t.sel.Update(func(s Selection) Selection {
		s.Key = key
		return s
	})
}

// SetMode sets an explicit mode, or ModeSystem to follow the platform.
func (t *Themes[T]) SetMode(m Mode) {
	t.sel.Update(func(s Selection) Selection {
		s.Mode = m
		return s
	})
}

// Toggle switches to the explicit mode opposite the effective brightness.
func (t *Themes[T]) Toggle() {
	if t.IsDark() {
		t.SetMode(ModeLight)
	} else {
		t.SetMode(ModeDark)
	}
}

// SystemChanged notifies observers after the platform brightness changed.
// It has no effect unless the mode is ModeSystem.
func (t *Themes[T]) SystemChanged() {
	if t.Mode() == ModeSystem {
		t.sel.Notifier().Notify()
	}
}

// Source returns the underlying selection container, for use with the
// combinator and view-layer hooks.
func (t *Themes[T]) Source() *state.Injected[Selection] { return t.sel }
