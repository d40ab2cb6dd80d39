// Package settings holds the tracker's user-facing configuration: the
// reminder interval and the weekday rules. A Store is created once at
// startup and handed to every component that reads or changes settings.
//
// Values persist as a single JSON object. Missing keys take their
// defaults, and a missing or corrupt file never stops the process.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tlog/internal/logging"
	"github.com/mesh-intelligence/tlog/pkg/types"
)

// FileName is the settings file created in the config directory.
const FileName = "settings.json"

// BatchKey is passed to subscribers after Update changed several keys at once.
const BatchKey = ""

// Settings errors.
var (
	ErrUnknownKey   = errors.New("unknown settings key")
	ErrInvalidValue = errors.New("invalid settings value")
)

// Store is an observable settings map backed by a JSON file.
type Store struct {
	path   string
	logger *zap.SugaredLogger

	mu     sync.Mutex
	values types.Settings
	subs   map[int]func(key string)
	nextID int
}

// New creates a Store persisting to path, holding defaults until Load.
func New(path string, logger *zap.SugaredLogger) *Store {
	return &Store{
		path:   path,
		logger: logging.OrNop(logger),
		values: types.DefaultSettings(),
		subs:   make(map[int]func(string)),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the settings file and merges it over the defaults. Any key that
// is missing or holds an invalid value keeps its default. An unreadable or
// corrupt file yields all defaults. Problems are logged, never returned.
// Subscribers are not notified.
func (s *Store) Load() types.Settings {
	loaded := types.DefaultSettings()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Infow("no settings file; using defaults", "path", s.path)
		} else {
			s.logger.Warnw("settings file unreadable; using defaults", "path", s.path, "err", err)
		}
	} else {
		for _, key := range types.SettingKeys {
			if !v.IsSet(key) {
				continue
			}
			val, err := coerce(key, v.Get(key))
			if err != nil {
				s.logger.Warnw("ignoring invalid setting", "key", key, "value", v.Get(key), "err", err)
				continue
			}
			apply(&loaded, key, val)
		}
	}

	s.mu.Lock()
	s.values = loaded
	s.mu.Unlock()
	return loaded
}

// Save writes the current settings to the backing file. Failures are logged
// and returned as a *types.PersistenceError for the caller to surface as a
// warning.
func (s *Store) Save() error {
	snapshot := s.Settings()

	v := viper.New()
	v.SetConfigType("json")
	for key, val := range snapshot.Map() {
		v.Set(key, val)
	}

	err := os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err == nil {
		err = v.WriteConfigAs(s.path)
	}
	if err != nil {
		s.logger.Warnw("failed to save settings", "path", s.path, "err", err)
		return types.Persistence("save settings", err)
	}
	s.logger.Debugw("settings saved", "path", s.path)
	return nil
}

// Settings returns a copy of the current values.
func (s *Store) Settings() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, error) {
	val, ok := s.Settings().Map()[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return val, nil
}

// Set validates and stores a single value, then notifies subscribers with
// key before returning. Strings such as "5" or "true" are converted to the
// key's type.
func (s *Store) Set(key string, value any) error {
	val, err := coerce(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	apply(&s.values, key, val)
	s.mu.Unlock()

	s.notify(key)
	return nil
}

// Update validates every entry first and applies none if any is invalid.
// Subscribers are notified once with BatchKey.
func (s *Store) Update(values map[string]any) error {
	coerced := make(map[string]any, len(values))
	for key, value := range values {
		val, err := coerce(key, value)
		if err != nil {
			return err
		}
		coerced[key] = val
	}

	s.mu.Lock()
	for key, val := range coerced {
		apply(&s.values, key, val)
	}
	s.mu.Unlock()

	s.notify(BatchKey)
	return nil
}

// Subscribe registers fn to be called after every Set or Update with the
// changed key, or BatchKey for Update. The returned func removes it.
// Subscribers run synchronously, in no particular order.
func (s *Store) Subscribe(fn func(key string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(key string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.logger.Debugw("settings changed", "key", key)
	for _, fn := range fns {
		fn(key)
	}
}

// fractional reports whether value is a float with a fractional part, which
// cast would otherwise truncate.
func fractional(value any) bool {
	switch v := value.(type) {
	case float64:
		return v != math.Trunc(v)
	case float32:
		return float64(v) != math.Trunc(float64(v))
	}
	return false
}

// coerce converts value to the type key holds and validates it.
func coerce(key string, value any) (any, error) {
	switch key {
	case types.SettingNotifyAfter:
		n, err := cast.ToIntE(value)
		if err != nil || n <= 0 || fractional(value) {
			return nil, fmt.Errorf("%w: %s must be a positive integer, got %v", ErrInvalidValue, key, value)
		}
		return n, nil
	case types.SettingNotifyUnits:
		unit, err := cast.ToStringE(value)
		unit = strings.ToLower(strings.TrimSpace(unit))
		if _, ok := types.UnitMinutesFactor[unit]; err != nil || !ok {
			return nil, fmt.Errorf("%w: %s must be %q or %q, got %v",
				ErrInvalidValue, key, types.UnitMinutes, types.UnitHours, value)
		}
		return unit, nil
	case types.SettingDisableSaturday, types.SettingDisableSunday:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean, got %v", ErrInvalidValue, key, value)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

// apply stores an already coerced value.
func apply(s *types.Settings, key string, val any) {
	switch key {
	case types.SettingNotifyAfter:
		s.NotifyAfter = val.(int)
	case types.SettingNotifyUnits:
		s.NotifyUnits = val.(string)
	case types.SettingDisableSaturday:
		s.DisableSaturday = val.(bool)
	case types.SettingDisableSunday:
		s.DisableSunday = val.(bool)
	}
}
