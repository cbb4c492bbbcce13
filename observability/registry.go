package observability

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

var registry = struct {
	sync.RWMutex
	byName map[string]Observer
}{
	byName: map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	},
}

// GetObserver returns the observer registered under name. "noop" and "slog"
// (writing to slog.Default) are always present unless replaced.
func GetObserver(name string) (Observer, error) {
	registry.RLock()
	defer registry.RUnlock()

	obs, exists := registry.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces the observer registered under name.
func RegisterObserver(name string, observer Observer) {
	registry.Lock()
	defer registry.Unlock()

	registry.byName[name] = observer
}

// Resolve turns configured observer names into one Observer. No names
// resolves to NoOpObserver and several names to a MultiObserver.
func Resolve(names ...string) (Observer, error) {
	if len(names) == 0 {
		return NoOpObserver{}, nil
	}

	resolved := make([]Observer, 0, len(names))
	for _, name := range names {
		obs, err := GetObserver(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, obs)
	}

	if len(resolved) == 1 {
		return resolved[0], nil
	}
	return NewMultiObserver(resolved...), nil
}

func Names() []string {
	registry.RLock()
	defer registry.RUnlock()

	return slices.Sorted(maps.Keys(registry.byName))
}
