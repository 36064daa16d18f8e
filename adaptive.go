package strada

import (
	"errors"
	"fmt"
)

// adaptiveRouter holds one lazily built instance per configured
// strategy kind. Registration offers each pattern to the strategies in
// priority order; the first acceptance assigns that pattern's strategy
// for that method, so different patterns under one method may live in
// different strategy instances.
//
// Lookup queries every instance holding entries and keeps the candidate
// with the smallest registration index, so the first-registered
// matching entry still wins across instances.
type adaptiveRouter struct {
	kinds     []StrategyKind
	instances []matcher
}

func newAdaptiveRouter(kinds []StrategyKind) *adaptiveRouter {
	return &adaptiveRouter{kinds: kinds, instances: make([]matcher, len(kinds))}
}

// register offers the entry to each strategy in order. It fails only
// when every configured strategy rejects the pattern, which is a fatal
// configuration error reported to the caller, never at request time.
func (a *adaptiveRouter) register(method string, ent *routeEntry) error {
	for i := range a.kinds {
		if a.instances[i] == nil {
			a.instances[i] = newMatcher(a.kinds[i])
		}
		err := a.instances[i].add(method, ent)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnsupportedPattern) {
			return err
		}
	}
	return fmt.Errorf("strada: no strategy in %v accepts pattern %q: %w",
		a.kinds, ent.pattern.template, ErrUnsupportedPattern)
}

func (a *adaptiveRouter) lookup(method, path string) (candidate, bool) {
	var best candidate
	found := false
	for _, inst := range a.instances {
		if inst == nil {
			continue
		}
		c, ok := inst.lookup(method, path)
		if !ok {
			continue
		}
		if !found || c.entry.index < best.entry.index {
			best, found = c, true
		}
	}
	return best, found
}
