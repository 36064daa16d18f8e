package routecfg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/strada-dev/strada"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownHandler is returned when a manifest names a handler or
	// middleware the registry does not contain.
	ErrUnknownHandler = errors.New("handler not found in registry")

	// ErrUnknownStrategy is returned when a manifest names a matcher
	// strategy the engine does not implement.
	ErrUnknownStrategy = errors.New("unknown matcher strategy")
)

// Registry maps manifest handler and middleware names to handlers.
// Every name a manifest references must be present; unknown names fail
// the load, never a request.
type Registry map[string]strada.HandlerFunc

// Manifest is the YAML schema of a declarative route table.
type Manifest struct {
	// Strategies orders the matcher strategies: regexp, trie, linear,
	// simple. Empty keeps the engine default.
	Strategies []string `yaml:"strategies"`

	// StrictTrailingSlash toggles trailing-slash significance. Nil
	// keeps the engine default.
	StrictTrailingSlash *bool `yaml:"strict_trailing_slash"`

	// Middleware names registry handlers applied to every request of
	// this table, in order.
	Middleware []string `yaml:"middleware"`

	Routes []Route `yaml:"routes"`
	Groups []Group `yaml:"groups"`
	Mounts []Mount `yaml:"mounts"`
}

// Route is one manifest route entry.
type Route struct {
	// Methods lists the HTTP methods. Empty defaults to GET.
	Methods []string `yaml:"methods"`

	Path    string `yaml:"path"`
	Handler string `yaml:"handler"`

	// Middleware names per-route registry handlers, run ahead of the
	// terminal handler.
	Middleware []string `yaml:"middleware"`
}

// Group prepends a base path to its routes at compile time.
type Group struct {
	Prefix string  `yaml:"prefix"`
	Routes []Route `yaml:"routes"`
}

// Mount composes a nested manifest as a child route table under a
// prefix. The child carries its own strategies, slash policy and
// middleware.
type Mount struct {
	Prefix   string   `yaml:"prefix"`
	Manifest Manifest `yaml:"table"`
}

// Load decodes a YAML manifest and builds the route table it describes.
// Unknown YAML fields and unknown handler, middleware or strategy names
// are load-time errors.
func Load(r io.Reader, reg Registry) (*strada.Router, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("routecfg: decode manifest: %w", err)
	}
	return build(&m, reg)
}

// LoadFile reads and loads a manifest from disk.
func LoadFile(path string, reg Registry) (*strada.Router, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("routecfg: open manifest: %w", err)
	}
	defer f.Close()
	return Load(f, reg)
}

func build(m *Manifest, reg Registry) (*strada.Router, error) {
	opts, err := options(m)
	if err != nil {
		return nil, err
	}
	router := strada.New(opts...)

	if len(m.Middleware) > 0 {
		chain, err := handlerChain(reg, m.Middleware)
		if err != nil {
			return nil, err
		}
		if err := router.Use(chain...); err != nil {
			return nil, err
		}
	}

	if err := addRoutes(router, nil, m.Routes, reg); err != nil {
		return nil, err
	}

	for _, g := range m.Groups {
		group := router.Group(g.Prefix)
		if err := addRoutes(nil, group, g.Routes, reg); err != nil {
			return nil, err
		}
	}

	for _, mt := range m.Mounts {
		child, err := build(&mt.Manifest, reg)
		if err != nil {
			return nil, err
		}
		if err := router.Mount(mt.Prefix, child); err != nil {
			return nil, err
		}
	}

	return router, nil
}

func options(m *Manifest) ([]strada.Option, error) {
	var opts []strada.Option

	if len(m.Strategies) > 0 {
		kinds := make([]strada.StrategyKind, 0, len(m.Strategies))
		for _, name := range m.Strategies {
			kind, err := parseStrategy(name)
			if err != nil {
				return nil, err
			}
			kinds = append(kinds, kind)
		}
		opts = append(opts, strada.WithStrategies(kinds...))
	}

	if m.StrictTrailingSlash != nil {
		opts = append(opts, strada.WithStrictSlash(*m.StrictTrailingSlash))
	}

	return opts, nil
}

func parseStrategy(name string) (strada.StrategyKind, error) {
	switch strings.ToLower(name) {
	case "regexp":
		return strada.StrategyRegexp, nil
	case "trie":
		return strada.StrategyTrie, nil
	case "linear":
		return strada.StrategyLinear, nil
	case "simple":
		return strada.StrategySimple, nil
	default:
		return 0, fmt.Errorf("routecfg: %q: %w", name, ErrUnknownStrategy)
	}
}

// addRoutes registers routes on either a router or a group; exactly one
// of the two is non-nil.
func addRoutes(router *strada.Router, group *strada.Group, routes []Route, reg Registry) error {
	for _, rt := range routes {
		chain, err := handlerChain(reg, append(append([]string{}, rt.Middleware...), rt.Handler))
		if err != nil {
			return err
		}

		methods := methodsOf(rt)

		if group != nil {
			if err := group.On(methods, rt.Path, chain...); err != nil {
				return err
			}
			continue
		}
		if err := router.On(methods, rt.Path, chain...); err != nil {
			return err
		}
	}
	return nil
}

func handlerChain(reg Registry, names []string) ([]strada.HandlerFunc, error) {
	chain := make([]strada.HandlerFunc, 0, len(names))
	for _, name := range names {
		h, ok := reg[name]
		if !ok {
			return nil, fmt.Errorf("routecfg: %q: %w", name, ErrUnknownHandler)
		}
		chain = append(chain, h)
	}
	return chain, nil
}

func methodsOf(rt Route) []string {
	if len(rt.Methods) == 0 {
		return []string{"GET"}
	}
	methods := make([]string, len(rt.Methods))
	for i, m := range rt.Methods {
		methods[i] = strings.ToUpper(m)
	}
	return methods
}
