package builder

import (
	"fmt"

	"github.com/go-logr/logr"

	"typereflect/internal/common"
	"typereflect/internal/diagnostic"
	"typereflect/schema"
)

// BuildContext holds the state shared by the units built together: the
// front-end, the unit cache, diagnostics and the logger.
//
// A unit is built at most once per BuildContext. Units that import each
// other see the in-progress schema of the unit being built. A BuildContext
// must not be used from several goroutines; concurrent builds use one
// BuildContext each and merge afterwards.
type BuildContext struct {
	frontend    Frontend
	log         logr.Logger
	diagnostics diagnostic.Diagnostics

	units map[string]*unitBuilder
	order []string
}

// Option configures a BuildContext.
type Option func(*BuildContext)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(c *BuildContext) {
		c.log = log
	}
}

// NewContext creates a BuildContext reading units from fe.
func NewContext(fe Frontend, opts ...Option) *BuildContext {
	c := &BuildContext{
		frontend: fe,
		log:      logr.Discard(),
		units:    make(map[string]*unitBuilder),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Build returns the schema of the unit at path, building it on first use.
// The error wraps ErrUnitNotFound when the front-end has no such unit.
func (c *BuildContext) Build(path string) (*schema.Schema, error) {
	ub, err := c.load(path)
	if err != nil {
		return nil, err
	}

	return ub.schema, nil
}

// BuildUnit builds u directly, bypassing the front-end for u itself.
// Imports of u are still requested from the front-end.
func (c *BuildContext) BuildUnit(u *Unit) *schema.Schema {
	key := normalizeUnitPath(u.Path)
	if ub, ok := c.units[key]; ok {
		return ub.schema
	}

	return c.start(key, u).schema
}

// Diagnostics returns the diagnostics recorded so far.
func (c *BuildContext) Diagnostics() *diagnostic.Diagnostics {
	return &c.diagnostics
}

// Units returns the paths of the units built so far, in the order their
// builds started.
func (c *BuildContext) Units() []string {
	return append([]string(nil), c.order...)
}

func (c *BuildContext) load(path string) (*unitBuilder, error) {
	key := normalizeUnitPath(path)
	if ub, ok := c.units[key]; ok {
		return ub, nil
	}

	if c.frontend == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, path)
	}

	u, err := c.frontend.Unit(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", path, err)
	}

	// The front-end may have resolved the path, e.g. by adding an extension.
	actual := normalizeUnitPath(u.Path)
	if ub, ok := c.units[actual]; ok {
		c.units[key] = ub
		return ub, nil
	}

	ub := c.start(actual, u)
	c.units[key] = ub

	return ub, nil
}

// start registers a builder for u before building it so that import
// cycles find the unit in progress.
func (c *BuildContext) start(key string, u *Unit) *unitBuilder {
	ub := newUnitBuilder(c, key, u)
	c.units[key] = ub
	c.order = append(c.order, key)

	c.log.V(1).Info("building unit", "path", key, "decls", len(u.Decls))
	ub.build()
	c.log.V(1).Info("built unit", "path", key, "types", ub.schema.Len())

	return ub
}

func (c *BuildContext) report(d diagnostic.Diagnostic) {
	c.diagnostics.Add(d)

	kv := []any{"code", d.Code, "unit", d.Unit}
	if d.Name != "" {
		kv = append(kv, "name", d.Name)
	}

	if len(d.Suggestions) > 0 {
		kv = append(kv, "suggestions", d.Suggestions)
	}

	c.log.Info(d.Message, append(kv, "severity", d.Severity.String())...)
}

// resolvePath resolves an import specifier against the importing unit path.
func resolvePath(from, spec string) string {
	return normalizeUnitPath(common.ResolveUnitPath(from, spec))
}
