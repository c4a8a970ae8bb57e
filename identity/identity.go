package identity

import (
	"reflect"
	"runtime"
	"strings"
	"sync"

	"typereflect/schema"
)

// Tagged is implemented by values that carry their own FQN.
// An instance tag takes precedence over a registry binding for its type.
type Tagged interface {
	ReflectFQN() string
}

// Registry binds Go types to schema FQNs. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	fqns map[reflect.Type]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{fqns: make(map[reflect.Type]string)}
}

// Default is the registry used by the package-level functions.
var Default = NewRegistry()

// Bind attaches an FQN to the type of v in the Default registry.
func Bind(v any, fqn ...string) string {
	return Default.bind(v, 2, fqn...)
}

// FQNOf returns the FQN bound to v in the Default registry.
func FQNOf(v any) string {
	return Default.FQNOf(v)
}

// TypeOf looks v up in s through the Default registry.
func TypeOf(s *schema.Schema, v any) *schema.Type {
	return Default.TypeOf(s, v)
}

// Bind attaches an FQN to the type of v and returns it.
//
// v may be a value, a pointer to a value or a reflect.Type; pointers are
// normalized to their element type. When fqn is omitted the FQN is derived
// from the caller's source file and the type name. Unnamed types cannot be
// derived and are left unbound; Bind then returns "".
func (r *Registry) Bind(v any, fqn ...string) string {
	return r.bind(v, 2, fqn...)
}

func (r *Registry) bind(v any, skip int, fqn ...string) string {
	rt := typeOf(v)
	if rt == nil {
		return ""
	}

	var name string

	switch {
	case len(fqn) > 0 && fqn[0] != "":
		name = schema.NormalizePath(fqn[0])
	case rt.Name() == "":
		return ""
	default:
		_, file, _, ok := runtime.Caller(skip)
		if !ok {
			return ""
		}

		name = DeriveFQN(file, rt.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fqns == nil {
		r.fqns = make(map[reflect.Type]string)
	}

	r.fqns[rt] = name

	return name
}

// Unbind removes the binding for the type of v.
func (r *Registry) Unbind(v any) {
	rt := typeOf(v)
	if rt == nil {
		return
	}

	r.mu.Lock()
	delete(r.fqns, rt)
	r.mu.Unlock()
}

// FQNOf returns the FQN of v: its own tag when it implements Tagged,
// otherwise the binding of its type. It returns "" when v is unbound.
func (r *Registry) FQNOf(v any) string {
	if tagged, ok := v.(Tagged); ok {
		if fqn := tagged.ReflectFQN(); fqn != "" {
			return schema.NormalizePath(fqn)
		}
	}

	rt := typeOf(v)
	if rt == nil {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.fqns[rt]
}

// TypeOf returns the schema entry for v, or nil when v is unbound or its
// FQN is not in s. Schemas relativized against a different root are
// matched by dropping leading path segments of the FQN.
func (r *Registry) TypeOf(s *schema.Schema, v any) *schema.Type {
	if s == nil {
		return nil
	}

	fqn := r.FQNOf(v)
	if fqn == "" {
		return nil
	}

	return s.LookupSuffix(fqn)
}

// DeriveFQN builds an FQN from a source location and a declared name.
// The location may be a plain path, a file:// URL or a stack-frame style
// "path:line:col" string.
func DeriveFQN(location, name string) string {
	loc := schema.NormalizePath(location)

	switch {
	case strings.HasPrefix(loc, "file:///"):
		loc = strings.TrimPrefix(loc, "file:///")
		if !hasDrive(loc) {
			loc = "/" + loc
		}
	case strings.HasPrefix(loc, "file://"):
		loc = strings.TrimPrefix(loc, "file://")
	}

	// Drop ":line:col" following the last path element.
	slash := strings.LastIndexByte(loc, '/')
	if i := strings.IndexByte(loc[slash+1:], ':'); i >= 0 {
		loc = loc[:slash+1+i]
	}

	return schema.ToFQN(name, loc)
}

// hasDrive reports whether p starts with a Windows drive letter, as in "C:/".
func hasDrive(p string) bool {
	return len(p) >= 3 && p[1] == ':' && p[2] == '/' &&
		(p[0] >= 'a' && p[0] <= 'z' || p[0] >= 'A' && p[0] <= 'Z')
}

func typeOf(v any) reflect.Type {
	var rt reflect.Type

	switch x := v.(type) {
	case nil:
		return nil
	case reflect.Type:
		rt = x
	default:
		rt = reflect.TypeOf(v)
	}

	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	return rt
}
