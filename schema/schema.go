package schema

// Schema maps fully-qualified names to types.
// Iteration follows insertion order; overwriting a key keeps its position.
// The zero value is an empty Schema ready to use.
type Schema struct {
	types map[string]*Type
	keys  []string
}

// New creates a new empty Schema.
func New() *Schema {
	return &Schema{
		types: make(map[string]*Type),
	}
}

// Put registers t under key, overwriting any previous entry.
func (s *Schema) Put(key string, t *Type) {
	if s.types == nil {
		s.types = make(map[string]*Type)
	}

	if _, ok := s.types[key]; !ok {
		s.keys = append(s.keys, key)
	}

	s.types[key] = t
}

// Lookup returns the Type registered under key, or nil if not found.
func (s *Schema) Lookup(key string) *Type {
	return s.types[key]
}

// Has returns true if key is registered.
func (s *Schema) Has(key string) bool {
	_, ok := s.types[key]
	return ok
}

// Len returns the number of registered keys.
func (s *Schema) Len() int {
	return len(s.keys)
}

// Keys returns the registered keys in insertion order.
func (s *Schema) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (s *Schema) Range(fn func(key string, t *Type) bool) {
	for _, k := range s.keys {
		if !fn(k, s.types[k]) {
			return
		}
	}
}

// All returns every registered Type in insertion order.
// A Type registered under several keys appears once per key.
func (s *Schema) All() []*Type {
	out := make([]*Type, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.types[k])
	}

	return out
}

// Exports returns the registered types whose visibility is exported, once
// per key like All.
func (s *Schema) Exports() []*Type {
	var out []*Type

	for _, k := range s.keys {
		if t := s.types[k]; t != nil && t.Visibility == VisibilityExported {
			out = append(out, t)
		}
	}

	return out
}

// GetTypeByName returns the first Type whose Name equals name.
// Short names are not unique; callers needing every match should use
// GetTypesByName.
func (s *Schema) GetTypeByName(name string) *Type {
	for _, k := range s.keys {
		if t := s.types[k]; t != nil && t.Name == name {
			return t
		}
	}

	return nil
}

// GetTypesByName returns every Type whose Name equals name.
func (s *Schema) GetTypesByName(name string) []*Type {
	var out []*Type

	for _, k := range s.keys {
		if t := s.types[k]; t != nil && t.Name == name {
			out = append(out, t)
		}
	}

	return out
}

// LookupSuffix looks fqn up directly and, when absent, retries with leading
// path segments removed one at a time. It tolerates schemas whose keys were
// relativized while fqn is still absolute.
func (s *Schema) LookupSuffix(fqn string) *Type {
	if t := s.types[fqn]; t != nil {
		return t
	}

	for _, partial := range suffixes(fqn) {
		if t := s.types[partial]; t != nil {
			return t
		}

		if t := s.types["/"+partial]; t != nil {
			return t
		}
	}

	return nil
}

// ExportsOnly returns a new Schema holding only the exported entries.
// Non-exported types stay reachable through the references of exported ones.
func (s *Schema) ExportsOnly() *Schema {
	out := New()

	for _, k := range s.keys {
		if t := s.types[k]; t != nil && t.Visibility == VisibilityExported {
			out.Put(k, t)
		}
	}

	return out
}
