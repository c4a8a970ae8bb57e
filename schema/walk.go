package schema

// Slot identifies a Type-valued position in the graph.
type Slot struct {
	// Owner is the Type holding the slot; nil for top-level schema entries.
	Owner *Type
	// Key names the slot: the schema key for top-level entries, otherwise one
	// of "Types", "Extends", "Methods", "Fields", "Ins", "Outs", "Elem", "Key".
	Key string
	// Index is the position within a list slot, -1 for singular slots.
	Index int
	// Member is "Type" or "Self" for slots inside a Field or Argument.
	Member string
}

// VisitFunc is called for every occupied slot. It returns the Type that
// should occupy the slot; returning a different Type replaces it in its
// parent container and the replacement is not descended into.
type VisitFunc func(t *Type, slot Slot) *Type

// Walk visits every Type reachable from the schema mapping. Each node is
// descended into once, so cyclic graphs terminate; every slot is still
// offered to visit.
//
// Order per node: Types, Extends, Methods, Fields, Ins, Outs, then Elem and Key.
// Inside a Field the Type slot is visited before Self.
func Walk(s *Schema, visit VisitFunc) {
	w := &walker{visit: visit, seen: make(map[*Type]bool)}

	for _, k := range s.keys {
		t := s.types[k]
		if t == nil {
			continue
		}

		if r := visit(t, Slot{Key: k, Index: -1}); r != t {
			s.types[k] = r
			continue
		}

		w.node(t)
	}
}

type walker struct {
	visit VisitFunc
	seen  map[*Type]bool
}

func (w *walker) edge(slot **Type, at Slot) {
	t := *slot
	if t == nil {
		return
	}

	if r := w.visit(t, at); r != t {
		*slot = r
		return
	}

	w.node(t)
}

func (w *walker) node(t *Type) {
	if w.seen[t] {
		return
	}

	w.seen[t] = true

	w.list(t, t.Types, "Types")
	w.list(t, t.Extends, "Extends")
	w.fields(t, t.Methods, "Methods")
	w.fields(t, t.Fields, "Fields")

	for i := range t.Ins {
		w.edge(&t.Ins[i].Type, Slot{Owner: t, Key: "Ins", Index: i, Member: "Type"})
	}

	w.list(t, t.Outs, "Outs")
	w.edge(&t.Elem, Slot{Owner: t, Key: "Elem", Index: -1})
	w.edge(&t.Key, Slot{Owner: t, Key: "Key", Index: -1})
}

func (w *walker) list(owner *Type, types []*Type, key string) {
	for i := range types {
		w.edge(&types[i], Slot{Owner: owner, Key: key, Index: i})
	}
}

func (w *walker) fields(owner *Type, fields []Field, key string) {
	for i := range fields {
		w.edge(&fields[i].Type, Slot{Owner: owner, Key: key, Index: i, Member: "Type"})
		w.edge(&fields[i].Self, Slot{Owner: owner, Key: key, Index: i, Member: "Self"})
	}
}
