package schema

// Merge combines schemas into a fresh Schema keyed by FQN.
// Later schemas win when two define the same FQN. Types embedded by
// reference in surviving entries are not affected by losing their own key.
func Merge(schemas ...*Schema) *Schema {
	out := New()

	for _, s := range schemas {
		if s == nil {
			continue
		}

		s.Range(func(_ string, t *Type) bool {
			if t != nil {
				out.Put(t.FQN(), t)
			}

			return true
		})
	}

	return out
}
