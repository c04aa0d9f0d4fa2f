package mesh

// AttrValue is a user attribute attached to a vertex. The set of kinds
// is closed so that the merge behavior of every attribute is decided by
// its kind once, not rediscovered per call: scalars average, vectors of
// equal length average element-wise, anything else refuses to merge.
type AttrValue interface {
	attrValue()
}

// ScalarAttr is a numeric attribute.
type ScalarAttr float64

// VectorAttr is a list-valued numeric attribute.
type VectorAttr []float64

// TextAttr is a label attribute. Labels never merge.
type TextAttr string

func (ScalarAttr) attrValue() {}
func (VectorAttr) attrValue() {}
func (TextAttr) attrValue()   {}

// MergeAttrValues combines two values of the same attribute according
// to the kind table. It returns nil when the pair cannot be merged.
func MergeAttrValues(a, b AttrValue) AttrValue {
	switch av := a.(type) {
	case ScalarAttr:
		if bv, ok := b.(ScalarAttr); ok {
			return (av + bv) / 2
		}
	case VectorAttr:
		bv, ok := b.(VectorAttr)
		if !ok || len(bv) != len(av) {
			return nil
		}
		out := make(VectorAttr, len(av))
		for i := range av {
			out[i] = (av[i] + bv[i]) / 2
		}
		return out
	}
	return nil
}

// mergeAttrs builds the attribute map for a vertex combining a and b.
// Attributes missing on either side, or whose values refuse to merge,
// are dropped.
func mergeAttrs(a, b map[string]AttrValue) map[string]AttrValue {
	out := make(map[string]AttrValue)
	for name, av := range a {
		bv, ok := b[name]
		if !ok {
			continue
		}
		if merged := MergeAttrValues(av, bv); merged != nil {
			out[name] = merged
		}
	}
	return out
}

func cloneAttrs(attrs map[string]AttrValue) map[string]AttrValue {
	out := make(map[string]AttrValue, len(attrs))
	for name, v := range attrs {
		if vec, ok := v.(VectorAttr); ok {
			out[name] = append(VectorAttr(nil), vec...)
			continue
		}
		out[name] = v
	}
	return out
}
