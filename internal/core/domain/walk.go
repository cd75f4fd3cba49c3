package domain

import (
	"maps"
	"slices"
)

// Visitor is called for every unresolved placeholder found by Walk.
// The returned value replaces the placeholder in the tree.
type Visitor func(p *Placeholder) (Value, error)

// Walk traverses v depth-first and replaces every unresolved placeholder with the
// value returned by visit. It reports whether anything was replaced.
//
// Maps are visited in sorted key order and lists in index order, so the first error
// is reproducible. The first error aborts the walk; v is returned unchanged with it.
// Modified branches are copied, unmodified subtrees are shared with the input.
func Walk(v Value, visit Visitor) (Value, bool, error) {
	switch n := v.(type) {
	case nil:
		return nil, false, nil
	case *Placeholder:
		if n == nil || n.Resolved() {
			return v, false, nil
		}
		replacement, err := visit(n)
		if err != nil {
			return v, false, err
		}
		return replacement, true, nil
	case Map:
		out, modified, err := walkMap(n, visit)
		if err != nil || !modified {
			return v, false, err
		}
		return out, true, nil
	case List:
		out, modified, err := walkList(n, visit)
		if err != nil || !modified {
			return v, false, err
		}
		return out, true, nil
	case FieldOp:
		objects, modified, err := walkList(n.Objects, visit)
		if err != nil || !modified {
			return v, false, err
		}
		return FieldOp{Op: n.Op, Objects: objects, Extra: n.Extra}, true, nil
	case Scalar, Pointer:
		return v, false, nil
	default:
		return v, false, nil
	}
}

func walkList(l List, visit Visitor) (List, bool, error) {
	var out List
	for i, elem := range l {
		next, modified, err := Walk(elem, visit)
		if err != nil {
			return l, false, err
		}
		if !modified {
			continue
		}
		if out == nil {
			out = make(List, len(l))
			copy(out, l)
		}
		out[i] = next
	}
	if out == nil {
		return l, false, nil
	}
	return out, true, nil
}

func walkMap(m Map, visit Visitor) (Map, bool, error) {
	var out Map
	for _, key := range slices.Sorted(maps.Keys(m)) {
		next, modified, err := Walk(m[key], visit)
		if err != nil {
			return m, false, err
		}
		if !modified {
			continue
		}
		if out == nil {
			out = maps.Clone(m)
		}
		out[key] = next
	}
	if out == nil {
		return m, false, nil
	}
	return out, true, nil
}
