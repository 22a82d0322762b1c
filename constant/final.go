package constant

import "easlyc/depm"

// Provider is implemented by the nodes whose constant can back a discrete or
// an object field.
type Provider interface {
	// TryConstant returns the constant of the node if it has been resolved.
	TryConstant() (Constant, bool)
}

// FinalConstant follows the references of a constant to a terminal constant:
// discretes backed by an expression are replaced by the constant of that
// expression and objects require all their fields to be constant.  The second
// result is false if a referenced node has not been resolved yet.
func FinalConstant(c Constant) (Constant, bool) {
	return finalConstant(c, make(map[depm.Source]struct{}))
}

func finalConstant(c Constant, visiting map[depm.Source]struct{}) (Constant, bool) {
	switch v := c.(type) {
	case nil:
		return NotConstant, true
	case *Discrete:
		if v.Discrete.Value == nil {
			return v, true
		}

		return finalSource(v.Discrete.Value, visiting)
	case *Object:
		for _, field := range v.Fields {
			fc, ok := finalSource(field.Value, visiting)
			if !ok {
				return nil, false
			} else if !IsConstant(fc) {
				return NotConstant, true
			}
		}

		return v, true
	default:
		return c, true
	}
}

func finalSource(src depm.Source, visiting map[depm.Source]struct{}) (Constant, bool) {
	// a self-referencing chain has no compile-time value
	if _, ok := visiting[src]; ok {
		return NotConstant, true
	}

	p, ok := src.(Provider)
	if !ok {
		return NotConstant, true
	}

	c, ok := p.TryConstant()
	if !ok {
		return nil, false
	}

	visiting[src] = struct{}{}
	defer delete(visiting, src)

	return finalConstant(c, visiting)
}
