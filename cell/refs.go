package cell

// ChildRefs returns every direct child Ref of c, in canonical encoding
// order. Scalar and primitive kinds have none.
func ChildRefs(c Cell) []*Ref {
	switch v := c.(type) {
	case *StringTree:
		return v.Children
	case *BlobTree:
		return v.Children
	case *VectorLeaf:
		refs := append([]*Ref{}, v.Elements...)
		if v.Tail != nil {
			refs = append(refs, v.Tail)
		}
		return refs
	case *VectorTree:
		return v.Children
	case *MapLeaf:
		refs := make([]*Ref, 0, len(v.Entries)*2)
		for _, e := range v.Entries {
			refs = append(refs, e.Key, e.Value)
		}
		return refs
	case *MapTree:
		return v.Children
	case *Index:
		refs := make([]*Ref, 0, len(v.Children)+1)
		if v.Value != nil {
			refs = append(refs, v.Value)
		}
		refs = append(refs, v.Children...)
		return refs
	case *Record:
		return v.Fields
	case *SignedData:
		return []*Ref{v.Value}
	default:
		return nil
	}
}

// TotalRefCount returns 1 plus the count of unique descendant cells
// reachable through c's Refs (by hash), used as a structural assertion that
// a decoded graph matches the original.
func TotalRefCount(c Cell) uint64 {
	seen := map[[32]byte]bool{}
	var walk func(Cell)
	walk = func(cur Cell) {
		for _, r := range ChildRefs(cur) {
			h := r.Hash()
			if seen[h] {
				continue
			}
			seen[h] = true
			if v, ok := r.Value(); ok {
				walk(v)
			}
		}
	}
	walk(c)
	return 1 + uint64(len(seen))
}
