package cell

import "testing"

func TestNewVectorSingleLeaf(t *testing.T) {
	elems := make([]*Ref, 5)
	for i := range elems {
		elems[i] = NewDirect(Long(int64(i)))
	}
	root := NewVector(elems)
	v, ok := root.Value()
	if !ok {
		t.Fatalf("expected resident value")
	}
	leaf, ok := v.(*VectorLeaf)
	if !ok {
		t.Fatalf("got %T, want *VectorLeaf", v)
	}
	if leaf.Count != 5 || len(leaf.Elements) != 5 {
		t.Fatalf("leaf = %+v, want Count=5 len(Elements)=5", leaf)
	}
}

func TestNewVectorSpillsIntoTree(t *testing.T) {
	const n = 40 // 3 leaves of <=16 under one VectorTree level
	elems := make([]*Ref, n)
	for i := range elems {
		elems[i] = NewDirect(Long(int64(i)))
	}
	root := NewVector(elems)
	v, ok := root.Value()
	if !ok {
		t.Fatalf("expected resident value")
	}
	tree, ok := v.(*VectorTree)
	if !ok {
		t.Fatalf("got %T, want *VectorTree", v)
	}
	if tree.Count != n {
		t.Fatalf("tree.Count = %d, want %d", tree.Count, n)
	}
	if tree.Shift != 4 {
		t.Fatalf("tree.Shift = %d, want 4", tree.Shift)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("len(tree.Children) = %d, want 3 (ceil(40/16))", len(tree.Children))
	}

	var total uint64
	for _, ch := range tree.Children {
		cv, ok := ch.Value()
		if !ok {
			t.Fatalf("expected resident child value")
		}
		leaf, ok := cv.(*VectorLeaf)
		if !ok {
			t.Fatalf("got %T, want *VectorLeaf child", cv)
		}
		total += leaf.Count
	}
	if total != n {
		t.Fatalf("sum of child leaf counts = %d, want %d", total, n)
	}
}

func TestNewVectorEncodeDecodeRoundTrip(t *testing.T) {
	elems := make([]*Ref, 20)
	for i := range elems {
		elems[i] = NewDirect(Long(int64(i * 2)))
	}
	root := NewVector(elems)
	v, _ := root.Value()

	enc := Encode(v)
	decoded, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if Hash(decoded) != Hash(v) {
		t.Fatalf("hash mismatch after encode/decode round trip")
	}
}
