package model

import "testing"

func testTree() *DiskItem {
	return &DiskItem{
		Name: "root", Path: "/root", IsDir: true, Size: 35,
		Children: []*DiskItem{
			{Name: "a.txt", Path: "/root/a.txt", Size: 10},
			{Name: "b.txt", Path: "/root/b.txt", Size: 20},
			{
				Name: "sub", Path: "/root/sub", IsDir: true, Size: 5,
				Children: []*DiskItem{
					{Name: "c.txt", Path: "/root/sub/c.txt", Size: 5},
				},
			},
		},
	}
}

func TestSumChildren(t *testing.T) {
	root := testTree()
	if got := root.SumChildren(); got != 35 {
		t.Errorf("expected 35, got %d", got)
	}
	if got := root.Size; got != root.SumChildren() {
		t.Errorf("aggregate mismatch: size=%d sum=%d", got, root.SumChildren())
	}
}

func TestItemCount(t *testing.T) {
	if got := testTree().ItemCount(); got != 5 {
		t.Errorf("expected 5 nodes, got %d", got)
	}
}

func TestFind(t *testing.T) {
	root := testTree()
	if n := root.Find("/root/sub/c.txt"); n == nil || n.Name != "c.txt" {
		t.Errorf("expected to find c.txt, got %v", n)
	}
	if n := root.Find("/root/missing"); n != nil {
		t.Errorf("expected nil for missing path, got %v", n)
	}
}

func TestMaxDepth(t *testing.T) {
	if got := testTree().MaxDepth(); got != 2 {
		t.Errorf("expected depth 2, got %d", got)
	}
	leaf := &DiskItem{Name: "f", Size: 1}
	if got := leaf.MaxDepth(); got != 0 {
		t.Errorf("expected depth 0 for leaf, got %d", got)
	}
}
