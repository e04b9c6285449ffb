package model

// DiskItem represents a file or directory in a scanned tree.
// A directory whose descent was cut off (depth limit or fast-mode
// estimation) carries a nil Children slice; its Size is then an
// approximation rather than an exact aggregate.
type DiskItem struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Size     int64       `json:"size"` // bytes (aggregate for dirs, direct size for files)
	IsDir    bool        `json:"is_dir"`
	Children []*DiskItem `json:"children,omitempty"`
}

// SumChildren returns the sum of the direct children's sizes.
func (n *DiskItem) SumChildren() int64 {
	var total int64
	for _, child := range n.Children {
		total += child.Size
	}
	return total
}

// ItemCount returns the number of nodes in the subtree, including n itself.
func (n *DiskItem) ItemCount() int {
	count := 1
	for _, child := range n.Children {
		count += child.ItemCount()
	}
	return count
}

// Find searches the subtree for a node by its path.
func (n *DiskItem) Find(path string) *DiskItem {
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// MaxDepth returns the longest chain of descendants below n, in edges.
func (n *DiskItem) MaxDepth() int {
	deepest := 0
	for _, child := range n.Children {
		if d := child.MaxDepth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}
