package testkit

import (
	"fmt"

	"janus/internal/ast"
)

// CheckUnitInvariants runs structural sanity checks over a sealed unit:
// 1) the root is a valid node
// 2) every child reference points at an allocated node
// 3) child extents never exceed the parent's token extent ordering
func CheckUnitInvariants(u *ast.Unit) error {
	if u == nil {
		return fmt.Errorf("nil unit")
	}
	if u.Root.IsValid() && u.Node(u.Root) == nil {
		return fmt.Errorf("root %d not allocated", u.Root)
	}
	for id := ast.NodeID(1); int(id) <= u.NumNodes(); id++ {
		n := u.Node(id)
		if n == nil {
			return fmt.Errorf("node %d missing", id)
		}
		if n.ChildStart > n.ChildEnd {
			return fmt.Errorf("node %d has inverted child range [%d, %d)", id, n.ChildStart, n.ChildEnd)
		}
		for _, child := range u.Children(id) {
			if !child.IsValid() {
				continue // explicit "absent" slot
			}
			if u.Node(child) == nil {
				return fmt.Errorf("node %d references unallocated child %d", id, child)
			}
			if child >= id {
				return fmt.Errorf("node %d references forward child %d; units are built bottom-up", id, child)
			}
		}
		if n.Token.IsValid() && u.Token(n.Token) == nil {
			return fmt.Errorf("node %d references unallocated token %d", id, n.Token)
		}
	}
	return nil
}
