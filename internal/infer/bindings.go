package infer

import "janus/internal/types"

// Bindings maps inference variables to the types they resolved to. A variable
// binds at most once; chains of variable-to-variable bindings are followed
// iteratively with a visited guard so a malformed cycle cannot hang the
// solver.
type Bindings struct {
	in    *types.Interner
	bound map[types.TypeID]types.TypeID
}

func NewBindings(in *types.Interner) *Bindings {
	return &Bindings{in: in, bound: make(map[types.TypeID]types.TypeID)}
}

// Bind records v -> target. v must be an inference variable. Rebinding to a
// type that resolves to the same target is a no-op; a conflicting rebind
// returns false and leaves the first binding in place.
func (b *Bindings) Bind(v, target types.TypeID) bool {
	if !b.in.IsInferVar(v) {
		return false
	}
	if prev, ok := b.bound[v]; ok {
		return b.Resolve(prev) == b.Resolve(target)
	}
	if b.Resolve(target) == v {
		// would introduce a self-cycle
		return false
	}
	b.bound[v] = target
	return true
}

// Resolve follows variable bindings until it reaches a concrete type or an
// unbound variable. The returned TypeID is concrete when the chain fully
// resolved; otherwise it is the terminal unbound variable.
func (b *Bindings) Resolve(t types.TypeID) types.TypeID {
	if len(b.bound) == 0 {
		return t
	}
	var visited map[types.TypeID]struct{}
	cur := t
	for b.in.IsInferVar(cur) {
		next, ok := b.bound[cur]
		if !ok {
			return cur
		}
		if visited == nil {
			visited = map[types.TypeID]struct{}{cur: {}}
		} else if _, seen := visited[cur]; seen {
			return cur
		} else {
			visited[cur] = struct{}{}
		}
		cur = next
	}
	return cur
}

// Resolved reports whether t resolves to a concrete type.
func (b *Bindings) Resolved(t types.TypeID) bool {
	r := b.Resolve(t)
	return r != types.NoTypeID && !b.in.IsInferVar(r)
}

// Len returns the number of bound variables.
func (b *Bindings) Len() int { return len(b.bound) }
