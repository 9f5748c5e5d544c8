package types

// Structural hashing over descriptors. The hash covers the discriminant and
// every kind-specific field, and only stable values: TypeIDs of already
// canonical components, interned string IDs, dimension lists. Raw pointers
// and arena slots never feed the hash, so the same structure always lands in
// the same bucket across sessions with the same creation order.

const (
	fnvOffset uint64 = 0xcbf29ce484222325
	fnvPrime  uint64 = 0x00000100000001b3
)

type hasher uint64

func newHasher() hasher { return hasher(fnvOffset) }

func (h hasher) u32(v uint32) hasher {
	x := uint64(h)
	for shift := 0; shift < 32; shift += 8 {
		x ^= uint64(byte(v >> shift))
		x *= fnvPrime
	}
	return hasher(x)
}

func (h hasher) u8(v uint8) hasher {
	x := uint64(h)
	x ^= uint64(v)
	x *= fnvPrime
	return hasher(x)
}

func (in *Interner) hashCandidate(c candidate) uint64 {
	h := newHasher().
		u8(uint8(c.t.Kind)).
		u32(uint32(c.t.Elem)).
		u32(c.t.Count)
	switch {
	case c.fn != nil:
		h = h.u32(uint32(c.fn.Result)).u32(uint32(len(c.fn.Params)))
		for _, p := range c.fn.Params {
			h = h.u32(uint32(p))
		}
	case c.st != nil:
		h = h.u32(uint32(c.st.Name)).u32(uint32(len(c.st.Fields)))
		for _, f := range c.st.Fields {
			h = h.u32(uint32(f.Name)).u32(uint32(f.Type))
		}
	case c.en != nil:
		h = h.u32(uint32(c.en.Name)).u32(uint32(len(c.en.Variants)))
		for _, v := range c.en.Variants {
			h = h.u32(uint32(v))
		}
	case c.tn != nil:
		h = h.u32(uint32(c.tn.Elem)).u8(uint8(c.tn.Space)).u32(uint32(len(c.tn.Dims)))
		for _, d := range c.tn.Dims {
			h = h.u32(d)
		}
	case c.gen != nil:
		h = h.u32(uint32(c.gen.Name)).u32(uint32(len(c.gen.Args)))
		for _, a := range c.gen.Args {
			h = h.u32(uint32(a))
		}
	}
	return uint64(h)
}
