package typesig

// Registry accumulates TypeSignatures by StableId in first-seen order. A
// type re-registered with more precise size/alignment than its prior entry
// replaces that entry in place — its position in Signatures() does not
// change — so the same type may appear once as a field dependency (no
// layout) and once as a top-level resource (with layout) without disturbing
// registration order, which address allocation depends on (see §4.2 step 1,
// §4.3).
type Registry struct {
	order []StableId
	index map[StableId]int
	sigs  []TypeSignature
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: map[StableId]int{}}
}

// Register records sig, or refines the existing entry for the same StableId
// if sig carries layout information the existing entry lacks.
func (r *Registry) Register(sig TypeSignature) {
	if i, ok := r.index[sig.Id]; ok {
		if !r.sigs[i].HasLayout() && sig.HasLayout() {
			r.sigs[i] = sig
		}
		return
	}
	r.index[sig.Id] = len(r.order)
	r.order = append(r.order, sig.Id)
	r.sigs = append(r.sigs, sig)
}

// Signatures returns the registered TypeSignatures in first-seen order.
func (r *Registry) Signatures() []TypeSignature {
	out := make([]TypeSignature, len(r.sigs))
	copy(out, r.sigs)
	return out
}
