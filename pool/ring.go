package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// Ring owns every pool and their cyclic next-pointers. In a single-process
// engine each pool is a node in an array and Next is an index into that
// array, rather than a separately deployed actor holding a peer identity.
type Ring struct {
	Pools []*Pool
}

// NewRing returns an empty ring. The first pool spliced in becomes a
// self-loop; every pool spliced in after that is inserted immediately after
// the first pool, preserving the invariant that the ring is acyclic modulo
// the anchor.
func NewRing() *Ring {
	return &Ring{}
}

// Splice inserts p into the ring and returns its index. The first pool
// spliced becomes its own next (a ring of one); every subsequent pool is
// inserted between the first pool and the first pool's previous next,
// i.e. `newPool.Next = first.Next; first.Next = newIdx`. This keeps
// the splice atomic: a single pointer swap either succeeds in full or, since
// there is no partial-write window in a synchronous call, never happens at
// all.
func (r *Ring) Splice(p *Pool) int {
	idx := len(r.Pools)
	p.ring = r
	p.self = idx
	r.Pools = append(r.Pools, p)

	if idx == 0 {
		p.Next = idx
		return idx
	}

	first := r.Pools[0]
	p.Next = first.Next
	first.Next = idx
	return idx
}

// Len reports how many pools are currently in the ring.
func (r *Ring) Len() int { return len(r.Pools) }

// At returns the pool at index i.
func (r *Ring) At(i int) *Pool { return r.Pools[i] }

// walkValuation traverses the ring from anchor.Next back to anchor,
// calling update(user) on every peer exactly once, and returns the
// saturating sum of their (icv, idv) contributions.
func (r *Ring) walkValuation(anchor int, user crypto.Address) (totalICV, totalIDV *wideint.Amount) {
	totalICV, totalIDV = wideint.FromUint64(0), wideint.FromUint64(0)
	idx := r.Pools[anchor].Next
	for idx != anchor {
		peer := r.Pools[idx]
		icv, idv := peer.Update(user)
		totalICV = wideint.AddSaturating(totalICV, icv)
		totalIDV = wideint.AddSaturating(totalIDV, idv)
		idx = peer.Next
	}
	return
}

// walkLiquidation traverses the ring from anchor.Next back to anchor,
// calling repay_or_update(user, cashOwner) on every peer exactly once, and
// returns the saturating sum of their five-tuple contributions.
func (r *Ring) walkLiquidation(anchor int, user, cashOwner crypto.Address) (totalRepaidQ, totalICV, totalIDV, totalMCV, totalMDV *wideint.Amount) {
	totalRepaidQ = wideint.FromUint64(0)
	totalICV = wideint.FromUint64(0)
	totalIDV = wideint.FromUint64(0)
	totalMCV = wideint.FromUint64(0)
	totalMDV = wideint.FromUint64(0)
	anchorAddr := r.Pools[anchor].Addr
	idx := r.Pools[anchor].Next
	for idx != anchor {
		peer := r.Pools[idx]
		repaidQ, icv, idv, mcv, mdv := peer.RepayOrUpdate(user, cashOwner, anchorAddr)
		totalRepaidQ = wideint.AddSaturating(totalRepaidQ, repaidQ)
		totalICV = wideint.AddSaturating(totalICV, icv)
		totalIDV = wideint.AddSaturating(totalIDV, idv)
		totalMCV = wideint.AddSaturating(totalMCV, mcv)
		totalMDV = wideint.AddSaturating(totalMDV, mdv)
		idx = peer.Next
	}
	return
}
