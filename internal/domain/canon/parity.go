package canon

import (
	"math"
	"sort"

	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// geomEps is the relative tolerance below which a signed volume or projected
// angle is treated as degenerate, yielding an unknown parity instead of an
// arbitrary one.
const geomEps = 1e-6

type vec3 struct{ x, y, z float64 }

func sub(a, b vec3) vec3 { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }

func cross(a, b vec3) vec3 {
	return vec3{a.y*b.z - a.z*b.y, a.z*b.x - a.x*b.z, a.x*b.y - a.y*b.x}
}

func dot(a, b vec3) float64 { return a.x*b.x + a.y*b.y + a.z*b.z }

func norm(a vec3) float64 { return math.Sqrt(dot(a, a)) }

// ─────────────────────────────────────────────────────────────────────────────
// Stereo center candidates
// ─────────────────────────────────────────────────────────────────────────────

// isTHCandidate reports whether atom has the element, hybridization, and
// neighbour count of a potential tetrahedral stereo center.  Distinguishable
// substituents are checked separately against the symmetry ranks.
func (c *Canonizer) isTHCandidate(atom int) bool {
	a := &c.mol.Atoms[atom]
	deg := c.h.Degree(atom)
	if c.h.Pi[atom] != 0 {
		return false
	}
	switch a.AtomicNo {
	case 6, 14: // C, Si
		return deg == 4 || (deg == 3 && c.h.ImplicitH[atom] == 1)
	case 7: // N: quaternary always, neutral only on request
		if a.Charge > 0 {
			return deg == 4 || (deg == 3 && c.h.ImplicitH[atom] == 1)
		}
		return c.opts.ConsiderNitrogenParities && deg == 3 && a.Charge == 0
	}
	return false
}

// substituentsDistinct reports whether every pair of atom's neighbours holds
// different ranks.  Implicit hydrogen (or the lone pair) is always distinct
// from explicit neighbours.
func (c *Canonizer) substituentsDistinct(atom int, ranks []int) bool {
	nbrs := c.h.ConnAtoms[atom]
	for i := 0; i < len(nbrs); i++ {
		for j := i + 1; j < len(nbrs); j++ {
			if ranks[nbrs[i]] == ranks[nbrs[j]] {
				return false
			}
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Relative parity assignment
// ─────────────────────────────────────────────────────────────────────────────

// assignParities derives relative tetrahedral and double-bond parities for
// every center whose substituents are distinct under the simple symmetry
// ranks.  When the molecule carries trusted parities (decoded identifiers),
// the stored values are adopted instead of geometry.
func (c *Canonizer) assignParities() {
	for atom := range c.mol.Atoms {
		if !c.isTHCandidate(atom) || !c.substituentsDistinct(atom, c.symSimple) {
			continue
		}
		c.thParity[atom] = c.relativeTHParity(atom)
	}
	for bond := range c.mol.Bonds {
		if !c.isEZCandidate(bond) || !c.ezSubstituentsDistinct(bond, c.symSimple) {
			continue
		}
		c.ezParity[bond] = c.relativeEZParity(bond)
	}
	c.flagRacemicBondProblems()
}

// assignPseudoParities handles centers distinguished only once stereo is part
// of the invariants: candidates whose substituents collide under simple ranks
// but separate under the parity-seeded enantiotopic ranks.  Reports whether
// any parity was added.
func (c *Canonizer) assignPseudoParities(enantio []int) bool {
	changed := false
	for atom := range c.mol.Atoms {
		if c.thParity[atom] != chem.ParityNone {
			continue
		}
		if !c.isTHCandidate(atom) || !c.substituentsDistinct(atom, enantio) {
			continue
		}
		if p := c.relativeTHParity(atom); p != chem.ParityNone {
			c.thParity[atom] = p
			c.thPseudo[atom] = true
			changed = true
		}
	}
	for bond := range c.mol.Bonds {
		if c.ezParity[bond] != chem.ParityNone {
			continue
		}
		if !c.isEZCandidate(bond) || !c.ezSubstituentsDistinct(bond, enantio) {
			continue
		}
		if p := c.relativeEZParity(bond); p != chem.ParityNone {
			c.ezParity[bond] = p
			c.ezPseudo[bond] = true
			changed = true
		}
	}
	return changed
}

// relativeTHParity computes the parity of atom from its stored value (trusted
// sources) or from geometry: 3-D coordinates when present, otherwise 2-D
// coordinates with wedge bonds supplying the depth.  Returns ParityUnknown
// when geometry is absent or degenerate.
func (c *Canonizer) relativeTHParity(atom int) chem.Parity {
	a := &c.mol.Atoms[atom]
	if a.ConfigurationUnknown {
		return chem.ParityUnknown
	}
	if c.mol.KnownParities {
		return a.Parity
	}

	wedges := c.wedgeBonds(atom)
	if len(wedges) >= 2 {
		// Contradicting wedges are an over-specification.
		first := c.thParityWithWedges(atom, wedges[:1])
		for _, w := range wedges[1:] {
			p := c.thParityWithWedges(atom, []int{w})
			if first.IsKnown() && p.IsKnown() && p != first {
				c.stereoProblem[atom] = true
				return chem.ParityUnknown
			}
		}
	}
	return c.thParityWithWedges(atom, wedges)
}

// wedgeBonds lists the up/down wedge bonds originating at atom.
func (c *Canonizer) wedgeBonds(atom int) []int {
	var out []int
	for _, bi := range c.h.ConnBonds[atom] {
		b := &c.mol.Bonds[bi]
		if b.Stereo.IsWedge() && b.Atom1 == atom {
			out = append(out, bi)
		}
	}
	return out
}

// thParityWithWedges computes the signed-volume parity of atom using only the
// given wedges for depth.  Neighbours are taken in ascending input index; an
// implicit hydrogen or lone pair acts as a fourth substituent at the center
// position.
func (c *Canonizer) thParityWithWedges(atom int, wedges []int) chem.Parity {
	m := c.mol
	nbrs := append([]int(nil), c.h.ConnAtoms[atom]...)
	sort.Ints(nbrs)

	has3D := false
	for i := range m.Atoms {
		if m.Atoms[i].Coord.Z != 0 {
			has3D = true
			break
		}
	}

	pos := make([]vec3, len(nbrs))
	scale := 0.0
	for i, nb := range nbrs {
		co := m.Atoms[nb].Coord
		pos[i] = vec3{co.X, co.Y, co.Z}
		if !has3D {
			pos[i].z = 0
			for _, wi := range wedges {
				b := &m.Bonds[wi]
				if b.Atom2 == nb {
					if b.Stereo == chem.StereoUp {
						pos[i].z = 1
					} else {
						pos[i].z = -1
					}
				}
			}
		}
		center := m.Atoms[atom].Coord
		d := norm(sub(pos[i], vec3{center.X, center.Y, center.Z}))
		if d > scale {
			scale = d
		}
	}
	if scale == 0 {
		return chem.ParityUnknown
	}
	if !has3D && len(wedges) == 0 {
		return chem.ParityUnknown
	}

	center := m.Atoms[atom].Coord
	c0 := vec3{center.X, center.Y, center.Z}

	var v float64
	switch len(nbrs) {
	case 4:
		v = dot(sub(pos[1], pos[0]), cross(sub(pos[2], pos[0]), sub(pos[3], pos[0])))
	case 3:
		// The implicit substituent sits at the center position.
		v = dot(sub(pos[0], c0), cross(sub(pos[1], c0), sub(pos[2], c0)))
	default:
		return chem.ParityUnknown
	}

	if math.Abs(v) < geomEps*scale*scale*scale {
		return chem.ParityUnknown
	}
	if v > 0 {
		return chem.Parity1
	}
	return chem.Parity2
}

// ─────────────────────────────────────────────────────────────────────────────
// Double-bond parity
// ─────────────────────────────────────────────────────────────────────────────

// smallRingLimit: double bonds in rings up to this size cannot adopt both
// geometries and are never stereogenic.
const smallRingLimit = 7

func (c *Canonizer) isEZCandidate(bond int) bool {
	b := &c.mol.Bonds[bond]
	if b.Order != 2 {
		return false
	}
	if c.h.RingBond[bond] && c.h.BondRingSize[bond] <= smallRingLimit {
		return false
	}
	return len(c.sideNeighbours(bond, b.Atom1)) >= 1 &&
		len(c.sideNeighbours(bond, b.Atom2)) >= 1
}

// sideNeighbours lists the neighbours of end excluding the double-bond
// partner, ascending by input index.
func (c *Canonizer) sideNeighbours(bond, end int) []int {
	b := &c.mol.Bonds[bond]
	other := b.Atom1
	if end == b.Atom1 {
		other = b.Atom2
	}
	var out []int
	for _, nb := range c.h.ConnAtoms[end] {
		if nb != other {
			out = append(out, nb)
		}
	}
	sort.Ints(out)
	return out
}

// ezSubstituentsDistinct reports whether each end with two substituents can
// tell them apart under the given ranks.
func (c *Canonizer) ezSubstituentsDistinct(bond int, ranks []int) bool {
	b := &c.mol.Bonds[bond]
	for _, end := range []int{b.Atom1, b.Atom2} {
		side := c.sideNeighbours(bond, end)
		if len(side) == 2 && ranks[side[0]] == ranks[side[1]] {
			return false
		}
	}
	return true
}

// relativeEZParity computes the cis/trans parity of bond with respect to the
// lowest-input-index neighbour at each end.  Parity1 means the references lie
// on the same side.  Cross markers and degenerate geometry yield
// ParityUnknown.
func (c *Canonizer) relativeEZParity(bond int) chem.Parity {
	m := c.mol
	b := &m.Bonds[bond]
	if b.Stereo == chem.StereoCross {
		return chem.ParityUnknown
	}
	if m.KnownParities {
		return b.Parity
	}

	ref1 := c.sideNeighbours(bond, b.Atom1)[0]
	ref2 := c.sideNeighbours(bond, b.Atom2)[0]

	p1 := coordOf(m, b.Atom1)
	p2 := coordOf(m, b.Atom2)
	axis := sub(p2, p1)
	axisLen := norm(axis)
	if axisLen == 0 {
		return chem.ParityUnknown
	}

	v1 := perpComponent(sub(coordOf(m, ref1), p1), axis)
	v2 := perpComponent(sub(coordOf(m, ref2), p2), axis)
	l1, l2 := norm(v1), norm(v2)
	if l1 < geomEps*axisLen || l2 < geomEps*axisLen {
		return chem.ParityUnknown
	}

	d := dot(v1, v2) / (l1 * l2)
	switch {
	case d > 0.5:
		return chem.Parity1 // cis
	case d < -0.5:
		return chem.Parity2 // trans
	}
	return chem.ParityUnknown
}

func coordOf(m *graph.Mol, atom int) vec3 {
	co := m.Atoms[atom].Coord
	return vec3{co.X, co.Y, co.Z}
}

// perpComponent removes the axis-parallel component of v.
func perpComponent(v, axis vec3) vec3 {
	al := dot(axis, axis)
	if al == 0 {
		return v
	}
	f := dot(v, axis) / al
	return sub(v, vec3{axis.x * f, axis.y * f, axis.z * f})
}

// flagRacemicBondProblems marks atoms with more than one unknown-geometry
// (cross) double bond attached.
func (c *Canonizer) flagRacemicBondProblems() {
	counts := make([]int, len(c.mol.Atoms))
	for i := range c.mol.Bonds {
		b := &c.mol.Bonds[i]
		if b.Order == 2 && b.Stereo == chem.StereoCross {
			counts[b.Atom1]++
			counts[b.Atom2]++
		}
	}
	for a, n := range counts {
		if n > 1 {
			c.stereoProblem[a] = true
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Rank-normalized parities
// ─────────────────────────────────────────────────────────────────────────────

// normalizedTH re-expresses atom's relative parity against the substituent
// ordering given by ranks instead of input indices.  The substituents of a
// perceived center hold distinct ranks, so the result is label-independent.
func (c *Canonizer) normalizedTH(atom int, ranks []int) chem.Parity {
	p := c.thParity[atom]
	if !p.IsKnown() {
		return p
	}
	nbrs := append([]int(nil), c.h.ConnAtoms[atom]...)
	sort.Ints(nbrs)
	if oddPermutation(nbrs, ranks) {
		p = p.Invert()
	}
	return p
}

// normalizedEZ re-expresses bond's relative parity against the
// lowest-ranked reference neighbour at each end.
func (c *Canonizer) normalizedEZ(bond int, ranks []int) chem.Parity {
	p := c.ezParity[bond]
	if !p.IsKnown() {
		return p
	}
	b := &c.mol.Bonds[bond]
	for _, end := range []int{b.Atom1, b.Atom2} {
		side := c.sideNeighbours(bond, end)
		if len(side) == 2 && ranks[side[0]] > ranks[side[1]] {
			p = p.Invert()
		}
	}
	return p
}

// ─────────────────────────────────────────────────────────────────────────────
// Absolute parities
// ─────────────────────────────────────────────────────────────────────────────

// assignAbsoluteParities converts relative parities into canonical-rank-ordered
// absolute parities: the parity flips when the permutation between input
// order and canonical-rank order of the substituents is odd.  The implicit
// substituent occupies the final position under both orderings and never
// contributes.
func (c *Canonizer) assignAbsoluteParities() {
	c.absTH = make([]chem.Parity, len(c.mol.Atoms))
	c.absEZ = make([]chem.Parity, len(c.mol.Bonds))

	for atom, p := range c.thParity {
		if !p.IsKnown() {
			c.absTH[atom] = p
			continue
		}
		nbrs := append([]int(nil), c.h.ConnAtoms[atom]...)
		sort.Ints(nbrs)
		if oddPermutation(nbrs, c.ranks) {
			p = p.Invert()
		}
		c.absTH[atom] = p
	}

	for bond, p := range c.ezParity {
		if !p.IsKnown() {
			c.absEZ[bond] = p
			continue
		}
		b := &c.mol.Bonds[bond]
		for _, end := range []int{b.Atom1, b.Atom2} {
			side := c.sideNeighbours(bond, end)
			if len(side) == 2 && c.ranks[side[0]] > c.ranks[side[1]] {
				// Canonical reference differs from the input-order reference.
				p = p.Invert()
			}
		}
		c.absEZ[bond] = p
	}
}

// oddPermutation reports whether sorting nbrs by rank requires an odd number
// of transpositions relative to the given (input) order.
func oddPermutation(nbrs []int, ranks []int) bool {
	inversions := 0
	for i := 0; i < len(nbrs); i++ {
		for j := i + 1; j < len(nbrs); j++ {
			if ranks[nbrs[i]] > ranks[nbrs[j]] {
				inversions++
			}
		}
	}
	return inversions%2 == 1
}

// ─────────────────────────────────────────────────────────────────────────────
// CIP descriptors
// ─────────────────────────────────────────────────────────────────────────────

// assignCIP derives R/S and E/Z descriptors.  Substituent priority is the
// pair (atomic number, canonical rank), descending, with the implicit
// substituent lowest; this deterministic reduction of the full CIP digraph
// keeps labels stable under renumbering.
func (c *Canonizer) assignCIP() {
	c.cipAtom = make([]chem.CIPLabel, len(c.mol.Atoms))
	c.cipBond = make([]chem.CIPLabel, len(c.mol.Bonds))

	for atom, p := range c.absTH {
		if !p.IsKnown() {
			continue
		}
		nbrs := append([]int(nil), c.h.ConnAtoms[atom]...)
		// Start from canonical-rank order, the basis of the absolute parity.
		sort.Slice(nbrs, func(i, j int) bool { return c.ranks[nbrs[i]] < c.ranks[nbrs[j]] })
		pri := append([]int(nil), nbrs...)
		sort.Slice(pri, func(i, j int) bool { return c.cipLess(pri[j], pri[i]) })

		sign := 1
		if p == chem.Parity2 {
			sign = -1
		}
		if oddReordering(nbrs, pri) {
			sign = -sign
		}
		if sign > 0 {
			c.cipAtom[atom] = chem.CIPR
		} else {
			c.cipAtom[atom] = chem.CIPS
		}
	}

	for bond, p := range c.absEZ {
		if !p.IsKnown() {
			continue
		}
		b := &c.mol.Bonds[bond]
		// Absolute parity references the lowest canonical rank on each side;
		// CIP references the highest priority.  Flip when they disagree.
		for _, end := range []int{b.Atom1, b.Atom2} {
			side := c.sideNeighbours(bond, end)
			if len(side) != 2 {
				continue
			}
			lowRank := side[0]
			if c.ranks[side[1]] < c.ranks[lowRank] {
				lowRank = side[1]
			}
			highPri := side[0]
			if c.cipLess(highPri, side[1]) {
				highPri = side[1]
			}
			if lowRank != highPri {
				p = p.Invert()
			}
		}
		if p == chem.Parity1 {
			c.cipBond[bond] = chem.CIPZ
		} else {
			c.cipBond[bond] = chem.CIPE
		}
	}
}

// cipLess orders atoms by ascending CIP priority.
func (c *Canonizer) cipLess(a, b int) bool {
	na, nb := c.mol.Atoms[a].AtomicNo, c.mol.Atoms[b].AtomicNo
	if na != nb {
		return na < nb
	}
	return c.ranks[a] < c.ranks[b]
}

// oddReordering reports whether transforming order a into order b needs an
// odd number of transpositions.  Both slices hold the same elements.
func oddReordering(a, b []int) bool {
	posB := make(map[int]int, len(b))
	for i, v := range b {
		posB[v] = i
	}
	perm := make([]int, len(a))
	for i, v := range a {
		perm[i] = posB[v]
	}
	inversions := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inversions++
			}
		}
	}
	return inversions%2 == 1
}
