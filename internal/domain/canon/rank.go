package canon

import (
	"sort"

	"github.com/turtacn/MolCanon/internal/domain/graph"
)

// baseInvariants packs the intrinsic, order-independent attributes of every
// atom: atomic number, isotope mass, charge, degree, hydrogen count, pi
// count, and smallest ring size.  Input indices never contribute.
func (c *Canonizer) baseInvariants() []uint64 {
	m, h := c.mol, c.h
	inv := make([]uint64, len(m.Atoms))
	for i := range m.Atoms {
		a := &m.Atoms[i]
		v := uint64(a.AtomicNo) << 40
		v |= uint64(a.Mass&0xff) << 32
		v |= uint64(a.Charge+32) << 24
		v |= uint64(h.Degree(i)&0xf) << 20
		v |= uint64(h.ImplicitH[i]&0xf) << 16
		v |= uint64(h.Pi[i]&0xf) << 12
		v |= uint64(h.AtomRingSize[i] & 0x3f)
		inv[i] = v
	}
	return inv
}

// paritySeed packs the stereo-derived attributes that distinguish atoms in
// the finer granularity modes: the atom's parity normalized to the given
// symmetry ranks (relative parities depend on input labels and must never
// feed a label-independent invariant), its pseudo flag, its ESR type, the
// explicit configuration-unknown marker, and the multiset of incident
// double-bond parities, likewise normalized.
func (c *Canonizer) paritySeed(normRanks []int) []uint64 {
	m := c.mol
	seed := make([]uint64, len(m.Atoms))
	for i := range m.Atoms {
		a := &m.Atoms[i]
		v := uint64(c.normalizedTH(i, normRanks)) << 10
		if c.thPseudo[i] {
			v |= 1 << 9
		}
		v |= uint64(a.ESR.Type) << 7
		if a.ConfigurationUnknown {
			v |= 1 << 6
		}
		seed[i] = v
	}
	for bi := range m.Bonds {
		p := c.normalizedEZ(bi, normRanks)
		if p == 0 {
			continue
		}
		// Two bits per parity value; bonded atoms rarely carry more than
		// three stereo double bonds.
		shift := uint(2 * (p - 1))
		b := &m.Bonds[bi]
		seed[b.Atom1] += 1 << shift
		seed[b.Atom2] += 1 << shift
	}
	return seed
}

// invertTHSeed flips the tetrahedral parity contribution of every seed,
// producing the seed of the mirror molecule.  Reflection inverts all
// tetrahedral configurations, pseudo-asymmetric ones included; only
// double-bond (cis/trans) parities are mirror-invariant and stay untouched.
func invertTHSeed(seed []uint64) []uint64 {
	out := make([]uint64, len(seed))
	for i, v := range seed {
		switch (v >> 10) & 3 {
		case 1:
			v = v&^(uint64(3)<<10) | 2<<10
		case 2:
			v = v&^(uint64(3)<<10) | 1<<10
		}
		out[i] = v
	}
	return out
}

// refine performs Morgan-style partition refinement.  Atoms start in classes
// ordered by (base, seed) and are repeatedly re-ranked by their own class
// plus the sorted multiset of (neighbour class, bond order) codes until the
// class count stops growing.  Returned ranks are dense and 1-based; equal
// rank means indistinguishable under the seeded invariants.
func refine(m *graph.Mol, h *graph.Helpers, base, seed []uint64) []int {
	n := len(base)
	if n == 0 {
		return nil
	}

	ranks := rankByPairs(base, seed)
	for {
		keys := make([][]int, n)
		for a := 0; a < n; a++ {
			key := make([]int, 0, 1+len(h.ConnAtoms[a]))
			key = append(key, ranks[a])
			codes := make([]int, len(h.ConnAtoms[a]))
			for k, nb := range h.ConnAtoms[a] {
				order := m.Bonds[h.ConnBonds[a][k]].Order
				codes[k] = ranks[nb]*4 + order
			}
			sort.Ints(codes)
			keys[a] = append(key, codes...)
		}
		next := rankByKeys(keys)
		if classCount(next) == classCount(ranks) {
			return next
		}
		ranks = next
	}
}

// rankByPairs assigns dense 1-based ranks ordered by (base, seed).
func rankByPairs(base, seed []uint64) []int {
	n := len(base)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	less := func(a, b int) bool {
		if base[a] != base[b] {
			return base[a] < base[b]
		}
		if seed == nil {
			return false
		}
		return seed[a] < seed[b]
	}
	sort.Slice(idx, func(i, j int) bool { return less(idx[i], idx[j]) })

	ranks := make([]int, n)
	rank := 1
	for i, a := range idx {
		if i > 0 && less(idx[i-1], a) {
			rank++
		}
		ranks[a] = rank
	}
	return ranks
}

// rankByKeys assigns dense 1-based ranks ordered lexicographically by key.
func rankByKeys(keys [][]int) []int {
	n := len(keys)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return lessIntSlice(keys[idx[i]], keys[idx[j]])
	})

	ranks := make([]int, n)
	rank := 1
	for i, a := range idx {
		if i > 0 && lessIntSlice(keys[idx[i-1]], keys[a]) {
			rank++
		}
		ranks[a] = rank
	}
	return ranks
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func classCount(ranks []int) int {
	max := 0
	for _, r := range ranks {
		if r > max {
			max = r
		}
	}
	return max
}

// diastereotopicRanks ranks atoms by the unordered pair of their enantiotopic
// rank and their rank in the mirror molecule.  Enantiotopic atoms map onto
// each other under reflection and therefore share a pair; diastereotopic
// atoms do not.
func diastereotopicRanks(m *graph.Mol, h *graph.Helpers, base, seed []uint64) []int {
	r1 := refine(m, h, base, seed)
	r2 := refine(m, h, base, invertTHSeed(seed))

	keys := make([][]int, len(r1))
	for i := range r1 {
		lo, hi := r1[i], r2[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		keys[i] = []int{lo, hi}
	}
	return rankByKeys(keys)
}

// canonicalRanks resolves the remaining automorphic ties of the enantiotopic
// partition into a total order: the lowest-input-index atom of the lowest
// tied class is promoted to its own class and refinement resumes, until every
// atom holds a distinct rank.  Tied atoms are automorphic under the seeded
// invariants, so the promotion choice selects a representative without
// affecting canonical equality.
func (c *Canonizer) canonicalRanks(base, seed []uint64) []int {
	m, h := c.mol, c.h
	n := len(base)
	ranks := refine(m, h, base, seed)

	for classCount(ranks) < n {
		chosen := lowestTiedAtom(ranks)
		sub := make([]uint64, n)
		for i, r := range ranks {
			sub[i] = uint64(r) * 2
		}
		sub[chosen]--
		ranks = refine(m, h, sub, nil)
	}
	return ranks
}

// lowestTiedAtom returns the lowest input index among members of the lowest
// rank value held by two or more atoms.
func lowestTiedAtom(ranks []int) int {
	counts := make(map[int]int, len(ranks))
	for _, r := range ranks {
		counts[r]++
	}
	bestRank := -1
	for r, c := range counts {
		if c >= 2 && (bestRank < 0 || r < bestRank) {
			bestRank = r
		}
	}
	for i, r := range ranks {
		if r == bestRank {
			return i
		}
	}
	return -1
}
