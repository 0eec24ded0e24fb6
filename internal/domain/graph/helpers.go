package graph

// Helpers is the derived neighbour/ring snapshot of a molecule graph.  It is
// computed as a pure function of a Mol and never mutated afterwards; any
// structural change to the Mol requires computing a fresh snapshot.
type Helpers struct {
	// ConnAtoms[a] lists the neighbour atoms of a; ConnBonds[a] lists the
	// connecting bonds in the same order.
	ConnAtoms [][]int
	ConnBonds [][]int

	// ImplicitH[a] is the number of implicit hydrogens completing a's
	// standard valence; zero for elements without a standard valence.
	ImplicitH []int

	// Pi[a] is the number of pi electrons contributed by a's bonds
	// (bond order minus one, summed).
	Pi []int

	// RingAtom / RingBond mark ring membership; AtomRingSize and BondRingSize
	// give the size of the smallest ring through the element, 0 outside rings.
	RingAtom     []bool
	RingBond     []bool
	AtomRingSize []int
	BondRingSize []int

	// FragmentNo labels each atom with its connected-component number;
	// FragmentCount is the number of components.
	FragmentNo    []int
	FragmentCount int
}

// maxRingSize bounds the BFS ring search.  Larger cycles exist in macrocycles
// but do not influence the invariants that consume ring sizes.
const maxRingSize = 24

// ComputeHelpers derives the full snapshot for m.
func ComputeHelpers(m *Mol) *Helpers {
	n := len(m.Atoms)
	h := &Helpers{
		ConnAtoms:    make([][]int, n),
		ConnBonds:    make([][]int, n),
		ImplicitH:    make([]int, n),
		Pi:           make([]int, n),
		RingAtom:     make([]bool, n),
		RingBond:     make([]bool, len(m.Bonds)),
		AtomRingSize: make([]int, n),
		BondRingSize: make([]int, len(m.Bonds)),
		FragmentNo:   make([]int, n),
	}

	for i := range m.Bonds {
		b := &m.Bonds[i]
		h.ConnAtoms[b.Atom1] = append(h.ConnAtoms[b.Atom1], b.Atom2)
		h.ConnBonds[b.Atom1] = append(h.ConnBonds[b.Atom1], i)
		h.ConnAtoms[b.Atom2] = append(h.ConnAtoms[b.Atom2], b.Atom1)
		h.ConnBonds[b.Atom2] = append(h.ConnBonds[b.Atom2], i)
		h.Pi[b.Atom1] += b.Order - 1
		h.Pi[b.Atom2] += b.Order - 1
	}

	for i := range m.Atoms {
		h.ImplicitH[i] = implicitHydrogens(&m.Atoms[i], occupiedValence(m, h, i))
	}

	h.computeRings(m)
	h.computeFragments(m)
	return h
}

// Degree returns the number of explicit neighbours of atom.
func (h *Helpers) Degree(atom int) int {
	return len(h.ConnAtoms[atom])
}

// occupiedValence sums the bond orders at atom.
func occupiedValence(m *Mol, h *Helpers, atom int) int {
	v := 0
	for _, b := range h.ConnBonds[atom] {
		v += m.Bonds[b].Order
	}
	return v
}

// standardValence gives the neutral standard valence of common organic
// elements; 0 means "no implicit hydrogens".
func standardValence(atomicNo int) int {
	switch atomicNo {
	case 1, 9, 17, 35, 53: // H, F, Cl, Br, I
		return 1
	case 5, 7, 15: // B, N, P
		return 3
	case 6, 14: // C, Si
		return 4
	case 8, 16, 34: // O, S, Se
		return 2
	}
	return 0
}

func implicitHydrogens(a *Atom, occupied int) int {
	valence := standardValence(a.AtomicNo)
	if valence == 0 {
		return 0
	}
	// Charge shifts the valence of the common heteroatoms: N+/O+ gain a bond,
	// C-/O-/S- lose one.
	switch a.AtomicNo {
	case 5: // B
		valence += a.Charge * -1
	case 6, 14:
		if a.Charge != 0 {
			valence--
		}
	case 7, 15:
		valence += a.Charge
	case 8, 16, 34:
		valence += a.Charge
	}
	free := valence - occupied
	if free < 0 {
		return 0
	}
	return free
}

// computeRings finds, for every bond, the smallest ring through it: remove
// the bond and BFS the shortest alternative path between its terminals.
func (h *Helpers) computeRings(m *Mol) {
	n := len(m.Atoms)
	dist := make([]int, n)
	queue := make([]int, 0, n)

	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		for i := range dist {
			dist[i] = -1
		}
		dist[b.Atom1] = 0
		queue = append(queue[:0], b.Atom1)
		found := -1
		for len(queue) > 0 && found < 0 {
			a := queue[0]
			queue = queue[1:]
			if dist[a] >= maxRingSize-1 {
				break
			}
			for k, nb := range h.ConnAtoms[a] {
				if h.ConnBonds[a][k] == bi {
					continue
				}
				if dist[nb] >= 0 {
					continue
				}
				dist[nb] = dist[a] + 1
				if nb == b.Atom2 {
					found = dist[nb]
					break
				}
				queue = append(queue, nb)
			}
		}
		if found < 0 {
			continue
		}
		size := found + 1
		h.RingBond[bi] = true
		h.BondRingSize[bi] = size
		for _, a := range []int{b.Atom1, b.Atom2} {
			h.RingAtom[a] = true
			if h.AtomRingSize[a] == 0 || size < h.AtomRingSize[a] {
				h.AtomRingSize[a] = size
			}
		}
	}

	// Interior ring atoms: every atom on some smallest ring is flagged by the
	// bond pass above since ring bonds cover all ring atoms.
}

// computeFragments labels connected components by BFS in ascending order of
// the lowest atom index.
func (h *Helpers) computeFragments(m *Mol) {
	n := len(m.Atoms)
	for i := range h.FragmentNo {
		h.FragmentNo[i] = -1
	}
	frag := 0
	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if h.FragmentNo[start] >= 0 {
			continue
		}
		h.FragmentNo[start] = frag
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			a := queue[0]
			queue = queue[1:]
			for _, nb := range h.ConnAtoms[a] {
				if h.FragmentNo[nb] < 0 {
					h.FragmentNo[nb] = frag
					queue = append(queue, nb)
				}
			}
		}
		frag++
	}
	h.FragmentCount = frag
}
