package graph

// Fragment is one connected component extracted from a parent molecule.
// AtomMap and BondMap translate fragment indices back to parent indices;
// they are freshly allocated per fragment and never alias parent state.
type Fragment struct {
	Mol     *Mol
	AtomMap []int // fragment atom index -> parent atom index
	BondMap []int // fragment bond index -> parent bond index
}

// Fragments splits m into its connected components, ordered by the lowest
// parent atom index in each.  Atom and bond attributes are copied; the parent
// is not modified.  A connected molecule yields a single fragment that is
// still an independent copy.
func Fragments(m *Mol, h *Helpers) []Fragment {
	frags := make([]Fragment, h.FragmentCount)
	atomToFrag := make([]int, len(m.Atoms)) // parent atom -> index within its fragment

	for i := range frags {
		frags[i].Mol = &Mol{
			Name:          m.Name,
			IsRacemate:    m.IsRacemate,
			IsFragment:    m.IsFragment,
			KnownParities: m.KnownParities,
		}
	}

	for a := range m.Atoms {
		f := &frags[h.FragmentNo[a]]
		atomToFrag[a] = len(f.Mol.Atoms)
		f.Mol.Atoms = append(f.Mol.Atoms, m.Atoms[a])
		f.AtomMap = append(f.AtomMap, a)
	}

	for bi := range m.Bonds {
		b := m.Bonds[bi]
		f := &frags[h.FragmentNo[b.Atom1]]
		b.Atom1 = atomToFrag[b.Atom1]
		b.Atom2 = atomToFrag[b.Atom2]
		f.Mol.Bonds = append(f.Mol.Bonds, b)
		f.BondMap = append(f.BondMap, bi)
	}

	return frags
}
