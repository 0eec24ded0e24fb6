// Package graph implements the raw molecule graph store: dense, zero-based
// atom and bond slices with an explicit mutation API.  All structural state
// lives here; derived data (neighbour tables, rings, parities, ranks) is
// computed functionally by this package's Helpers snapshot and by the
// canonicalizer, never cached inside Mol itself.
package graph

import (
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// Atom is one atom of the molecule graph.
type Atom struct {
	AtomicNo int
	Charge   int
	Mass     int // 0 means natural abundance
	Coord    chem.Coord

	// Parity is the tetrahedral configuration relative to the atom's
	// neighbours in input order.  It is derived state written by the
	// canonicalizer; ParityPseudo marks centers distinguished only by the
	// configuration of other centers (meso situations).
	Parity       chem.Parity
	ParityPseudo bool

	// ConfigurationUnknown marks the atom as an explicitly undefined stereo
	// center, set by the source rather than derived.
	ConfigurationUnknown bool

	ESR chem.ESR

	// CIP is the Cahn-Ingold-Prelog descriptor, derived state.
	CIP chem.CIPLabel

	// StereoProblem flags an over-specified, under-specified, or otherwise
	// contradictory center.  Set during parity assignment, reported by
	// validation.
	StereoProblem bool
}

// Bond is one bond of the molecule graph.  Atom1 is the wedge origin when
// Stereo is an up or down wedge.
type Bond struct {
	Atom1  int
	Atom2  int
	Order  int
	Stereo chem.BondStereo

	// Parity is the E/Z configuration relative to the input ordering of the
	// reference neighbours; derived state like Atom.Parity.
	Parity       chem.Parity
	ParityPseudo bool

	CIP chem.CIPLabel
}

// Mol is the raw molecule graph.  Mol performs no caching and no derived-data
// bookkeeping; the stereochemistry-aware container in the molecule package
// wraps it with a helper-validity state machine.  A Mol must not be mutated
// concurrently.
type Mol struct {
	Name  string
	Atoms []Atom
	Bonds []Bond

	// IsRacemate marks the molecule as representing the racemate of the drawn
	// structure.  The flag is source-provided and is consumed by racemate
	// resolution during canonicalization.
	IsRacemate bool

	// IsFragment marks a substructure query fragment.
	IsFragment bool

	// KnownParities marks atom and bond parities as trusted source data
	// rather than derived state, as on molecules reconstructed from a
	// canonical identifier, which carry no geometry.  The canonicalizer then
	// adopts the stored parities instead of deriving them from coordinates.
	KnownParities bool
}

// New returns an empty molecule with capacity hints.
func New(atoms, bonds int) *Mol {
	return &Mol{
		Atoms: make([]Atom, 0, atoms),
		Bonds: make([]Bond, 0, bonds),
	}
}

// AtomCount returns the number of atoms.
func (m *Mol) AtomCount() int { return len(m.Atoms) }

// BondCount returns the number of bonds.
func (m *Mol) BondCount() int { return len(m.Bonds) }

// AddAtom appends an atom with the given atomic number and returns its index.
func (m *Mol) AddAtom(atomicNo int) int {
	m.Atoms = append(m.Atoms, Atom{AtomicNo: atomicNo})
	return len(m.Atoms) - 1
}

// AddBond appends a bond and returns its index.  Self-loops, out-of-range
// indices, out-of-range orders, and duplicate bonds are rejected.
func (m *Mol) AddBond(atom1, atom2, order int) (int, error) {
	if atom1 < 0 || atom1 >= len(m.Atoms) || atom2 < 0 || atom2 >= len(m.Atoms) {
		return -1, errors.New(errors.ErrCodeAtomIndexOutOfRange, "bond references missing atom").
			WithDetailf("atom1=%d atom2=%d atoms=%d", atom1, atom2, len(m.Atoms))
	}
	if atom1 == atom2 {
		return -1, errors.New(errors.ErrCodeMoleculeInvalidGraph, "self-loop bond").
			WithDetailf("atom=%d", atom1)
	}
	if order < 1 || order > 3 {
		return -1, errors.New(errors.ErrCodeBondOrderInvalid, "bond order out of range").
			WithDetailf("order=%d", order)
	}
	if m.BondBetween(atom1, atom2) >= 0 {
		return -1, errors.New(errors.ErrCodeDuplicateBond, "bond between these atoms already exists").
			WithDetailf("atom1=%d atom2=%d", atom1, atom2)
	}
	m.Bonds = append(m.Bonds, Bond{Atom1: atom1, Atom2: atom2, Order: order})
	return len(m.Bonds) - 1, nil
}

// BondBetween returns the index of the bond connecting atom1 and atom2, in
// either direction, or -1.
func (m *Mol) BondBetween(atom1, atom2 int) int {
	for i := range m.Bonds {
		b := &m.Bonds[i]
		if (b.Atom1 == atom1 && b.Atom2 == atom2) || (b.Atom1 == atom2 && b.Atom2 == atom1) {
			return i
		}
	}
	return -1
}

// DeleteAtoms removes the given atoms and every bond touching them, compacts
// both slices, and returns a dense reindex array mapping old atom indices to
// new ones (-1 for deleted atoms).  Out-of-range indices are ignored.
func (m *Mol) DeleteAtoms(indices ...int) []int {
	doomed := make([]bool, len(m.Atoms))
	for _, i := range indices {
		if i >= 0 && i < len(m.Atoms) {
			doomed[i] = true
		}
	}

	reindex := make([]int, len(m.Atoms))
	kept := m.Atoms[:0]
	next := 0
	for i := range m.Atoms {
		if doomed[i] {
			reindex[i] = -1
			continue
		}
		reindex[i] = next
		kept = append(kept, m.Atoms[i])
		next++
	}
	m.Atoms = kept

	bonds := m.Bonds[:0]
	for i := range m.Bonds {
		b := m.Bonds[i]
		if doomed[b.Atom1] || doomed[b.Atom2] {
			continue
		}
		b.Atom1 = reindex[b.Atom1]
		b.Atom2 = reindex[b.Atom2]
		bonds = append(bonds, b)
	}
	m.Bonds = bonds
	return reindex
}

// Clone returns a deep copy.
func (m *Mol) Clone() *Mol {
	c := *m
	c.Atoms = append([]Atom(nil), m.Atoms...)
	c.Bonds = append([]Bond(nil), m.Bonds...)
	return &c
}

// ClearDerivedStereo resets every derived stereo attribute (atom and bond
// parities, pseudo flags, CIP labels, stereo-problem flags) while preserving
// source attributes (wedges, ESR tags, the configuration-unknown marker).
// The canonicalizer calls this before regenerating parities.
func (m *Mol) ClearDerivedStereo() {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		a.Parity = chem.ParityNone
		a.ParityPseudo = false
		a.CIP = chem.CIPNone
		a.StereoProblem = false
	}
	for i := range m.Bonds {
		b := &m.Bonds[i]
		b.Parity = chem.ParityNone
		b.ParityPseudo = false
		b.CIP = chem.CIPNone
	}
}
