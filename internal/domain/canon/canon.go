// Package canon implements the canonicalization engine: iterative invariant
// refinement over the molecule graph producing automorphism-invariant atom
// ranks, stereo parity perception at three topological granularities, ESR
// group renumbering, and the canonical identifier and coordinate encodings.
//
// A Canonizer is a one-shot computation over a frozen graph snapshot.  It
// never mutates the molecule it was given except through the explicit
// WriteStereo call, which the helper-array cache uses to publish derived
// parities back onto the graph.
package canon

import (
	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// Mode selects the topological granularity of symmetry ranks.
type Mode uint8

const (
	// ModeSimple treats stereoheterotopic atoms as equivalent.
	ModeSimple Mode = iota
	// ModeDiastereotopic distinguishes diastereotopic atoms but keeps
	// enantiotopic atoms equivalent.
	ModeDiastereotopic
	// ModeEnantiotopic distinguishes both diastereotopic and enantiotopic
	// atoms.
	ModeEnantiotopic
)

// Options configure one canonicalization run.
type Options struct {
	Mode Mode

	// ConsiderNitrogenParities includes qualifying neutral tetrahedral
	// nitrogen atoms as stereo center candidates.  Quaternary (positively
	// charged) nitrogen is always considered.
	ConsiderNitrogenParities bool
}

// Canonizer holds the result of one canonicalization run.
type Canonizer struct {
	mol  *graph.Mol
	h    *graph.Helpers
	opts Options

	// ranks are the full canonical ranks, 1-based, all distinct.
	ranks []int

	// symSimple / symDia / symEnantio are symmetry ranks at the three
	// granularities; equal rank means automorphic at that granularity.
	// symDia and symEnantio are nil unless the mode requires them.
	symSimple  []int
	symDia     []int
	symEnantio []int

	// Relative parities (neighbour input order) and pseudo flags.
	thParity []chem.Parity
	thPseudo []bool
	ezParity []chem.Parity
	ezPseudo []bool

	// Absolute parities (neighbour canonical-rank order).
	absTH []chem.Parity
	absEZ []chem.Parity

	cipAtom []chem.CIPLabel
	cipBond []chem.CIPLabel

	stereoProblem []bool

	chirality chem.Chirality
}

// New runs the full canonicalization pipeline over mol.  The helper snapshot
// h must match the current state of mol.  Molecules above chem.MaxAtoms are
// rejected.
func New(mol *graph.Mol, h *graph.Helpers, opts Options) (*Canonizer, error) {
	return newInternal(mol, h, opts, true)
}

// newInternal runs the pipeline; classification is skipped for the internal
// mirror-image run that classification itself performs.
func newInternal(mol *graph.Mol, h *graph.Helpers, opts Options, classify bool) (*Canonizer, error) {
	if len(mol.Atoms) > chem.MaxAtoms {
		return nil, errors.New(errors.ErrCodeMoleculeTooLarge, "molecule exceeds maximum atom count").
			WithDetailf("atoms=%d max=%d", len(mol.Atoms), chem.MaxAtoms)
	}
	if len(mol.Bonds) > chem.MaxBonds {
		return nil, errors.New(errors.ErrCodeMoleculeTooLarge, "molecule exceeds maximum bond count").
			WithDetailf("bonds=%d max=%d", len(mol.Bonds), chem.MaxBonds)
	}
	// Group numbers are encoded in a fixed-width identifier field; racemate
	// resolution can mint one group per center, so the bound is enforced here
	// on every run rather than only at the DTO boundary.
	for i := range mol.Atoms {
		esr := mol.Atoms[i].ESR
		if esr.Type != chem.ESRTypeAbs && esr.Group >= chem.MaxESRGroups {
			return nil, errors.New(errors.ErrCodeTooManyESRGroups, "molecule exceeds maximum ESR group count").
				WithDetailf("atom=%d group=%d max=%d", i, esr.Group, chem.MaxESRGroups-1)
		}
	}

	c := &Canonizer{mol: mol, h: h, opts: opts}
	n := len(mol.Atoms)
	c.thParity = make([]chem.Parity, n)
	c.thPseudo = make([]bool, n)
	c.ezParity = make([]chem.Parity, len(mol.Bonds))
	c.ezPseudo = make([]bool, len(mol.Bonds))
	c.stereoProblem = make([]bool, n)

	base := c.baseInvariants()
	c.symSimple = refine(mol, h, base, nil)

	c.assignParities()

	seed := c.paritySeed(c.symSimple)
	enantio := refine(mol, h, base, seed)

	// Pseudo stereo centers become visible only once parities separate
	// otherwise equivalent substituents; a second parity pass over the finer
	// ranks picks them up.  Their seeds normalize over the finer ranks, which
	// refine the simple partition and so leave real-center seeds unchanged.
	if c.assignPseudoParities(enantio) {
		seed = c.paritySeed(enantio)
		enantio = refine(mol, h, base, seed)
	}
	if opts.Mode >= ModeDiastereotopic {
		c.symDia = diastereotopicRanks(mol, h, base, seed)
	}
	if opts.Mode >= ModeEnantiotopic {
		c.symEnantio = enantio
	}

	c.ranks = c.canonicalRanks(base, seed)
	c.assignAbsoluteParities()
	c.assignCIP()
	if classify {
		c.classify()
	}
	return c, nil
}

// Ranks returns the full canonical rank per atom (1-based, all distinct).
func (c *Canonizer) Ranks() []int { return c.ranks }

// SymmetryRanks returns the symmetry rank per atom at the given granularity;
// equal ranks mean the atoms are automorphic at that granularity.  Returns nil
// for a granularity finer than the one the Canonizer was run with.
func (c *Canonizer) SymmetryRanks(mode Mode) []int {
	switch mode {
	case ModeDiastereotopic:
		return c.symDia
	case ModeEnantiotopic:
		return c.symEnantio
	}
	return c.symSimple
}

// THParity returns the relative tetrahedral parity of atom and its pseudo flag.
func (c *Canonizer) THParity(atom int) (chem.Parity, bool) {
	return c.thParity[atom], c.thPseudo[atom]
}

// EZParity returns the relative double-bond parity of bond and its pseudo flag.
func (c *Canonizer) EZParity(bond int) (chem.Parity, bool) {
	return c.ezParity[bond], c.ezPseudo[bond]
}

// AbsoluteTHParity returns the canonical-rank-ordered parity of atom.
func (c *Canonizer) AbsoluteTHParity(atom int) chem.Parity { return c.absTH[atom] }

// AbsoluteEZParity returns the canonical-rank-ordered parity of bond.
func (c *Canonizer) AbsoluteEZParity(bond int) chem.Parity { return c.absEZ[bond] }

// CIPAtom returns the R/S descriptor of atom.
func (c *Canonizer) CIPAtom(atom int) chem.CIPLabel { return c.cipAtom[atom] }

// CIPBond returns the E/Z descriptor of bond.
func (c *Canonizer) CIPBond(bond int) chem.CIPLabel { return c.cipBond[bond] }

// StereoProblem reports whether parity assignment flagged atom as over- or
// under-specified.
func (c *Canonizer) StereoProblem(atom int) bool { return c.stereoProblem[atom] }

// Chirality returns the whole-molecule stereo classification.
func (c *Canonizer) Chirality() chem.Chirality { return c.chirality }

// StereoCenterCount counts non-pseudo stereo centers with assigned or
// explicitly unknown configuration.
func (c *Canonizer) StereoCenterCount() int {
	count := 0
	for i, p := range c.thParity {
		if p != chem.ParityNone && !c.thPseudo[i] {
			count++
		}
	}
	return count
}

// StereoBondCount counts non-pseudo stereogenic double bonds.
func (c *Canonizer) StereoBondCount() int {
	count := 0
	for i, p := range c.ezParity {
		if p != chem.ParityNone && !c.ezPseudo[i] {
			count++
		}
	}
	return count
}

// WriteStereo publishes the derived parities, CIP labels, and stereo-problem
// flags back onto the molecule.  It is the only mutation this package
// performs on the graph.
func (c *Canonizer) WriteStereo() {
	for i := range c.mol.Atoms {
		a := &c.mol.Atoms[i]
		a.Parity = c.thParity[i]
		a.ParityPseudo = c.thPseudo[i]
		a.CIP = c.cipAtom[i]
		a.StereoProblem = c.stereoProblem[i]
	}
	for i := range c.mol.Bonds {
		b := &c.mol.Bonds[i]
		b.Parity = c.ezParity[i]
		b.ParityPseudo = c.ezPseudo[i]
		b.CIP = c.cipBond[i]
	}
}
