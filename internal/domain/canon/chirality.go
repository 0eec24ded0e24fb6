package canon

import (
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// classify derives the whole-molecule chirality from the perceived stereo
// centers and their ESR membership.
func (c *Canonizer) classify() {
	var (
		real       []int
		hasAnd     bool
		hasOr      bool
		unknownAbs bool
		andGroups  = map[int]bool{}
		orGroups   = map[int]bool{}
		grouped    int
	)
	for i, p := range c.thParity {
		if p == chem.ParityNone || c.thPseudo[i] {
			continue
		}
		real = append(real, i)
		esr := c.mol.Atoms[i].ESR
		switch esr.Type {
		case chem.ESRTypeAnd:
			hasAnd = true
			andGroups[esr.Group] = true
			grouped++
		case chem.ESRTypeOr:
			hasOr = true
			orGroups[esr.Group] = true
			grouped++
		default:
			if !p.IsKnown() {
				unknownAbs = true
			}
		}
	}

	switch {
	case len(real) == 0:
		c.chirality = chem.ChiralityNotChiral
	case unknownAbs:
		c.chirality = chem.ChiralityUnknown
	case hasAnd && hasOr:
		c.chirality = chem.ChiralityDiastereomers
	case hasAnd:
		if len(andGroups) == 1 && grouped == len(real) {
			c.chirality = chem.ChiralityRacemic
		} else {
			c.chirality = chem.ChiralityEpimers
		}
	case hasOr:
		if len(orGroups) == 1 && grouped == len(real) {
			c.chirality = chem.ChiralityUnknownEnantiomer
		} else {
			c.chirality = chem.ChiralityDiastereomers
		}
	case c.mirrorEqual():
		c.chirality = chem.ChiralityMeso
	default:
		c.chirality = chem.ChiralityKnownEnantiomer
	}
}

// mirrorEqual reports whether the molecule is superimposable on its mirror
// image: the canonical identifier is unchanged when every tetrahedral parity
// is inverted.  Double-bond geometry is mirror-invariant.
func (c *Canonizer) mirrorEqual() bool {
	mirror := c.mol.Clone()
	for i := range mirror.Atoms {
		// Reflection negates every signed volume, pseudo-asymmetric centers
		// included; their descriptor invariance falls out of the
		// re-canonicalization, not of the raw parity value.
		mirror.Atoms[i].Parity = c.thParity[i].Invert()
		mirror.Atoms[i].ParityPseudo = c.thPseudo[i]
	}
	for i := range mirror.Bonds {
		mirror.Bonds[i].Parity = c.ezParity[i]
		mirror.Bonds[i].ParityPseudo = c.ezPseudo[i]
	}
	mirror.KnownParities = true

	mc, err := newInternal(mirror, c.h, c.opts, false)
	if err != nil {
		return false
	}
	return mc.IDCode() == c.IDCode()
}
