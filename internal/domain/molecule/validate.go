package molecule

import (
	"fmt"
	"math"

	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// parallelCos is the cosine of the angle below which two substituent bond
// directions count as geometrically parallel (about five degrees).
const parallelCos = 0.9962

// Validate walks every atom after ensuring CIP-tier helper data and reports
// the first ill-formed stereo specification found:
//
//   - an ESR group member that is not a stereo center with known
//     configuration,
//   - an atom flagged as a stereo problem during parity assignment
//     (contradicting wedges, adjacent unknown-geometry double bonds),
//   - a stereo center whose configuration rests on 2-D wedge drawing while
//     two of its plain substituent bonds run parallel, leaving the geometry
//     ambiguous.
//
// Validation is read-only; helper computation is its only side effect.
func (sm *StereoMol) Validate() (*chem.ValidationVerdict, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return nil, err
	}

	for atom := range sm.mol.Atoms {
		esr := sm.mol.Atoms[atom].ESR
		if esr.Type != chem.ESRTypeAbs {
			p, _ := c.THParity(atom)
			if !p.IsKnown() {
				return verdict(errors.ErrCodeESRCenterUnknown, atom,
					fmt.Sprintf("atom %d belongs to an %s group but has no known configuration", atom, esr.Type)), nil
			}
		}

		if c.StereoProblem(atom) {
			return verdict(errors.ErrCodeOverUnderSpecified, atom,
				fmt.Sprintf("atom %d carries an over- or under-specified stereo configuration", atom)), nil
		}

		if sm.ambiguousWedgeGeometry(atom, c.THParity) {
			return verdict(errors.ErrCodeAmbiguousConfiguration, atom,
				fmt.Sprintf("atom %d has parallel substituent bonds, its drawn configuration is ambiguous", atom)), nil
		}
	}

	return &chem.ValidationVerdict{Valid: true, Atom: -1, Bond: -1}, nil
}

func verdict(code errors.ErrorCode, atom int, msg string) *chem.ValidationVerdict {
	return &chem.ValidationVerdict{
		Valid:     false,
		Condition: string(code),
		Message:   msg,
		Atom:      atom,
		Bond:      -1,
	}
}

// ambiguousWedgeGeometry reports whether atom is a perceived stereo center
// whose parity depends on the 2-D drawing while two of its non-wedge
// substituent bonds point in nearly the same direction.  Such drawings admit
// more than one spatial reading.
func (sm *StereoMol) ambiguousWedgeGeometry(atom int, parityOf func(int) (chem.Parity, bool)) bool {
	if p, _ := parityOf(atom); p == chem.ParityNone {
		return false
	}
	// 3-D geometry does not rely on wedge interpretation.
	for i := range sm.mol.Atoms {
		if sm.mol.Atoms[i].Coord.Z != 0 {
			return false
		}
	}

	center := sm.mol.Atoms[atom].Coord
	var dirs [][2]float64
	for k, nb := range sm.h.ConnAtoms[atom] {
		bond := &sm.mol.Bonds[sm.h.ConnBonds[atom][k]]
		if bond.Stereo.IsWedge() && bond.Atom1 == atom {
			continue
		}
		co := sm.mol.Atoms[nb].Coord
		dx, dy := co.X-center.X, co.Y-center.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			// Coincident positions are as ambiguous as parallel bonds.
			return true
		}
		dirs = append(dirs, [2]float64{dx / l, dy / l})
	}

	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if dirs[i][0]*dirs[j][0]+dirs[i][1]*dirs[j][1] > parallelCos {
				return true
			}
		}
	}
	return false
}
