package molecule

import (
	"github.com/turtacn/MolCanon/internal/domain/canon"
	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// Queries transparently ensure the minimal helper tier they need.  None of
// them mutate the graph.

// Helpers returns the neighbour/ring snapshot, computing it if necessary.
// The snapshot is valid until the next mutation.
func (sm *StereoMol) Helpers() (*graph.Helpers, error) {
	if err := sm.EnsureHelpers(chem.HelperRings); err != nil {
		return nil, err
	}
	return sm.h, nil
}

// CanonicalRanks returns the full canonical rank per atom (1-based, distinct).
func (sm *StereoMol) CanonicalRanks() ([]int, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return nil, err
	}
	return c.Ranks(), nil
}

// SymmetryRanks returns the symmetry rank per atom at the given granularity.
func (sm *StereoMol) SymmetryRanks(tier chem.HelperTier) ([]int, error) {
	mode := canon.ModeSimple
	switch {
	case tier&chem.TierSymEnantiotopic != 0:
		mode = canon.ModeEnantiotopic
	case tier&chem.TierSymDiastereotopic != 0:
		mode = canon.ModeDiastereotopic
	}
	c, err := sm.ensureCanon(tier | chem.HelperSymSimple)
	if err != nil {
		return nil, err
	}
	return c.SymmetryRanks(mode), nil
}

// SymmetryRank returns the simple-granularity symmetry rank of atom.
func (sm *StereoMol) SymmetryRank(atom int) (int, error) {
	ranks, err := sm.SymmetryRanks(chem.HelperSymSimple)
	if err != nil {
		return 0, err
	}
	if atom < 0 || atom >= len(ranks) {
		return 0, errors.InvalidParam("atom index out of range")
	}
	return ranks[atom], nil
}

// AtomParity returns the relative parity of atom and its pseudo flag.
func (sm *StereoMol) AtomParity(atom int) (chem.Parity, bool, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.ParityNone, false, err
	}
	if atom < 0 || atom >= sm.mol.AtomCount() {
		return chem.ParityNone, false, errors.InvalidParam("atom index out of range")
	}
	p, pseudo := c.THParity(atom)
	return p, pseudo, nil
}

// AbsoluteAtomParity returns the canonical-rank-ordered parity of atom.
func (sm *StereoMol) AbsoluteAtomParity(atom int) (chem.Parity, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.ParityNone, err
	}
	if atom < 0 || atom >= sm.mol.AtomCount() {
		return chem.ParityNone, errors.InvalidParam("atom index out of range")
	}
	return c.AbsoluteTHParity(atom), nil
}

// AbsoluteBondParity returns the canonical-rank-ordered parity of bond.
func (sm *StereoMol) AbsoluteBondParity(bond int) (chem.Parity, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.ParityNone, err
	}
	if bond < 0 || bond >= sm.mol.BondCount() {
		return chem.ParityNone, errors.InvalidParam("bond index out of range")
	}
	return c.AbsoluteEZParity(bond), nil
}

// AtomCIP returns the R/S descriptor of atom.
func (sm *StereoMol) AtomCIP(atom int) (chem.CIPLabel, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.CIPNone, err
	}
	return c.CIPAtom(atom), nil
}

// BondCIP returns the E/Z descriptor of bond.
func (sm *StereoMol) BondCIP(bond int) (chem.CIPLabel, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.CIPNone, err
	}
	return c.CIPBond(bond), nil
}

// IDCode returns the canonical identifier of the molecule.
func (sm *StereoMol) IDCode() (string, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return "", err
	}
	return c.IDCode(), nil
}

// IDCoordinates returns the coordinate encoding matching IDCode's atom order.
func (sm *StereoMol) IDCoordinates() (string, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return "", err
	}
	return c.EncodeCoordinates(), nil
}

// StereoCenterCount counts true (non-pseudo) stereo centers.
func (sm *StereoMol) StereoCenterCount() (int, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return 0, err
	}
	return c.StereoCenterCount(), nil
}

// StereoBondCount counts non-pseudo stereogenic double bonds.
func (sm *StereoMol) StereoBondCount() (int, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return 0, err
	}
	return c.StereoBondCount(), nil
}

// Chirality returns the whole-molecule stereo classification.
func (sm *StereoMol) Chirality() (chem.Chirality, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.ChiralityUnknown, err
	}
	return c.Chirality(), nil
}

// ChiralText returns the human-readable chirality label.
func (sm *StereoMol) ChiralText() (string, error) {
	ch, err := sm.Chirality()
	if err != nil {
		return "", err
	}
	return ch.String(), nil
}

// StereoSummary returns the stereo content of the molecule.
func (sm *StereoMol) StereoSummary() (chem.StereoSummary, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return chem.StereoSummary{}, err
	}
	return chem.StereoSummary{
		StereoCenterCount: c.StereoCenterCount(),
		StereoBondCount:   c.StereoBondCount(),
		Chirality:         c.Chirality(),
		ChiralText:        c.Chirality().String(),
	}, nil
}

// CanonicalResult bundles the identifier, coordinate encoding, canonical
// ranks, and stereo summary in one computation.
func (sm *StereoMol) CanonicalResult() (*chem.CanonicalResult, error) {
	c, err := sm.ensureCanon(chem.HelperCIP)
	if err != nil {
		return nil, err
	}
	ranks := append([]int(nil), c.Ranks()...)
	return &chem.CanonicalResult{
		IDCode:      c.IDCode(),
		Coordinates: c.EncodeCoordinates(),
		Ranks:       ranks,
		Stereo: chem.StereoSummary{
			StereoCenterCount: c.StereoCenterCount(),
			StereoBondCount:   c.StereoBondCount(),
			Chirality:         c.Chirality(),
			ChiralText:        c.Chirality().String(),
		},
	}, nil
}
