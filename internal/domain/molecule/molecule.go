// Package molecule implements the stereochemistry-aware molecule container.
// A StereoMol wraps the raw graph store with a validity state machine over
// derived helper data: neighbour tables, ring perception, stereo parities,
// CIP labels, and symmetry ranks are computed lazily per requested tier and
// invalidated wholesale by any mutation.  Derived state is always regenerated
// as a pure function of the current graph snapshot, never patched in place.
package molecule

import (
	"github.com/turtacn/MolCanon/internal/domain/canon"
	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// StereoMol is the aggregate root of the molecule domain.  It owns a graph
// and the derived helper data valid for it.  A StereoMol must not be used
// concurrently.
type StereoMol struct {
	mol *graph.Mol

	// valid is the tier bitmask of currently usable derived data.
	valid chem.HelperTier

	h     *graph.Helpers
	canon *canon.Canonizer
}

// New returns an empty molecule with capacity hints.
func New(atoms, bonds int) *StereoMol {
	return &StereoMol{mol: graph.New(atoms, bonds)}
}

// Wrap takes ownership of an existing graph.  The graph must not be mutated
// through any other reference afterwards.
func Wrap(m *graph.Mol) *StereoMol {
	return &StereoMol{mol: m}
}

// FromDTO builds a molecule from its wire form.
func FromDTO(dto *chem.MoleculeDTO) (*StereoMol, error) {
	m, err := graph.FromDTO(dto)
	if err != nil {
		return nil, err
	}
	return Wrap(m), nil
}

// FromIDCode reconstructs a molecule from a canonical identifier, optionally
// applying the matching coordinate encoding.  The result carries trusted
// parities; re-canonicalizing it reproduces the identifier.
func FromIDCode(idcode, coordinates string) (*StereoMol, error) {
	m, err := canon.Decode(idcode)
	if err != nil {
		return nil, err
	}
	if coordinates != "" {
		if err := canon.DecodeCoordinates(m, coordinates); err != nil {
			return nil, err
		}
	}
	return Wrap(m), nil
}

// ToDTO converts the molecule to its wire form.
func (sm *StereoMol) ToDTO() *chem.MoleculeDTO {
	return graph.ToDTO(sm.mol)
}

// Graph exposes the underlying graph for read access.  Mutating it directly
// bypasses invalidation; use the mutation methods instead.
func (sm *StereoMol) Graph() *graph.Mol { return sm.mol }

// AtomCount returns the number of atoms.
func (sm *StereoMol) AtomCount() int { return sm.mol.AtomCount() }

// BondCount returns the number of bonds.
func (sm *StereoMol) BondCount() int { return sm.mol.BondCount() }

// Name returns the molecule name.
func (sm *StereoMol) Name() string { return sm.mol.Name }

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// invalidate drops every derived tier.  Called by all mutations; helper data
// is regenerated from scratch on the next query.
func (sm *StereoMol) invalidate() {
	sm.valid = chem.HelperNone
	sm.h = nil
	sm.canon = nil
}

// SetName renames the molecule.  The name is not part of any derived data.
func (sm *StereoMol) SetName(name string) { sm.mol.Name = name }

// AddAtom appends an atom and returns its index.
func (sm *StereoMol) AddAtom(atomicNo int) int {
	sm.invalidate()
	return sm.mol.AddAtom(atomicNo)
}

// AddBond appends a bond and returns its index.
func (sm *StereoMol) AddBond(atom1, atom2, order int) (int, error) {
	sm.invalidate()
	return sm.mol.AddBond(atom1, atom2, order)
}

// DeleteAtoms removes atoms and incident bonds, returning the reindex map.
func (sm *StereoMol) DeleteAtoms(indices ...int) []int {
	sm.invalidate()
	return sm.mol.DeleteAtoms(indices...)
}

// SetAtomCharge sets the formal charge of atom.
func (sm *StereoMol) SetAtomCharge(atom, charge int) {
	sm.invalidate()
	sm.mol.Atoms[atom].Charge = charge
}

// SetAtomMass sets the isotope mass of atom; 0 restores natural abundance.
func (sm *StereoMol) SetAtomMass(atom, mass int) {
	sm.invalidate()
	sm.mol.Atoms[atom].Mass = mass
}

// SetAtomCoord moves atom.  Geometry feeds parity perception, so derived
// stereo is invalidated like any structural change.
func (sm *StereoMol) SetAtomCoord(atom int, coord chem.Coord) {
	sm.invalidate()
	sm.mol.Atoms[atom].Coord = coord
}

// SetAtomESR assigns ESR group membership to atom.
func (sm *StereoMol) SetAtomESR(atom int, esr chem.ESR) {
	sm.invalidate()
	sm.mol.Atoms[atom].ESR = esr
}

// SetConfigurationUnknown marks atom as an explicitly undefined stereo center.
func (sm *StereoMol) SetConfigurationUnknown(atom int, unknown bool) {
	sm.invalidate()
	sm.mol.Atoms[atom].ConfigurationUnknown = unknown
}

// SetBondStereo sets the drawn wedge or cross marker of bond.
func (sm *StereoMol) SetBondStereo(bond int, stereo chem.BondStereo) {
	sm.invalidate()
	sm.mol.Bonds[bond].Stereo = stereo
}

// SetRacemate flags the molecule as the racemate of the drawn structure.
func (sm *StereoMol) SetRacemate(racemate bool) {
	sm.invalidate()
	sm.mol.IsRacemate = racemate
}

// SetFragment flags the molecule as a substructure query fragment.
func (sm *StereoMol) SetFragment(fragment bool) {
	sm.invalidate()
	sm.mol.IsFragment = fragment
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper tier state machine
// ─────────────────────────────────────────────────────────────────────────────

// EnsureHelpers makes every tier in required valid, recomputing derived data
// from the current graph snapshot when necessary.  A request already covered
// by the valid mask is a no-op; anything beyond ring perception triggers one
// full canonicalization run (parities, CIP labels, and symmetry ranks are
// regenerated together, never partially).
func (sm *StereoMol) EnsureHelpers(required chem.HelperTier) error {
	if sm.valid.Includes(required) {
		return nil
	}

	if !sm.valid.Includes(chem.HelperRings) {
		sm.h = graph.ComputeHelpers(sm.mol)
		// Neighbour tables and ring perception come out of one pass.
		sm.valid |= chem.HelperRings
		if sm.valid.Includes(required) {
			return nil
		}
	}

	mode := canon.ModeSimple
	if required&chem.TierSymDiastereotopic != 0 {
		mode = canon.ModeDiastereotopic
	}
	if required&chem.TierSymEnantiotopic != 0 {
		mode = canon.ModeEnantiotopic
	}
	opts := canon.Options{
		Mode:                     mode,
		ConsiderNitrogenParities: required&chem.TierNitrogenParity != 0,
	}

	// Trusted parities (decoded identifiers, resolved racemates) survive;
	// everything else is stale derived state.
	if !sm.mol.KnownParities {
		sm.mol.ClearDerivedStereo()
	}

	c, err := canon.New(sm.mol, sm.h, opts)
	if err != nil {
		return err
	}
	c.WriteStereo()
	c.CleanESR()

	if c.ResolveRacemate() {
		// Resolution regrouped centers and fixed parities; rerun once so the
		// reported absolute values describe the resolved graph.
		c, err = canon.New(sm.mol, sm.h, opts)
		if err != nil {
			return err
		}
		c.WriteStereo()
	}

	c.RenumberESRGroups(chem.ESRTypeAnd)
	c.RenumberESRGroups(chem.ESRTypeOr)

	sm.canon = c
	sm.valid |= required | chem.HelperCIP | chem.TierSymSimple
	if mode >= canon.ModeDiastereotopic {
		sm.valid |= chem.TierSymDiastereotopic
	}
	if mode >= canon.ModeEnantiotopic {
		sm.valid |= chem.TierSymEnantiotopic
	}
	return nil
}

// ValidTiers returns the currently valid tier bitmask.
func (sm *StereoMol) ValidTiers() chem.HelperTier { return sm.valid }

// ensureCanon ensures a canonicalizer covering at least tier is present.
func (sm *StereoMol) ensureCanon(tier chem.HelperTier) (*canon.Canonizer, error) {
	if err := sm.EnsureHelpers(tier); err != nil {
		return nil, err
	}
	if sm.canon == nil {
		return nil, errors.New(errors.CodeInternal, "canonicalizer missing after helper computation")
	}
	return sm.canon, nil
}
