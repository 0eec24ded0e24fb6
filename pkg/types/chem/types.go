// Package chem defines the chemistry-domain enumerations and Data Transfer
// Objects used across every layer of MolCanon.  No domain logic lives here,
// only plain data types that are safe to import from any layer without
// creating circular dependencies.
package chem

import (
	"fmt"

	"github.com/turtacn/MolCanon/pkg/types/common"
)

// MaxAtoms is the largest atom count a molecule may have.  Canonical ranks and
// identifier bit fields are sized for 15-bit indices; exceeding this limit is
// a capacity error, never a silent truncation.
const MaxAtoms = 32767

// MaxBonds is the largest bond count a molecule may have; identifier bond
// counts are 16-bit fields.
const MaxBonds = 65535

// MaxESRGroups is the number of ESR group slots per type; group numbers run
// 0..MaxESRGroups-1 and fit the identifier's 5-bit field.
const MaxESRGroups = 32

// ─────────────────────────────────────────────────────────────────────────────
// Parity — tetrahedral atom / double-bond configuration
// ─────────────────────────────────────────────────────────────────────────────

// Parity encodes the configuration of a tetrahedral stereo center or a
// stereogenic double bond.  The two defined values are meaningful only
// relative to an ordering of the neighbour atoms: relative parities order
// neighbours by input index, absolute parities by canonical rank.
type Parity uint8

const (
	// ParityNone marks an atom or bond that is not a stereo center.
	ParityNone Parity = 0

	// Parity1 is the first of the two defined configurations.  For atoms,
	// looking from the highest-ordered neighbour the remaining three appear
	// clockwise in order; for double bonds the reference neighbours lie on the
	// same side (Z-like under canonical ordering).
	Parity1 Parity = 1

	// Parity2 is the opposite configuration of Parity1.
	Parity2 Parity = 2

	// ParityUnknown marks a stereo center whose configuration is explicitly
	// undefined, e.g. drawn without wedges or flagged by the depictor.
	ParityUnknown Parity = 3
)

// IsKnown reports whether the parity is one of the two defined configurations.
func (p Parity) IsKnown() bool {
	return p == Parity1 || p == Parity2
}

// IsValid reports whether p is one of the defined Parity values.
func (p Parity) IsValid() bool {
	return p <= ParityUnknown
}

// Invert swaps Parity1 and Parity2; ParityNone and ParityUnknown are returned
// unchanged.
func (p Parity) Invert() Parity {
	switch p {
	case Parity1:
		return Parity2
	case Parity2:
		return Parity1
	}
	return p
}

func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case Parity1:
		return "1"
	case Parity2:
		return "2"
	case ParityUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Parity(%d)", uint8(p))
}

// ─────────────────────────────────────────────────────────────────────────────
// ESRType — enhanced stereo representation group classification
// ─────────────────────────────────────────────────────────────────────────────

// ESRType classifies how a stereo center's drawn configuration relates to the
// actual substance: absolute (as drawn), AND (mixture of both configurations),
// or OR (one of both, but unknown which).  AND and OR centers belong to a
// numbered group; centers in the same group invert together.
type ESRType uint8

const (
	ESRTypeAbs ESRType = 0
	ESRTypeAnd ESRType = 1
	ESRTypeOr  ESRType = 2
)

// IsValid reports whether t is one of the defined ESRType values.
func (t ESRType) IsValid() bool {
	return t <= ESRTypeOr
}

func (t ESRType) String() string {
	switch t {
	case ESRTypeAbs:
		return "abs"
	case ESRTypeAnd:
		return "and"
	case ESRTypeOr:
		return "or"
	}
	return fmt.Sprintf("ESRType(%d)", uint8(t))
}

// ESR combines an ESRType with its group number.  Group is meaningful only
// for ESRTypeAnd and ESRTypeOr and is zero-based.
type ESR struct {
	Type  ESRType `json:"type"`
	Group int     `json:"group,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// BondStereo — drawn wedge / cross markers
// ─────────────────────────────────────────────────────────────────────────────

// BondStereo is the drawn stereo marker of a bond.  Up and down wedges point
// from the bond's first atom; a cross marks a double bond of explicitly
// unknown geometry.
type BondStereo uint8

const (
	StereoNone  BondStereo = 0
	StereoUp    BondStereo = 1
	StereoDown  BondStereo = 2
	StereoCross BondStereo = 3
)

// IsWedge reports whether the marker is an up or down wedge.
func (s BondStereo) IsWedge() bool {
	return s == StereoUp || s == StereoDown
}

// IsValid reports whether s is one of the defined BondStereo values.
func (s BondStereo) IsValid() bool {
	return s <= StereoCross
}

func (s BondStereo) String() string {
	switch s {
	case StereoNone:
		return "none"
	case StereoUp:
		return "up"
	case StereoDown:
		return "down"
	case StereoCross:
		return "cross"
	}
	return fmt.Sprintf("BondStereo(%d)", uint8(s))
}

// ─────────────────────────────────────────────────────────────────────────────
// HelperTier — derived-data validity bitmask
// ─────────────────────────────────────────────────────────────────────────────

// HelperTier is a bitmask identifying which tiers of derived helper data are
// valid on a molecule.  Callers request composite tiers (HelperNeighbours,
// HelperRings, …); each composite includes every cheaper tier it depends on.
type HelperTier uint16

const (
	TierNeighbours HelperTier = 1 << iota
	TierRings
	TierParities
	TierCIP
	TierSymSimple
	TierSymDiastereotopic
	TierSymEnantiotopic
	TierNitrogenParity
)

// Composite tiers, each including all tiers beneath it.
const (
	HelperNone       HelperTier = 0
	HelperNeighbours            = TierNeighbours
	HelperRings                 = HelperNeighbours | TierRings
	HelperParities              = HelperRings | TierParities
	HelperCIP                   = HelperParities | TierCIP

	HelperSymSimple         = HelperCIP | TierSymSimple
	HelperSymDiastereotopic = HelperSymSimple | TierSymDiastereotopic
	HelperSymEnantiotopic   = HelperSymDiastereotopic | TierSymEnantiotopic

	// HelperIncludeNitrogenParities adds perception of stereogenic
	// tetrahedral nitrogen atoms to any parity-bearing tier.
	HelperIncludeNitrogenParities = HelperParities | TierNitrogenParity
)

// Includes reports whether every bit of sub is contained in t.
func (t HelperTier) Includes(sub HelperTier) bool {
	return t&sub == sub
}

// ─────────────────────────────────────────────────────────────────────────────
// CIPLabel — Cahn-Ingold-Prelog descriptor
// ─────────────────────────────────────────────────────────────────────────────

// CIPLabel is the CIP descriptor assigned to a stereo center (R/S) or a
// stereogenic double bond (E/Z).
type CIPLabel uint8

const (
	CIPNone CIPLabel = 0
	CIPR    CIPLabel = 1
	CIPS    CIPLabel = 2
	CIPE    CIPLabel = 3
	CIPZ    CIPLabel = 4
)

func (l CIPLabel) String() string {
	switch l {
	case CIPNone:
		return ""
	case CIPR:
		return "R"
	case CIPS:
		return "S"
	case CIPE:
		return "E"
	case CIPZ:
		return "Z"
	}
	return fmt.Sprintf("CIPLabel(%d)", uint8(l))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chirality — whole-molecule stereo classification
// ─────────────────────────────────────────────────────────────────────────────

// Chirality classifies a whole molecule by the relationship between its drawn
// structure and the isomer population it represents.
type Chirality uint8

const (
	ChiralityUnknown Chirality = iota
	ChiralityNotChiral
	ChiralityMeso
	ChiralityRacemic
	ChiralityKnownEnantiomer
	ChiralityUnknownEnantiomer
	ChiralityEpimers
	ChiralityDiastereomers
)

func (c Chirality) String() string {
	switch c {
	case ChiralityUnknown:
		return "unknown chirality"
	case ChiralityNotChiral:
		return "not chiral"
	case ChiralityMeso:
		return "meso"
	case ChiralityRacemic:
		return "racemate"
	case ChiralityKnownEnantiomer:
		return "this enantiomer"
	case ChiralityUnknownEnantiomer:
		return "this or other enantiomer"
	case ChiralityEpimers:
		return "mixture of epimers"
	case ChiralityDiastereomers:
		return "mixture of diastereomers"
	}
	return fmt.Sprintf("Chirality(%d)", uint8(c))
}

// ─────────────────────────────────────────────────────────────────────────────
// Coord — atom position
// ─────────────────────────────────────────────────────────────────────────────

// Coord is an atom position.  2-D depictions leave Z at zero.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule DTOs — wire form of a molecule graph
// ─────────────────────────────────────────────────────────────────────────────

// AtomDTO is the wire form of one atom.
type AtomDTO struct {
	AtomicNo int   `json:"atomic_no"`
	Charge   int   `json:"charge,omitempty"`
	Mass     int   `json:"mass,omitempty"` // 0 means natural abundance
	Coord    Coord `json:"coord"`

	// ConfigurationUnknown marks the atom as an explicitly undefined stereo
	// center, independent of any wedge information.
	ConfigurationUnknown bool `json:"configuration_unknown,omitempty"`

	// Parity carries an explicit tetrahedral configuration relative to input
	// neighbour order.  Honored only when the molecule's KnownParities flag is
	// set; otherwise configuration is perceived from wedges and geometry.
	Parity       Parity `json:"parity,omitempty"`
	ParityPseudo bool   `json:"parity_pseudo,omitempty"`

	ESR ESR `json:"esr,omitempty"`
}

// BondDTO is the wire form of one bond.  Atom1 is the wedge origin when
// Stereo is up or down.
type BondDTO struct {
	Atom1  int        `json:"atom1"`
	Atom2  int        `json:"atom2"`
	Order  int        `json:"order"`
	Stereo BondStereo `json:"stereo,omitempty"`

	// Parity carries an explicit double-bond configuration relative to input
	// neighbour order, honored only under the molecule's KnownParities flag.
	Parity       Parity `json:"parity,omitempty"`
	ParityPseudo bool   `json:"parity_pseudo,omitempty"`
}

// MoleculeDTO is the canonical molecule representation passed between the
// application, interface, and client layers.
type MoleculeDTO struct {
	Name string `json:"name,omitempty"`

	// IsRacemate marks a molecule drawn as one enantiomer but representing the
	// racemic mixture; canonicalization resolves it into AND-group notation.
	IsRacemate bool `json:"is_racemate,omitempty"`

	// IsFragment marks a substructure query fragment rather than a complete
	// molecule.
	IsFragment bool `json:"is_fragment,omitempty"`

	// KnownParities marks the atom and bond parities as trusted values to use
	// as-is instead of re-perceiving configuration from wedges and geometry.
	// Decoded identifiers set it; drawn structures leave it unset.
	KnownParities bool `json:"known_parities,omitempty"`

	Atoms []AtomDTO `json:"atoms"`
	Bonds []BondDTO `json:"bonds"`
}

/// Validate performs structural checks that do not require graph construction:
// index ranges, bond orders, enum validity, and the atom-count capacity bound.
func (m *MoleculeDTO) Validate() error {
	if len(m.Atoms) == 0 {
		return fmt.Errorf("molecule has no atoms")
	}
	if len(m.Atoms) > MaxAtoms {
		return fmt.Errorf("molecule has %d atoms, maximum is %d", len(m.Atoms), MaxAtoms)
	}
	if len(m.Bonds) > MaxBonds {
		return fmt.Errorf("molecule has %d bonds, maximum is %d", len(m.Bonds), MaxBonds)
	}
	for i, a := range m.Atoms {
		if a.AtomicNo < 1 || a.AtomicNo > 118 {
			return fmt.Errorf("atom %d: atomic number %d out of range", i, a.AtomicNo)
		}
		if a.Charge < -32 || a.Charge > 31 {
			return fmt.Errorf("atom %d: charge %d out of range", i, a.Charge)
		}
		if !a.ESR.Type.IsValid() {
			return fmt.Errorf("atom %d: invalid ESR type %d", i, a.ESR.Type)
		}
		if a.ESR.Group < 0 || a.ESR.Group >= MaxESRGroups {
			return fmt.Errorf("atom %d: ESR group %d out of range", i, a.ESR.Group)
		}
		if !a.Parity.IsValid() {
			return fmt.Errorf("atom %d: invalid parity %d", i, a.Parity)
		}
	}
	for i, b := range m.Bonds {
		if b.Atom1 < 0 || b.Atom1 >= len(m.Atoms) || b.Atom2 < 0 || b.Atom2 >= len(m.Atoms) {
			return fmt.Errorf("bond %d: atom index out of range", i)
		}
		if b.Atom1 == b.Atom2 {
			return fmt.Errorf("bond %d: self-loop on atom %d", i, b.Atom1)
		}
		if b.Order < 1 || b.Order > 3 {
			return fmt.Errorf("bond %d: order %d out of range", i, b.Order)
		}
		if !b.Stereo.IsValid() {
			return fmt.Errorf("bond %d: invalid stereo marker %d", i, b.Stereo)
		}
		if !b.Parity.IsValid() {
			return fmt.Errorf("bond %d: invalid parity %d", i, b.Parity)
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Canonicalization result DTOs
// ─────────────────────────────────────────────────────────────────────────────

// StereoSummary reports the stereo content of a canonicalized molecule.
type StereoSummary struct {
	StereoCenterCount int       `json:"stereo_center_count"`
	StereoBondCount   int       `json:"stereo_bond_count"`
	Chirality         Chirality `json:"chirality"`
	ChiralText        string    `json:"chiral_text"`
}

// CanonicalResult is the output of one canonicalization.
type CanonicalResult struct {
	IDCode      string        `json:"idcode"`
	Coordinates string        `json:"coordinates,omitempty"`
	Ranks       []int         `json:"ranks,omitempty"`
	Stereo      StereoSummary `json:"stereo"`
}

// RegistryEntryDTO is one registered molecule as stored in and returned by
// the registry.
type RegistryEntryDTO struct {
	common.BaseEntity

	Name        string        `json:"name,omitempty"`
	IDCode      string        `json:"idcode"`
	Coordinates string        `json:"coordinates,omitempty"`
	AtomCount   int           `json:"atom_count"`
	BondCount   int           `json:"bond_count"`
	Stereo      StereoSummary `json:"stereo"`
}

// ValidationVerdict is the structured result of a stereo validation.
type ValidationVerdict struct {
	Valid bool `json:"valid"`

	// Condition is the error code of the first violated condition, empty when
	// Valid is true.
	Condition string `json:"condition,omitempty"`
	Message   string `json:"message,omitempty"`

	// Atom and Bond identify the offending element; -1 when not applicable.
	Atom int `json:"atom"`
	Bond int `json:"bond"`
}
