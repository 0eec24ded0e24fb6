package graph

import (
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// FromDTO builds a Mol from its wire form.  The DTO is validated first; a
// validation failure is returned as ErrCodeMoleculeConversionFailed with the
// structural problem as detail.
func FromDTO(dto *chem.MoleculeDTO) (*Mol, error) {
	if err := dto.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMoleculeConversionFailed, "invalid molecule").
			WithDetail(err.Error())
	}

	m := New(len(dto.Atoms), len(dto.Bonds))
	m.Name = dto.Name
	m.IsRacemate = dto.IsRacemate
	m.IsFragment = dto.IsFragment
	m.KnownParities = dto.KnownParities

	for _, a := range dto.Atoms {
		idx := m.AddAtom(a.AtomicNo)
		atom := &m.Atoms[idx]
		atom.Charge = a.Charge
		atom.Mass = a.Mass
		atom.Coord = a.Coord
		atom.ConfigurationUnknown = a.ConfigurationUnknown
		atom.ESR = a.ESR
		if dto.KnownParities {
			atom.Parity = a.Parity
			atom.ParityPseudo = a.ParityPseudo
		}
	}

	for _, b := range dto.Bonds {
		idx, err := m.AddBond(b.Atom1, b.Atom2, b.Order)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeMoleculeConversionFailed, "invalid bond")
		}
		m.Bonds[idx].Stereo = b.Stereo
		if dto.KnownParities {
			m.Bonds[idx].Parity = b.Parity
			m.Bonds[idx].ParityPseudo = b.ParityPseudo
		}
	}

	return m, nil
}

// ToDTO converts a Mol back to its wire form.  Derived stereo state (computed
// parities, CIP labels) is not carried for drawn structures; when the
// molecule's parities are trusted values rather than derived ones, as after
// decoding an identifier, they are the configuration source and travel with
// the DTO under the KnownParities flag.
func ToDTO(m *Mol) *chem.MoleculeDTO {
	dto := &chem.MoleculeDTO{
		Name:          m.Name,
		IsRacemate:    m.IsRacemate,
		IsFragment:    m.IsFragment,
		KnownParities: m.KnownParities,
		Atoms:         make([]chem.AtomDTO, len(m.Atoms)),
		Bonds:         make([]chem.BondDTO, len(m.Bonds)),
	}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		dto.Atoms[i] = chem.AtomDTO{
			AtomicNo:             a.AtomicNo,
			Charge:               a.Charge,
			Mass:                 a.Mass,
			Coord:                a.Coord,
			ConfigurationUnknown: a.ConfigurationUnknown,
			ESR:                  a.ESR,
		}
		if m.KnownParities {
			dto.Atoms[i].Parity = a.Parity
			dto.Atoms[i].ParityPseudo = a.ParityPseudo
		}
	}
	for i := range m.Bonds {
		b := &m.Bonds[i]
		dto.Bonds[i] = chem.BondDTO{
			Atom1:  b.Atom1,
			Atom2:  b.Atom2,
			Order:  b.Order,
			Stereo: b.Stereo,
		}
		if m.KnownParities {
			dto.Bonds[i].Parity = b.Parity
			dto.Bonds[i].ParityPseudo = b.ParityPseudo
		}
	}
	return dto
}
