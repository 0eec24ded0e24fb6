package chem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

func TestParity(t *testing.T) {
	t.Parallel()

	assert.True(t, chem.Parity1.IsKnown())
	assert.True(t, chem.Parity2.IsKnown())
	assert.False(t, chem.ParityNone.IsKnown())
	assert.False(t, chem.ParityUnknown.IsKnown())

	assert.Equal(t, chem.Parity2, chem.Parity1.Invert())
	assert.Equal(t, chem.Parity1, chem.Parity2.Invert())
	assert.Equal(t, chem.ParityUnknown, chem.ParityUnknown.Invert())
	assert.Equal(t, chem.ParityNone, chem.ParityNone.Invert())

	assert.False(t, chem.Parity(7).IsValid())
}

func TestHelperTier_CompositesIncludeCheaperTiers(t *testing.T) {
	t.Parallel()

	assert.True(t, chem.HelperRings.Includes(chem.HelperNeighbours))
	assert.True(t, chem.HelperCIP.Includes(chem.HelperParities))
	assert.True(t, chem.HelperSymEnantiotopic.Includes(chem.HelperSymDiastereotopic))
	assert.True(t, chem.HelperSymDiastereotopic.Includes(chem.HelperSymSimple))
	assert.True(t, chem.HelperSymSimple.Includes(chem.HelperCIP))
	assert.False(t, chem.HelperRings.Includes(chem.HelperParities))
	assert.False(t, chem.HelperCIP.Includes(chem.TierNitrogenParity))
}

func TestBondStereo(t *testing.T) {
	t.Parallel()

	assert.True(t, chem.StereoUp.IsWedge())
	assert.True(t, chem.StereoDown.IsWedge())
	assert.False(t, chem.StereoCross.IsWedge())
	assert.False(t, chem.StereoNone.IsWedge())
}

func TestChiralityStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "meso", chem.ChiralityMeso.String())
	assert.Equal(t, "racemate", chem.ChiralityRacemic.String())
	assert.Equal(t, "not chiral", chem.ChiralityNotChiral.String())
}

func TestMoleculeDTOValidate(t *testing.T) {
	t.Parallel()

	valid := chem.MoleculeDTO{
		Atoms: []chem.AtomDTO{
			{AtomicNo: 6},
			{AtomicNo: 8},
		},
		Bonds: []chem.BondDTO{
			{Atom1: 0, Atom2: 1, Order: 1},
		},
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*chem.MoleculeDTO)
	}{
		{"no atoms", func(m *chem.MoleculeDTO) { m.Atoms = nil }},
		{"bad atomic number", func(m *chem.MoleculeDTO) { m.Atoms[0].AtomicNo = 0 }},
		{"bond index out of range", func(m *chem.MoleculeDTO) { m.Bonds[0].Atom2 = 5 }},
		{"self loop", func(m *chem.MoleculeDTO) { m.Bonds[0].Atom2 = 0 }},
		{"bad order", func(m *chem.MoleculeDTO) { m.Bonds[0].Order = 4 }},
		{"bad esr group", func(m *chem.MoleculeDTO) { m.Atoms[1].ESR = chem.ESR{Type: chem.ESRTypeAnd, Group: 99} }},
		{"charge out of range", func(m *chem.MoleculeDTO) { m.Atoms[0].Charge = 40 }},
		{"bad atom parity", func(m *chem.MoleculeDTO) { m.Atoms[0].Parity = chem.Parity(7) }},
		{"bad bond parity", func(m *chem.MoleculeDTO) { m.Bonds[0].Parity = chem.Parity(5) }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := chem.MoleculeDTO{
				Atoms: append([]chem.AtomDTO(nil), valid.Atoms...),
				Bonds: append([]chem.BondDTO(nil), valid.Bonds...),
			}
			tc.mutate(&m)
			assert.Error(t, m.Validate())
		})
	}
}
