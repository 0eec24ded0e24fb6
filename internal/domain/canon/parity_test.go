package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

func TestDoubleBondGeometry(t *testing.T) {
	tests := []struct {
		name   string
		c4y    float64
		parity chem.Parity
		cip    chem.CIPLabel
	}{
		{"trans", 0.5, chem.Parity2, chem.CIPE},
		{"cis", -1, chem.Parity1, chem.CIPZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, double := buildButene(t, tt.c4y)
			c := canonize(t, m, Options{Mode: ModeEnantiotopic})

			p, pseudo := c.EZParity(double)
			assert.Equal(t, tt.parity, p)
			assert.False(t, pseudo)
			assert.Equal(t, tt.parity, c.AbsoluteEZParity(double))
			assert.Equal(t, tt.cip, c.CIPBond(double))

			assert.Equal(t, 1, c.StereoBondCount())
			assert.Equal(t, 0, c.StereoCenterCount())
			assert.Equal(t, chem.ChiralityNotChiral, c.Chirality())
		})
	}
}

func TestGeometricIsomersProduceDistinctIdentifiers(t *testing.T) {
	trans, _ := buildButene(t, 0.5)
	cis, _ := buildButene(t, -1)
	opts := Options{Mode: ModeEnantiotopic}

	assert.NotEqual(t,
		canonize(t, trans, opts).IDCode(),
		canonize(t, cis, opts).IDCode())
}

func TestCrossBondHasUnknownGeometry(t *testing.T) {
	m, double := buildButene(t, 0.5)
	m.Bonds[double].Stereo = chem.StereoCross

	c := canonize(t, m, Options{Mode: ModeEnantiotopic})
	p, _ := c.EZParity(double)
	assert.Equal(t, chem.ParityUnknown, p)
}

func TestSmallRingDoubleBondIsNotStereogenic(t *testing.T) {
	// Cyclohexene: the ring constrains the double bond to one geometry.
	m := graph.New(6, 6)
	coords := []chem.Coord{
		{X: 1, Y: 0}, {X: 0.5, Y: 0.866}, {X: -0.5, Y: 0.866},
		{X: -1, Y: 0}, {X: -0.5, Y: -0.866}, {X: 0.5, Y: -0.866},
	}
	for i := 0; i < 6; i++ {
		a := m.AddAtom(6)
		m.Atoms[a].Coord = coords[i]
	}
	double := mustBond(t, m, 0, 1, 2)
	for i := 1; i < 6; i++ {
		mustBond(t, m, i, (i+1)%6, 1)
	}

	c := canonize(t, m, Options{Mode: ModeEnantiotopic})
	p, _ := c.EZParity(double)
	assert.Equal(t, chem.ParityNone, p)
	assert.Equal(t, 0, c.StereoBondCount())
}

func TestContradictingWedgesFlagStereoProblem(t *testing.T) {
	// An up wedge to F and a down wedge to Cl imply opposite configurations
	// of the same center.
	m := buildHalomethane(t, chem.StereoUp)
	clBond := m.BondBetween(0, 2)
	m.Bonds[clBond].Stereo = chem.StereoDown

	c := canonize(t, m, Options{Mode: ModeEnantiotopic})
	assert.True(t, c.StereoProblem(0))
	p, _ := c.THParity(0)
	assert.Equal(t, chem.ParityUnknown, p)
}

func TestConsistentWedgesAreAccepted(t *testing.T) {
	// Two wedges that agree on the configuration are redundant, not a problem.
	m := buildHalomethane(t, chem.StereoUp)
	clBond := m.BondBetween(0, 2)
	m.Bonds[clBond].Stereo = chem.StereoUp

	c := canonize(t, m, Options{Mode: ModeEnantiotopic})
	assert.False(t, c.StereoProblem(0))
	p, _ := c.THParity(0)
	assert.True(t, p.IsKnown())
}

func TestAdjacentCrossBondsFlagStereoProblem(t *testing.T) {
	// An atom carrying two unknown-geometry double bonds cannot be resolved.
	m := graph.New(5, 4)
	for i := 0; i < 5; i++ {
		a := m.AddAtom(6)
		m.Atoms[a].Coord = chem.Coord{X: float64(i), Y: 0.5 * float64(i%2)}
	}
	b1 := mustBond(t, m, 1, 2, 2)
	b2 := mustBond(t, m, 2, 3, 2)
	mustBond(t, m, 0, 1, 1)
	mustBond(t, m, 3, 4, 1)
	m.Bonds[b1].Stereo = chem.StereoCross
	m.Bonds[b2].Stereo = chem.StereoCross

	c := canonize(t, m, Options{Mode: ModeEnantiotopic})
	assert.True(t, c.StereoProblem(2))
}

func TestTrustedParitiesBypassGeometry(t *testing.T) {
	// A molecule without coordinates but with trusted parities keeps them.
	m := buildHalomethane(t, chem.StereoNone)
	for i := range m.Atoms {
		m.Atoms[i].Coord = chem.Coord{}
	}
	m.Atoms[0].Parity = chem.Parity2
	m.KnownParities = true

	c := canonize(t, m, Options{Mode: ModeEnantiotopic})
	p, _ := c.THParity(0)
	assert.Equal(t, chem.Parity2, p)
	assert.Equal(t, chem.ChiralityKnownEnantiomer, c.Chirality())
}

func TestCIPDescriptorsOfEnantiomers(t *testing.T) {
	opts := Options{Mode: ModeEnantiotopic}
	up := canonize(t, buildHalomethane(t, chem.StereoUp), opts)
	down := canonize(t, buildHalomethane(t, chem.StereoDown), opts)

	// Opposite configurations earn opposite descriptors.
	labels := map[chem.CIPLabel]bool{up.CIPAtom(0): true, down.CIPAtom(0): true}
	assert.True(t, labels[chem.CIPR])
	assert.True(t, labels[chem.CIPS])
}
