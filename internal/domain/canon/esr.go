package canon

import (
	"sort"

	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// CleanESR removes ESR membership from atoms that are not stereo centers at
// all.  Members with an explicitly unknown configuration keep their
// membership; they are a validation failure, not a silent cleanup.  Reports
// whether anything changed.
func (c *Canonizer) CleanESR() bool {
	changed := false
	for i := range c.mol.Atoms {
		a := &c.mol.Atoms[i]
		if a.ESR.Type == chem.ESRTypeAbs {
			continue
		}
		if c.thParity[i] == chem.ParityNone {
			a.ESR = chem.ESR{}
			changed = true
		}
	}
	return changed
}

// ResolveRacemate converts a molecule flagged as racemate of the drawn
// structure into explicit AND-group notation: unless the molecule is meso,
// every stereo center that is undetermined or already racemic moves into its
// own single-member AND group, and undetermined parities are fixed to the
// reference configuration.  The racemate flag is consumed either way.
//
// When a change was made the derived parities are published back onto the
// molecule as trusted values and the caller must re-canonicalize once, so
// that reported absolute values reflect the resolved graph.
func (c *Canonizer) ResolveRacemate() bool {
	m := c.mol
	if !m.IsRacemate {
		return false
	}
	m.IsRacemate = false
	if c.chirality == chem.ChiralityMeso {
		return false
	}

	changed := false
	group := 0
	for i := range m.Atoms {
		if c.thParity[i] == chem.ParityNone || c.thPseudo[i] {
			continue
		}
		a := &m.Atoms[i]
		if c.thParity[i] == chem.ParityUnknown || a.ESR.Type == chem.ESRTypeAnd {
			esr := chem.ESR{Type: chem.ESRTypeAnd, Group: group}
			group++
			if a.ESR != esr {
				a.ESR = esr
				changed = true
			}
			if c.thParity[i] == chem.ParityUnknown {
				c.thParity[i] = chem.Parity1
				a.ConfigurationUnknown = false
				changed = true
			}
		}
	}

	if changed {
		c.WriteStereo()
		m.KnownParities = true
	}
	return changed
}

// RenumberESRGroups renumbers the groups of the given type to be contiguous
// from zero, ordered by the lowest canonical rank among each group's members.
// Automorphic molecules therefore produce identical group numbers.  Reports
// whether any number changed.
func (c *Canonizer) RenumberESRGroups(t chem.ESRType) bool {
	if t == chem.ESRTypeAbs {
		return false
	}
	m := c.mol

	minRank := make(map[int]int)
	for i := range m.Atoms {
		if m.Atoms[i].ESR.Type != t {
			continue
		}
		g := m.Atoms[i].ESR.Group
		if r, ok := minRank[g]; !ok || c.ranks[i] < r {
			minRank[g] = c.ranks[i]
		}
	}
	if len(minRank) == 0 {
		return false
	}

	old := make([]int, 0, len(minRank))
	for g := range minRank {
		old = append(old, g)
	}
	sort.Slice(old, func(i, j int) bool { return minRank[old[i]] < minRank[old[j]] })

	remap := make(map[int]int, len(old))
	for newNo, g := range old {
		remap[g] = newNo
	}

	changed := false
	for i := range m.Atoms {
		if m.Atoms[i].ESR.Type != t {
			continue
		}
		if newNo := remap[m.Atoms[i].ESR.Group]; newNo != m.Atoms[i].ESR.Group {
			m.Atoms[i].ESR.Group = newNo
			changed = true
		}
	}
	return changed
}
