package molecule

import (
	"github.com/turtacn/MolCanon/internal/domain/graph"
)

// SplitFragments splits a disconnected molecule into one StereoMol per
// connected component, ordered by the lowest parent atom index.  Each
// fragment is an independent copy with its own helper state; ESR group
// numbers are renumbered per fragment on its first canonicalization.  The
// parent molecule is left untouched.
func (sm *StereoMol) SplitFragments() ([]*StereoMol, error) {
	h, err := sm.Helpers()
	if err != nil {
		return nil, err
	}

	frags := graph.Fragments(sm.mol, h)
	out := make([]*StereoMol, len(frags))
	for i := range frags {
		out[i] = Wrap(frags[i].Mol)
	}
	return out, nil
}

// FragmentCount returns the number of connected components.
func (sm *StereoMol) FragmentCount() (int, error) {
	h, err := sm.Helpers()
	if err != nil {
		return 0, err
	}
	return h.FragmentCount, nil
}
