package canon

import (
	"encoding/base64"
	"sort"

	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/errors"
	"github.com/turtacn/MolCanon/pkg/types/chem"
)

// idcodeVersion is the encoding version written into every identifier.
const idcodeVersion = 1

// IDCode serializes the molecule in canonical-rank order into a lossless,
// label-independent identifier: atoms carry atomic number, mass, charge,
// absolute parity, and ESR membership; bonds carry canonical endpoint
// indices, order, and absolute double-bond parity.  Two molecules produce
// the same identifier iff they are canonically equal including stereo.
func (c *Canonizer) IDCode() string {
	m := c.mol
	n := len(m.Atoms)

	// atomAt[i] is the atom holding canonical rank i+1.
	atomAt := make([]int, n)
	for a, r := range c.ranks {
		atomAt[r-1] = a
	}
	canIdx := make([]int, n) // atom -> canonical index
	for i, a := range atomAt {
		canIdx[a] = i
	}

	w := &bitWriter{}
	w.write(idcodeVersion, 4)
	w.write(uint64(n), 16)
	w.write(uint64(len(m.Bonds)), 16)
	var frag uint64
	if m.IsFragment {
		frag = 1
	}
	w.write(frag, 1)

	for _, a := range atomAt {
		atom := &m.Atoms[a]
		w.write(uint64(atom.AtomicNo), 8)
		w.write(uint64(atom.Mass&0xff), 8)
		w.write(uint64(atom.Charge+32), 6)
		w.write(uint64(c.absTH[a]), 2)
		var pseudo uint64
		if c.thPseudo[a] {
			pseudo = 1
		}
		w.write(pseudo, 1)
		w.write(uint64(atom.ESR.Type), 2)
		if atom.ESR.Type != chem.ESRTypeAbs {
			w.write(uint64(atom.ESR.Group), 5)
		}
	}

	type canBond struct {
		lo, hi, idx int
	}
	bonds := make([]canBond, len(m.Bonds))
	for i := range m.Bonds {
		b := &m.Bonds[i]
		lo, hi := canIdx[b.Atom1], canIdx[b.Atom2]
		if lo > hi {
			lo, hi = hi, lo
		}
		bonds[i] = canBond{lo, hi, i}
	}
	sort.Slice(bonds, func(i, j int) bool {
		if bonds[i].lo != bonds[j].lo {
			return bonds[i].lo < bonds[j].lo
		}
		return bonds[i].hi < bonds[j].hi
	})

	idxBits := bitsNeeded(n)
	for _, cb := range bonds {
		b := &m.Bonds[cb.idx]
		w.write(uint64(cb.lo), idxBits)
		w.write(uint64(cb.hi), idxBits)
		w.write(uint64(b.Order-1), 2)
		w.write(uint64(c.absEZ[cb.idx]), 2)
		var pseudo uint64
		if c.ezPseudo[cb.idx] {
			pseudo = 1
		}
		w.write(pseudo, 1)
	}

	return base64.RawURLEncoding.EncodeToString(w.bytes())
}

// Decode reconstructs a molecule from its canonical identifier.  Atoms appear
// in canonical order, so the encoded absolute parities become the relative
// parities of the result; the molecule is marked as carrying trusted
// parities.  Re-canonicalizing the result reproduces the identifier.
func Decode(idcode string) (*graph.Mol, error) {
	raw, err := base64.RawURLEncoding.DecodeString(idcode)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIDCodeInvalid, "malformed canonical identifier")
	}
	r := &bitReader{buf: raw}

	version, err := r.read(4)
	if err != nil {
		return nil, err
	}
	if version != idcodeVersion {
		return nil, errors.New(errors.ErrCodeIDCodeVersion, "unsupported canonical identifier version").
			WithDetailf("version=%d", version)
	}

	atomCount, err := r.read(16)
	if err != nil {
		return nil, err
	}
	bondCount, err := r.read(16)
	if err != nil {
		return nil, err
	}
	if atomCount > chem.MaxAtoms {
		return nil, errors.New(errors.ErrCodeMoleculeTooLarge, "identifier exceeds maximum atom count").
			WithDetailf("atoms=%d", atomCount)
	}
	frag, err := r.read(1)
	if err != nil {
		return nil, err
	}

	m := graph.New(int(atomCount), int(bondCount))
	m.IsFragment = frag == 1
	m.KnownParities = true

	for i := 0; i < int(atomCount); i++ {
		atomicNo, err := r.read(8)
		if err != nil {
			return nil, err
		}
		mass, err := r.read(8)
		if err != nil {
			return nil, err
		}
		charge, err := r.read(6)
		if err != nil {
			return nil, err
		}
		parity, err := r.read(2)
		if err != nil {
			return nil, err
		}
		pseudo, err := r.read(1)
		if err != nil {
			return nil, err
		}
		esrType, err := r.read(2)
		if err != nil {
			return nil, err
		}
		esr := chem.ESR{Type: chem.ESRType(esrType)}
		if esr.Type != chem.ESRTypeAbs {
			group, err := r.read(5)
			if err != nil {
				return nil, err
			}
			esr.Group = int(group)
		}
		if !esr.Type.IsValid() {
			return nil, errors.New(errors.ErrCodeIDCodeInvalid, "invalid ESR type in identifier")
		}

		idx := m.AddAtom(int(atomicNo))
		a := &m.Atoms[idx]
		a.Mass = int(mass)
		a.Charge = int(charge) - 32
		a.Parity = chem.Parity(parity)
		a.ParityPseudo = pseudo == 1
		a.ESR = esr
	}

	idxBits := bitsNeeded(int(atomCount))
	for i := 0; i < int(bondCount); i++ {
		lo, err := r.read(idxBits)
		if err != nil {
			return nil, err
		}
		hi, err := r.read(idxBits)
		if err != nil {
			return nil, err
		}
		order, err := r.read(2)
		if err != nil {
			return nil, err
		}
		parity, err := r.read(2)
		if err != nil {
			return nil, err
		}
		pseudo, err := r.read(1)
		if err != nil {
			return nil, err
		}

		bi, err := m.AddBond(int(lo), int(hi), int(order)+1)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIDCodeInvalid, "invalid bond in identifier")
		}
		m.Bonds[bi].Parity = chem.Parity(parity)
		m.Bonds[bi].ParityPseudo = pseudo == 1
	}

	return m, nil
}
