package canon

import (
	"encoding/base64"
	"math"

	"github.com/turtacn/MolCanon/internal/domain/graph"
	"github.com/turtacn/MolCanon/pkg/errors"
)

// coordResolution is the fixed-point range per axis.
const coordResolution = 65535

// EncodeCoordinates serializes the atom positions in canonical-rank order,
// matching the identifier's atom order: a bounding-box origin and scale as
// full-precision floats, then 16-bit fixed-point offsets per axis.  The
// quantization preserves every relative-parity decision the geometry encodes.
func (c *Canonizer) EncodeCoordinates() string {
	m := c.mol
	n := len(m.Atoms)
	if n == 0 {
		return ""
	}

	atomAt := make([]int, n)
	for a, r := range c.ranks {
		atomAt[r-1] = a
	}

	has3D := false
	minV := vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	maxV := vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for i := range m.Atoms {
		co := m.Atoms[i].Coord
		if co.Z != 0 {
			has3D = true
		}
		minV.x = math.Min(minV.x, co.X)
		minV.y = math.Min(minV.y, co.Y)
		minV.z = math.Min(minV.z, co.Z)
		maxV.x = math.Max(maxV.x, co.X)
		maxV.y = math.Max(maxV.y, co.Y)
		maxV.z = math.Max(maxV.z, co.Z)
	}
	extent := math.Max(maxV.x-minV.x, maxV.y-minV.y)
	if has3D {
		extent = math.Max(extent, maxV.z-minV.z)
	}

	w := &bitWriter{}
	var dim uint64
	if has3D {
		dim = 1
	}
	w.write(dim, 1)
	w.write(math.Float64bits(minV.x), 64)
	w.write(math.Float64bits(minV.y), 64)
	if has3D {
		w.write(math.Float64bits(minV.z), 64)
	}
	w.write(math.Float64bits(extent), 64)

	quant := func(v, min float64) uint64 {
		if extent <= 0 {
			return 0
		}
		q := math.Round((v - min) / extent * coordResolution)
		if q < 0 {
			q = 0
		}
		if q > coordResolution {
			q = coordResolution
		}
		return uint64(q)
	}
	for _, a := range atomAt {
		co := m.Atoms[a].Coord
		w.write(quant(co.X, minV.x), 16)
		w.write(quant(co.Y, minV.y), 16)
		if has3D {
			w.write(quant(co.Z, minV.z), 16)
		}
	}

	return base64.RawURLEncoding.EncodeToString(w.bytes())
}

// DecodeCoordinates applies an encoded geometry onto a molecule whose atom
// order matches the encoding, i.e. one reconstructed by Decode from the
// matching identifier.
func DecodeCoordinates(m *graph.Mol, encoded string) error {
	if encoded == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCoordinatesInvalid, "malformed encoded coordinates")
	}
	r := &bitReader{buf: raw}

	dim, err := r.read(1)
	if err != nil {
		return coordsErr(err)
	}
	has3D := dim == 1

	minX, err := readFloat(r)
	if err != nil {
		return coordsErr(err)
	}
	minY, err := readFloat(r)
	if err != nil {
		return coordsErr(err)
	}
	minZ := 0.0
	if has3D {
		if minZ, err = readFloat(r); err != nil {
			return coordsErr(err)
		}
	}
	extent, err := readFloat(r)
	if err != nil {
		return coordsErr(err)
	}

	for i := range m.Atoms {
		x, err := r.read(16)
		if err != nil {
			return coordsErr(err)
		}
		y, err := r.read(16)
		if err != nil {
			return coordsErr(err)
		}
		co := &m.Atoms[i].Coord
		co.X = minX + float64(x)/coordResolution*extent
		co.Y = minY + float64(y)/coordResolution*extent
		if has3D {
			z, err := r.read(16)
			if err != nil {
				return coordsErr(err)
			}
			co.Z = minZ + float64(z)/coordResolution*extent
		}
	}
	return nil
}

func readFloat(r *bitReader) (float64, error) {
	bits, err := r.read(64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func coordsErr(err error) error {
	return errors.Wrap(err, errors.ErrCodeCoordinatesInvalid, "malformed encoded coordinates")
}
