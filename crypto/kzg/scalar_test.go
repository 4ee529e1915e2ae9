package kzg

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	qt "github.com/frankban/quicktest"
)

func TestIsCanonicalScalar(t *testing.T) {
	c := qt.New(t)

	var zero [BytesPerScalar]byte
	c.Assert(IsCanonicalScalar(zero), qt.IsTrue)

	c.Assert(IsCanonicalScalar(modulusBytes), qt.IsFalse)

	aboveModulus := modulusBytes
	aboveModulus[BytesPerScalar-1]++
	c.Assert(IsCanonicalScalar(aboveModulus), qt.IsFalse)
}

func TestScalarFromCanonicalBytesRejectsNonCanonical(t *testing.T) {
	c := qt.New(t)

	_, err := ScalarFromCanonicalBytes(modulusBytes)
	c.Assert(err, qt.Equals, ErrInvalidScalar)
}

func TestScalarRoundTrip(t *testing.T) {
	c := qt.New(t)

	var e fr.Element
	e.SetUint64(424242)
	b := ScalarToBytes(&e)

	got, err := ScalarFromCanonicalBytes(b)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(&e), qt.IsTrue)
}

func TestScalarFromWideBytesReduces(t *testing.T) {
	c := qt.New(t)

	wide := make([]byte, 64)
	for i := range wide {
		wide[i] = 0xff
	}
	e := ScalarFromWideBytes(wide)

	// Re-encode: the result must already be canonical (below the modulus).
	b := ScalarToBytes(&e)
	c.Assert(IsCanonicalScalar(b), qt.IsTrue)
}
