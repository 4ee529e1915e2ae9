package kzg

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	qt "github.com/frankban/quicktest"
)

func TestFFTRoundTrip(t *testing.T) {
	c := qt.New(t)

	d, err := NewDomain(256)
	c.Assert(err, qt.IsNil)

	coeffs := make([]fr.Element, 256)
	for i := range coeffs {
		coeffs[i].SetUint64(uint64(i*7 + 1))
	}
	original := make([]fr.Element, len(coeffs))
	copy(original, coeffs)

	c.Assert(FFT(d, coeffs), qt.IsNil)
	c.Assert(IFFT(d, coeffs), qt.IsNil)

	for i := range coeffs {
		c.Assert(coeffs[i].Equal(&original[i]), qt.IsTrue, qt.Commentf("mismatch at index %d", i))
	}
}

func TestFFTEvaluatesAtDomainPoints(t *testing.T) {
	c := qt.New(t)

	d, err := NewDomain(16)
	c.Assert(err, qt.IsNil)

	// p(x) = 3 + 2x, evaluated directly at each ω^i should match FFT output.
	coeffs := make([]fr.Element, 16)
	coeffs[0].SetUint64(3)
	coeffs[1].SetUint64(2)

	evals := make([]fr.Element, 16)
	copy(evals, coeffs)
	c.Assert(FFT(d, evals), qt.IsNil)

	for i := uint64(0); i < 16; i++ {
		wi := d.At(i)
		var want fr.Element
		want.Mul(&coeffs[1], &wi)
		want.Add(&want, &coeffs[0])
		c.Assert(evals[i].Equal(&want), qt.IsTrue, qt.Commentf("index %d", i))
	}
}

func TestFFTRejectsWrongLength(t *testing.T) {
	c := qt.New(t)

	d, err := NewDomain(16)
	c.Assert(err, qt.IsNil)

	c.Assert(FFT(d, make([]fr.Element, 15)), qt.Equals, ErrInputNotPowerOfTwo)
	c.Assert(IFFT(d, make([]fr.Element, 17)), qt.Equals, ErrInputNotPowerOfTwo)
}
