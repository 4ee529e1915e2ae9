package kzg

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// primitiveRootGenerator is the well-known multiplicative generator of the
// BLS12-381 scalar field used (as in the EIP-4844 KZG spec) to derive roots
// of unity of any power-of-two order by exponentiation: ω = g^((q-1)/n).
// The teacher's crypto/blobs package derives the same family of roots the
// same way (big.Int exponentiation of a small generator) when it needs to
// avoid colliding evaluation points with domain points.
var primitiveRootGenerator = big.NewInt(7)

// Domain holds the natural-order evaluation domain {ω^0, ..., ω^{n-1}} for
// the scalar field, used by the FFT engine and by single-point opening.
type Domain struct {
	size         uint64
	generator    fr.Element // ω, primitive n-th root of unity
	generatorInv fr.Element // ω^-1
	nInv         fr.Element // n^-1 mod q
	powers       []fr.Element
	powersInv    []fr.Element
	indexOf      map[fr.Element]uint64
}

// NewDomain builds the evaluation domain of the given power-of-two size.
func NewDomain(size uint64) (*Domain, error) {
	if size == 0 || size&(size-1) != 0 {
		return nil, ErrInputNotPowerOfTwo
	}

	mod := fr.Modulus()
	qMinus1 := new(big.Int).Sub(mod, big.NewInt(1))
	n := new(big.Int).SetUint64(size)
	exp := new(big.Int)
	if exp.Mod(qMinus1, n); exp.Sign() != 0 {
		return nil, ErrInputNotPowerOfTwo
	}
	exp.Div(qMinus1, n)

	omegaBig := new(big.Int).Exp(primitiveRootGenerator, exp, mod)
	var omega fr.Element
	omega.SetBigInt(omegaBig)

	var omegaInv fr.Element
	omegaInv.Inverse(&omega)

	var nElem fr.Element
	nElem.SetUint64(size)
	var nInv fr.Element
	if nInv.Inverse(&nElem); nInv.IsZero() {
		return nil, ErrInternalInvariant
	}

	d := &Domain{
		size:         size,
		generator:    omega,
		generatorInv: omegaInv,
		nInv:         nInv,
	}
	d.powers = powersOf(omega, size)
	d.powersInv = powersOf(omegaInv, size)
	d.indexOf = make(map[fr.Element]uint64, size)
	for i, p := range d.powers {
		d.indexOf[p] = uint64(i)
	}
	return d, nil
}

func powersOf(base fr.Element, n uint64) []fr.Element {
	out := make([]fr.Element, n)
	out[0].SetOne()
	for i := uint64(1); i < n; i++ {
		out[i].Mul(&out[i-1], &base)
	}
	return out
}

// Size returns the domain's cardinality n.
func (d *Domain) Size() uint64 { return d.size }

// Generator returns ω, the domain's primitive n-th root of unity.
func (d *Domain) Generator() fr.Element { return d.generator }

// GeneratorInv returns ω^-1.
func (d *Domain) GeneratorInv() fr.Element { return d.generatorInv }

// At returns ω^i in natural order (no bit-reversal applied).
func (d *Domain) At(i uint64) fr.Element { return d.powers[i%d.size] }

// AtInv returns ω^-i in natural order.
func (d *Domain) AtInv(i uint64) fr.Element { return d.powersInv[i%d.size] }

// IndexOf returns the domain index k such that ω^k == z, and reports
// whether z lies in the domain at all.
func (d *Domain) IndexOf(z *fr.Element) (uint64, bool) {
	i, ok := d.indexOf[*z]
	return i, ok
}

// NInv returns n^-1 mod q, used to scale inverse-FFT outputs.
func (d *Domain) NInv() fr.Element { return d.nInv }

// ErrInputNotPowerOfTwo signals a domain/FFT size request that cannot form a
// radix-2 evaluation domain.
var ErrInputNotPowerOfTwo = newFFTError("fft: size must be a non-zero power of two dividing q-1")

func newFFTError(msg string) error { return &fftError{msg} }

type fftError struct{ msg string }

func (e *fftError) Error() string { return e.msg }
