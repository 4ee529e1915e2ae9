package kzg

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// modulusBytes holds the canonical big-endian BLS12-381 Fr modulus, used to
// test whether a 32-byte chunk is already in canonical (reduced) form.
var modulusBytes = func() [BytesPerScalar]byte {
	var out [BytesPerScalar]byte
	fr.Modulus().FillBytes(out[:])
	return out
}()

// IsCanonicalScalar reports whether b, read as a big-endian unsigned
// integer, is strictly less than the BLS12-381 scalar field modulus. Cells
// produced by the packer (§4.6) are always canonical because their top byte
// is zero; bytes arriving from outside the core (a caller-supplied
// evaluation point, a Merkle-derived root) are not guaranteed to be.
func IsCanonicalScalar(b [BytesPerScalar]byte) bool {
	for i := range b {
		switch {
		case b[i] < modulusBytes[i]:
			return true
		case b[i] > modulusBytes[i]:
			return false
		}
	}
	return false // equal to the modulus is not canonical (scalar must be < modulus)
}

// ScalarFromCanonicalBytes decodes b as a canonical big-endian Fr element,
// rejecting any value that is not strictly below the modulus. This is the
// "fast canonical path" of §4.4: well-formed blob cells (top byte zero) and
// externally supplied scalars that claim to already be reduced go through
// here.
func ScalarFromCanonicalBytes(b [BytesPerScalar]byte) (fr.Element, error) {
	if !IsCanonicalScalar(b) {
		return fr.Element{}, ErrInvalidScalar
	}
	var e fr.Element
	e.SetBytes(b[:])
	return e, nil
}

// ScalarFromWideBytes decodes b as a big-endian unsigned integer and reduces
// it modulo the scalar field, regardless of whether b is already canonical.
// This is the "wide" modular-reduction path §4.4 requires for chunks that
// may equal or exceed the modulus (e.g. a raw Blake2s-256 Merkle root before
// it is placed into the manifest blob).
func ScalarFromWideBytes(b []byte) fr.Element {
	bi := new(big.Int).SetBytes(b)
	bi.Mod(bi, fr.Modulus())
	var e fr.Element
	e.SetBigInt(bi)
	return e
}

// ScalarToBytes returns the canonical big-endian 32-byte encoding of e.
func ScalarToBytes(e *fr.Element) [BytesPerScalar]byte {
	return e.Bytes()
}
