package kzg

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Blob is a fixed-size, natural-order sequence of ScalarsPerBlob cells,
// interpreted as evaluations of a degree-<ScalarsPerBlob polynomial on the
// domain {ω^0, ..., ω^{n-1}}.
type Blob [BlobSize]byte

// IsZero reports whether every byte of the blob is zero.
func (b *Blob) IsZero() bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Evaluations decodes the blob's ScalarsPerBlob cells into scalar field
// evaluations. Each cell takes the canonical (fast) path when it is already
// reduced - true of every core-produced cell, since the packer always
// zeroes the top byte - and falls back to wide modular reduction otherwise,
// so cells with arbitrary top bytes (e.g. Reed-Solomon parity bytes, which
// have no relationship to the scalar field modulus) still decode.
func (b *Blob) Evaluations() ([]fr.Element, error) {
	out := make([]fr.Element, ScalarsPerBlob)
	for i := 0; i < ScalarsPerBlob; i++ {
		cellBytes := b[i*BytesPerScalar : (i+1)*BytesPerScalar]
		var cell [BytesPerScalar]byte
		copy(cell[:], cellBytes)
		if e, err := ScalarFromCanonicalBytes(cell); err == nil {
			out[i] = e
			continue
		}
		out[i] = ScalarFromWideBytes(cellBytes)
	}
	return out, nil
}

// Commitment is a 48-byte compressed BLS12-381 G1 point.
type Commitment [CompressedG1Size]byte

// Commit computes the KZG commitment of blob under ctx, per §4.4. The
// all-zero blob always maps to the compressed G1 identity. Otherwise the two
// basis-dependent code paths (Lagrange: direct MSM of evaluations;
// monomial: iFFT to coefficients, then MSM skipping zero coefficients) must
// and do yield identical output for the same blob.
func (ctx *Context) Commit(blob *Blob) (Commitment, error) {
	if blob.IsZero() {
		return ctx.IdentityCompressed(), nil
	}

	evals, err := blob.Evaluations()
	if err != nil {
		return Commitment{}, err
	}

	var point bls12381.G1Affine
	switch ctx.Basis {
	case BasisLagrange:
		point, err = ctx.commitLagrange(evals)
	default:
		point, err = ctx.commitMonomial(evals)
	}
	if err != nil {
		return Commitment{}, err
	}
	return point.Bytes(), nil
}

func (ctx *Context) commitLagrange(evals []fr.Element) (bls12381.G1Affine, error) {
	jac, err := MSM(ctx.G1[:ScalarsPerBlob], evals)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

func (ctx *Context) commitMonomial(evals []fr.Element) (bls12381.G1Affine, error) {
	coeffs := make([]fr.Element, len(evals))
	copy(coeffs, evals)
	if err := IFFT(ctx.Domain, coeffs); err != nil {
		return bls12381.G1Affine{}, err
	}

	// Skip zero coefficients: MSM over a sparse coefficient vector.
	points := make([]bls12381.G1Affine, 0, len(coeffs))
	scalars := make([]fr.Element, 0, len(coeffs))
	for i, c := range coeffs {
		if c.IsZero() {
			continue
		}
		points = append(points, ctx.G1[i])
		scalars = append(scalars, c)
	}

	jac, err := MSM(points, scalars)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}
