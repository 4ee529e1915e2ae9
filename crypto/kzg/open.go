package kzg

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Proof is a 48-byte compressed BLS12-381 G1 point (the quotient-polynomial
// commitment π).
type Proof [CompressedG1Size]byte

// Open computes the KZG opening (π, y) of blob at evaluation point z, per
// §4.5. The basis-dependent code path is selected automatically from ctx.
func (ctx *Context) Open(blob *Blob, z fr.Element) (Proof, fr.Element, error) {
	evals, err := blob.Evaluations()
	if err != nil {
		return Proof{}, fr.Element{}, err
	}

	var (
		proofPoint bls12381.G1Affine
		y          fr.Element
	)
	switch ctx.Basis {
	case BasisLagrange:
		proofPoint, y, err = ctx.openLagrange(evals, z)
	default:
		proofPoint, y, err = ctx.openMonomial(evals, z)
	}
	if err != nil {
		return Proof{}, fr.Element{}, err
	}
	return proofPoint.Bytes(), y, nil
}

// openLagrange implements the direct (Lagrange-basis) opening of §4.5: a
// barycentric evaluation of y = p(z) followed by a per-domain-point quotient
// with the standard in-domain correction term.
func (ctx *Context) openLagrange(evals []fr.Element, z fr.Element) (bls12381.G1Affine, fr.Element, error) {
	n := ctx.Domain.Size()

	k, inDomain := ctx.Domain.IndexOf(&z)

	var y fr.Element
	if inDomain {
		y = evals[k]
	} else {
		var err error
		y, err = barycentricEval(ctx.Domain, evals, z)
		if err != nil {
			return bls12381.G1Affine{}, fr.Element{}, err
		}
	}

	quotients := make([]fr.Element, n)
	var sumWeighted fr.Element // Σ_{i≠k} q_i·ω^i, only used when inDomain
	for i := uint64(0); i < n; i++ {
		if inDomain && i == k {
			continue
		}
		denom := ctx.Domain.At(i)
		denom.Sub(&denom, &z)
		if denom.IsZero() {
			return bls12381.G1Affine{}, fr.Element{}, ErrInternalInvariant
		}
		var num fr.Element
		num.Sub(&evals[i], &y)
		var q fr.Element
		q.Div(&num, &denom)
		quotients[i] = q

		if inDomain {
			wi := ctx.Domain.At(i)
			var term fr.Element
			term.Mul(&q, &wi)
			sumWeighted.Add(&sumWeighted, &term)
		}
	}
	if inDomain {
		var qk fr.Element
		qk.Neg(&sumWeighted)
		wkInv := ctx.Domain.AtInv(k)
		qk.Mul(&qk, &wkInv)
		quotients[k] = qk
	}

	jac, err := MSM(ctx.G1[:n], quotients)
	if err != nil {
		return bls12381.G1Affine{}, fr.Element{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, y, nil
}

// barycentricEval evaluates the degree-<n polynomial through (ω^i, evals[i])
// at z (not a domain point), using the standard roots-of-unity barycentric
// formula: p(z) = (z^n - 1)/n * Σ_i evals[i]·ω^i / (z - ω^i).
func barycentricEval(d *Domain, evals []fr.Element, z fr.Element) (fr.Element, error) {
	n := d.Size()

	var zn fr.Element
	zn.Exp(z, new(big.Int).SetUint64(n))
	var vanishing fr.Element
	vanishing.Sub(&zn, newOne())
	vanishing.Mul(&vanishing, &d.nInv)

	var sum fr.Element
	for i := uint64(0); i < n; i++ {
		var denom fr.Element
		denom.Sub(&z, &d.powers[i])
		if denom.IsZero() {
			return fr.Element{}, ErrInternalInvariant
		}
		var term fr.Element
		term.Mul(&evals[i], &d.powers[i])
		term.Div(&term, &denom)
		sum.Add(&sum, &term)
	}

	var y fr.Element
	y.Mul(&vanishing, &sum)
	return y, nil
}

func newOne() *fr.Element {
	var one fr.Element
	one.SetOne()
	return &one
}

// openMonomial implements the monomial-basis opening of §4.5: iFFT to
// coefficients, Horner evaluation at z, then synthetic division by (x - z).
func (ctx *Context) openMonomial(evals []fr.Element, z fr.Element) (bls12381.G1Affine, fr.Element, error) {
	n := int(ctx.Domain.Size())
	coeffs := make([]fr.Element, n)
	copy(coeffs, evals)
	if err := IFFT(ctx.Domain, coeffs); err != nil {
		return bls12381.G1Affine{}, fr.Element{}, err
	}

	y := hornerEval(coeffs, z)

	// Synthetic division of (coeffs - y) by (x - z): quotient has degree
	// n-2, i.e. n-1 coefficients b[0..n-2], with b[n-2] = coeffs[n-1] and
	// b[i-1] = coeffs[i] + z*b[i] scanning from the top down.
	quotient := make([]fr.Element, n)
	var carry fr.Element
	for i := n - 1; i >= 1; i-- {
		var next fr.Element
		next.Mul(&carry, &z)
		next.Add(&next, &coeffs[i])
		carry = next
		quotient[i-1] = carry
	}
	// quotient now holds b_0..b_{n-2} in quotient[0..n-2]; quotient[n-1] is
	// unused (the top coefficient cancels by construction of division by a
	// degree-1 factor of an exact polynomial).
	jac, err := MSM(ctx.G1[:n-1], quotient[:n-1])
	if err != nil {
		return bls12381.G1Affine{}, fr.Element{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, y, nil
}

func hornerEval(coeffs []fr.Element, z fr.Element) fr.Element {
	var acc fr.Element
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc.Mul(&acc, &z)
		acc.Add(&acc, &coeffs[i])
	}
	return acc
}

// Verify checks a KZG opening (z, y, π) against commitment C, per §4.5's
// pairing equation e(π, τ·H − z·H) = e(C − y·G, H). A false return is a
// normal cryptographic reject, not an error.
func (ctx *Context) Verify(commitment Commitment, z, y fr.Element, proof Proof) (bool, error) {
	var c, pi bls12381.G1Affine
	if _, err := c.SetBytes(commitment[:]); err != nil {
		return false, ErrWrongCommitLength
	}
	if _, err := pi.SetBytes(proof[:]); err != nil {
		return false, ErrWrongProofLength
	}

	// A = τ·H − z·H
	h := ctx.G2[0]
	tauH := ctx.G2[1]
	var zH bls12381.G2Affine
	zBig := new(big.Int)
	z.BigInt(zBig)
	var zHJac bls12381.G2Jac
	zHJac.FromAffine(&h)
	zHJac.ScalarMultiplication(&zHJac, zBig)
	zH.FromJacobian(&zHJac)

	var tauHJac, zHJacNeg bls12381.G2Jac
	tauHJac.FromAffine(&tauH)
	zHJacNeg.FromAffine(&zH)
	zHJacNeg.Neg(&zHJacNeg)
	tauHJac.AddAssign(&zHJacNeg)
	var a bls12381.G2Affine
	a.FromJacobian(&tauHJac)

	// B = C − y·G
	g := ctx.generator
	yBig := new(big.Int)
	y.BigInt(yBig)
	var yGJac bls12381.G1Jac
	yGJac.FromAffine(&g)
	yGJac.ScalarMultiplication(&yGJac, yBig)
	var cJac bls12381.G1Jac
	cJac.FromAffine(&c)
	yGJac.Neg(&yGJac)
	cJac.AddAssign(&yGJac)
	var b bls12381.G1Affine
	b.FromJacobian(&cJac)

	var hNeg bls12381.G2Affine
	hNeg.Neg(&h)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{pi, b},
		[]bls12381.G2Affine{a, hNeg},
	)
	if err != nil {
		return false, err
	}
	return ok, nil
}
