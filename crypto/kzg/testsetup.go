package kzg

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// BuildInsecureTestContext constructs a self-consistent Context of the
// requested basis from a small, fixed, non-secret toxic-waste scalar. It
// exists so the module's test suites that need one (kzg, rscode, shard)
// can obtain a working KZG context without standing up a real
// ceremony artifact. It must never be used for anything but tests: the
// "trusted" setup it builds is not trusted at all.
func BuildInsecureTestContext(basis Basis) (*Context, error) {
	d, err := NewDomain(ScalarsPerBlob)
	if err != nil {
		return nil, err
	}

	var tau fr.Element
	tau.SetUint64(987654321)
	if _, inDomain := d.IndexOf(&tau); inDomain {
		tau.SetUint64(987654323)
	}

	_, _, g1gen, g2gen := bls12381.Generators()

	var g1 []bls12381.G1Affine
	switch basis {
	case BasisLagrange:
		g1 = make([]bls12381.G1Affine, ScalarsPerBlob)
		for i := uint64(0); i < ScalarsPerBlob; i++ {
			li := testLagrangeAt(d, i, tau)
			g1[i] = testScalarMulG1(g1gen, &li)
		}
	default:
		g1 = make([]bls12381.G1Affine, ScalarsPerBlob)
		power := new(fr.Element)
		power.SetOne()
		for i := 0; i < ScalarsPerBlob; i++ {
			g1[i] = testScalarMulG1(g1gen, power)
			power.Mul(power, &tau)
		}
	}

	var tauBig big.Int
	tau.BigInt(&tauBig)
	var jp bls12381.G2Jac
	jp.FromAffine(&g2gen)
	jp.ScalarMultiplication(&jp, &tauBig)
	var tauH bls12381.G2Affine
	tauH.FromJacobian(&jp)

	return newContextFromPoints(g1, [2]bls12381.G2Affine{g2gen, tauH})
}

func testScalarMulG1(base bls12381.G1Affine, s *fr.Element) bls12381.G1Affine {
	var sBig big.Int
	s.BigInt(&sBig)
	var jp bls12381.G1Jac
	jp.FromAffine(&base)
	jp.ScalarMultiplication(&jp, &sBig)
	var out bls12381.G1Affine
	out.FromJacobian(&jp)
	return out
}

// testLagrangeAt evaluates L_i(tau) = (omega^i / n) * (tau^n - 1) / (tau - omega^i).
func testLagrangeAt(d *Domain, i uint64, tau fr.Element) fr.Element {
	wi := d.At(i)
	var denom fr.Element
	denom.Sub(&tau, &wi)

	var taun fr.Element
	taun.Exp(tau, new(big.Int).SetUint64(d.Size()))
	var one fr.Element
	one.SetOne()
	var numer fr.Element
	numer.Sub(&taun, &one)

	var frac fr.Element
	frac.Div(&numer, &denom)

	var out fr.Element
	out.Mul(&frac, &wi)
	out.Mul(&out, &d.nInv)
	return out
}
