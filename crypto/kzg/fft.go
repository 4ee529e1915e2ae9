package kzg

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// FFT evaluates the polynomial whose coefficients are coeffs (natural
// order, low degree first) at every point of d's domain, in place. len(coeffs)
// must equal d.Size(). This is the radix-2 Cooley-Tukey forward transform:
// bit-reverse permutation, then log2(n) butterfly stages using powers of ω.
func FFT(d *Domain, coeffs []fr.Element) error {
	if uint64(len(coeffs)) != d.size {
		return ErrInputNotPowerOfTwo
	}
	bitReverse(coeffs)
	butterflyStages(coeffs, d.generator)
	return nil
}

// IFFT recovers polynomial coefficients from values (evaluations over d's
// domain, natural order), in place: forward transform with ω^-1, then scale
// every output by n^-1.
func IFFT(d *Domain, values []fr.Element) error {
	if uint64(len(values)) != d.size {
		return ErrInputNotPowerOfTwo
	}
	bitReverse(values)
	butterflyStages(values, d.generatorInv)
	for i := range values {
		values[i].Mul(&values[i], &d.nInv)
	}
	return nil
}

func bitReverse(a []fr.Element) {
	n := uint(len(a))
	bits := uint(0)
	for (1 << bits) < n {
		bits++
	}
	for i := uint(0); i < n; i++ {
		j := reverseBits(i, bits)
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}

func reverseBits(x, bits uint) uint {
	var r uint
	for b := uint(0); b < bits; b++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// butterflyStages runs the Cooley-Tukey stages over a bit-reversed input
// using root as the primitive n-th root of unity (ω for forward, ω^-1 for
// inverse).
func butterflyStages(a []fr.Element, root fr.Element) {
	n := len(a)
	for size := 2; size <= n; size *= 2 {
		half := size / 2
		// twiddle step: root raised to n/size gives the primitive `size`-th
		// root needed for this stage.
		var stageRoot fr.Element
		stageRoot.Exp(root, new(big.Int).SetUint64(uint64(n/size)))

		for start := 0; start < n; start += size {
			var w fr.Element
			w.SetOne()
			for k := 0; k < half; k++ {
				var t fr.Element
				t.Mul(&w, &a[start+k+half])
				var u fr.Element
				u.Set(&a[start+k])

				a[start+k].Add(&u, &t)
				a[start+k+half].Sub(&u, &t)

				w.Mul(&w, &stageRoot)
			}
		}
	}
}
