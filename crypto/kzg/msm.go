package kzg

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// windowBits returns the Pippenger bucket-window width for n scalars,
// growing with input size per §4.2's schedule.
func windowBits(n int) uint {
	switch {
	case n <= 32:
		return 3
	case n <= 64:
		return 4
	case n <= 128:
		return 5
	case n <= 256:
		return 6
	case n <= 512:
		return 7
	case n <= 1024:
		return 8
	case n <= 2048:
		return 9
	case n <= 4096:
		return 10
	case n <= 8192:
		return 11
	default:
		return 12
	}
}

// scalarBits is the bit-length of the exponent space MSM scans over: the
// BLS12-381 scalar field fits in 255 bits, rounded up to a byte boundary.
const scalarBits = 256

// MSM computes Σ scalars[i]·points[i] over G1 using bucketed Pippenger with
// a descending window scan, per §4.2. points and scalars must have equal
// length; an empty input returns the group identity.
func MSM(points []bls12381.G1Affine, scalars []fr.Element) (bls12381.G1Jac, error) {
	if len(points) != len(scalars) {
		return bls12381.G1Jac{}, ErrInternalInvariant
	}

	var result bls12381.G1Jac
	result.X.SetZero()
	result.Y.SetZero()
	result.Z.SetZero() // Jacobian identity: Z == 0

	if len(points) == 0 {
		return result, nil
	}

	w := windowBits(len(points))
	numWindows := (scalarBits + int(w) - 1) / int(w)
	numBuckets := 1 << w

	// Precompute each scalar's big.Int representation once; Pippenger
	// re-extracts the same digit window across all points on every pass.
	ints := make([]*big.Int, len(scalars))
	for i := range scalars {
		ints[i] = new(big.Int)
		scalars[i].BigInt(ints[i])
	}

	for win := numWindows - 1; win >= 0; win-- {
		// Double the running accumulator w times to shift in the next window
		// (skip on the very first, most-significant window).
		if win != numWindows-1 {
			for i := uint(0); i < w; i++ {
				result.DoubleAssign()
			}
		}

		buckets := make([]bls12381.G1Jac, numBuckets)
		for b := range buckets {
			buckets[b].X.SetZero()
			buckets[b].Y.SetZero()
			buckets[b].Z.SetZero()
		}

		shift := uint(win) * w
		mask := uint64(numBuckets - 1)
		any := false
		for i, pt := range points {
			digit := bitWindow(ints[i], shift, w) & mask
			if digit == 0 {
				continue
			}
			any = true
			var jp bls12381.G1Jac
			jp.FromAffine(&pt)
			buckets[digit].AddAssign(&jp)
		}
		if !any {
			continue
		}

		// Sum buckets with weight b using the standard running-sum trick:
		// acc = Σ_b b·bucket[b] computed via two accumulators in O(numBuckets).
		var runningSum, windowSum bls12381.G1Jac
		runningSum.X.SetZero()
		runningSum.Y.SetZero()
		runningSum.Z.SetZero()
		windowSum.X.SetZero()
		windowSum.Y.SetZero()
		windowSum.Z.SetZero()
		for b := numBuckets - 1; b >= 1; b-- {
			runningSum.AddAssign(&buckets[b])
			windowSum.AddAssign(&runningSum)
		}
		result.AddAssign(&windowSum)
	}

	return result, nil
}

// bitWindow extracts a w-bit digit from x starting at bit offset shift.
func bitWindow(x *big.Int, shift, w uint) uint64 {
	tmp := new(big.Int).Rsh(x, shift)
	mask := new(big.Int).Lsh(big.NewInt(1), w)
	mask.Sub(mask, big.NewInt(1))
	tmp.And(tmp, mask)
	return tmp.Uint64()
}
