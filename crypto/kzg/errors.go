package kzg

import "errors"

// Input errors: malformed data that must abort the current operation
// without touching any already-loaded context.
var (
	ErrMalformedCount    = errors.New("kzg: malformed trusted-setup point count")
	ErrMalformedHex      = errors.New("kzg: malformed hex encoding in trusted setup")
	ErrWrongPointLength  = errors.New("kzg: wrong byte length for curve point")
	ErrPointNotOnCurve   = errors.New("kzg: point is not on the curve")
	ErrPointNotInSubgrp  = errors.New("kzg: point is not in the prime-order subgroup")
	ErrTooFewG1Points    = errors.New("kzg: trusted setup needs at least 2 G1 points")
	ErrTooFewG2Points    = errors.New("kzg: trusted setup needs at least 2 G2 points")
	ErrInvalidBlobLength = errors.New("kzg: blob must be exactly BlobSize bytes")
	ErrInvalidScalar     = errors.New("kzg: scalar is not canonically encoded")
	ErrWrongProofLength  = errors.New("kzg: wrong byte length for KZG proof")
	ErrWrongCommitLength = errors.New("kzg: wrong byte length for KZG commitment")
	ErrSRSTooSmall       = errors.New("kzg: trusted setup has fewer than ScalarsPerBlob G1 points")
)

// ErrInternalInvariant wraps failures that indicate a broken algebraic
// invariant (a zero denominator where the algebra guarantees non-zero, an
// FFT size whose inverse doesn't exist). These never originate from
// attacker-controlled input and are distinct from a cryptographic reject.
var ErrInternalInvariant = errors.New("kzg: internal invariant violated")
