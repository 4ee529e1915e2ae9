// Package kzg implements the EIP-4844-style KZG polynomial commitment
// engine over BLS12-381: trusted-setup ingestion with basis detection,
// a hand-rolled Pippenger multi-scalar-multiplication engine, a radix-2
// FFT over the scalar field, blob commitment, and opening/verification.
package kzg

const (
	// ScalarsPerBlob is the number of field-element cells in a blob and the
	// size of the FFT/evaluation domain.
	ScalarsPerBlob = 4096

	// BytesPerScalar is the canonical big-endian encoding width of an Fr
	// element, a KZG evaluation point, and a blob cell.
	BytesPerScalar = 32

	// BlobSize is the byte length of a blob: ScalarsPerBlob * BytesPerScalar.
	BlobSize = ScalarsPerBlob * BytesPerScalar

	// CompressedG1Size is the byte length of a compressed BLS12-381 G1 point
	// (commitments and opening proofs).
	CompressedG1Size = 48

	// CompressedG2Size is the byte length of a compressed BLS12-381 G2 point
	// (trusted-setup SRS entries).
	CompressedG2Size = 96
)
