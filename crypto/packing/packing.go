// Package packing converts arbitrary bytes into the field-aligned cell
// layout the kzg package expects: 31 payload bytes right-aligned in each
// 32-byte cell, top byte always zero.
package packing

import "errors"

const (
	// ScalarBytes is the byte width of a cell.
	ScalarBytes = 32
	// ScalarPayloadBytes is the usable payload width per cell.
	ScalarPayloadBytes = 31
	// BlobSize is the byte length of a blob (4096 cells).
	BlobSize = 131072
	// ScalarsPerBlob is the number of cells per blob.
	ScalarsPerBlob = BlobSize / ScalarBytes
	// BlobsPerMDU is the number of blobs per Mega-Data-Unit.
	BlobsPerMDU = 64
	// MDUSize is the byte length of an MDU.
	MDUSize = BlobsPerMDU * BlobSize
	// ScalarsPerMDU is the number of cells per MDU.
	ScalarsPerMDU = BlobsPerMDU * ScalarsPerBlob
	// MDUPayloadBytes is the maximum raw payload an MDU can carry.
	MDUPayloadBytes = ScalarsPerMDU * ScalarPayloadBytes
)

// ErrPayloadTooLarge signals raw input that exceeds MDUPayloadBytes.
var ErrPayloadTooLarge = errors.New("packing: payload exceeds MDU capacity")

// PackMDU packs raw into a freshly-allocated MDUSize buffer, placing each
// 31-byte chunk of raw right-aligned into successive cells with a zero top
// byte, in ascending cell order. raw must fit within MDUPayloadBytes.
func PackMDU(raw []byte) ([MDUSize]byte, error) {
	var out [MDUSize]byte
	if len(raw) > MDUPayloadBytes {
		return out, ErrPayloadTooLarge
	}
	packInto(out[:], raw)
	return out, nil
}

// PackMDUTruncating packs raw into a freshly-allocated MDUSize buffer,
// silently dropping any bytes beyond MDUPayloadBytes. Callers that must
// enforce the capacity themselves use PackMDU instead.
func PackMDUTruncating(raw []byte) [MDUSize]byte {
	var out [MDUSize]byte
	if len(raw) > MDUPayloadBytes {
		raw = raw[:MDUPayloadBytes]
	}
	packInto(out[:], raw)
	return out
}

func packInto(dst, raw []byte) {
	for i := 0; i*ScalarPayloadBytes < len(raw); i++ {
		if i >= ScalarsPerMDU {
			break
		}
		start := i * ScalarPayloadBytes
		end := start + ScalarPayloadBytes
		if end > len(raw) {
			end = len(raw)
		}
		chunk := raw[start:end]
		cellStart := i * ScalarBytes
		// top byte (cellStart) is left zero; payload right-aligned in the
		// remaining 31 bytes.
		copy(dst[cellStart+ScalarBytes-len(chunk):cellStart+ScalarBytes], chunk)
	}
}
