// Package rscode implements the (K, M)-over-GF(256) row expansion and
// reconstruction of an encoded MDU, producing a slot-major witness of
// per-slot, per-row KZG commitments.
package rscode

import (
	"fmt"

	"github.com/klauspost/reedsolomon"

	"github.com/nilshard/nilcore/crypto/kzg"
	"github.com/nilshard/nilcore/crypto/packing"
	"github.com/nilshard/nilcore/log"
)

func validateParams(k, m int) error {
	if k < 1 || m < 1 || k+m > 256 || packing.BlobsPerMDU%k != 0 {
		return ErrInvalidParams
	}
	return nil
}

// rowCount returns R = BlobsPerMDU / K.
func rowCount(k int) int {
	return packing.BlobsPerMDU / k
}

// Expanded is the output of expanding an encoded MDU under RS parameters
// (K, M): K+M shards of R*BlobSize bytes each, and a slot-major witness of
// (K+M)*R commitments.
type Expanded struct {
	Witness []kzg.Commitment
	Shards  [][]byte
}

// ExpandMDUEncoded views encoded (exactly packing.MDUSize bytes) as R rows
// of K contiguous blobs, appends M GF(256) parity slots per row, and
// commits every slot's row slice under ctx. Witness[slot*R+row] is the
// commitment of shard slot's row-th blob.
func ExpandMDUEncoded(ctx *kzg.Context, encoded []byte, k, m int) (*Expanded, error) {
	if err := validateParams(k, m); err != nil {
		return nil, err
	}
	if len(encoded) != packing.MDUSize {
		return nil, ErrInvalidMDUSize
	}

	r := rowCount(k)
	shards := make([][]byte, k+m)
	for s := range shards {
		shards[s] = make([]byte, r*packing.BlobSize)
	}
	witness := make([]kzg.Commitment, (k+m)*r)

	if err := expandInto(ctx, encoded, k, m, shards, witness); err != nil {
		return nil, err
	}
	return &Expanded{Witness: witness, Shards: shards}, nil
}

// ExpandMDUFlat is the flat variant of ExpandMDUEncoded: it writes into
// caller-provided shardsOut ((K+M) buffers of R*BlobSize bytes each) and
// witnessOut ((K+M)*R commitments) instead of allocating them. The RS
// encoder and each blob commitment still allocate their own working memory.
func ExpandMDUFlat(ctx *kzg.Context, encoded []byte, k, m int, shardsOut [][]byte, witnessOut []kzg.Commitment) error {
	if err := validateParams(k, m); err != nil {
		return err
	}
	if len(encoded) != packing.MDUSize {
		return ErrInvalidMDUSize
	}
	r := rowCount(k)
	if len(shardsOut) != k+m {
		return ErrWrongShardCount
	}
	for _, s := range shardsOut {
		if len(s) != r*packing.BlobSize {
			return ErrWrongShardSize
		}
	}
	if len(witnessOut) != (k+m)*r {
		return fmt.Errorf("rscode: witnessOut must have length (K+M)*R = %d", (k+m)*r)
	}
	return expandInto(ctx, encoded, k, m, shardsOut, witnessOut)
}

func expandInto(ctx *kzg.Context, encoded []byte, k, m int, shards [][]byte, witness []kzg.Commitment) error {
	r := rowCount(k)

	for row := 0; row < r; row++ {
		for s := 0; s < k; s++ {
			blobIdx := row*k + s
			src := encoded[blobIdx*packing.BlobSize : (blobIdx+1)*packing.BlobSize]
			copy(shards[s][row*packing.BlobSize:(row+1)*packing.BlobSize], src)
		}
		for s := k; s < k+m; s++ {
			clear(shards[s][row*packing.BlobSize : (row+1)*packing.BlobSize])
		}
	}

	enc, err := reedsolomon.New(k, m)
	if err != nil {
		return fmt.Errorf("rscode: constructing RS(%d,%d) encoder: %w", k, m, err)
	}

	rowShards := make([][]byte, k+m)
	for row := 0; row < r; row++ {
		for s := range shards {
			rowShards[s] = shards[s][row*packing.BlobSize : (row+1)*packing.BlobSize]
		}
		if err := enc.Encode(rowShards); err != nil {
			return fmt.Errorf("rscode: encoding row %d: %w", row, err)
		}
	}

	for slot := 0; slot < k+m; slot++ {
		for row := 0; row < r; row++ {
			var blob kzg.Blob
			copy(blob[:], shards[slot][row*packing.BlobSize:(row+1)*packing.BlobSize])
			commitment, err := ctx.Commit(&blob)
			if err != nil {
				return fmt.Errorf("rscode: committing slot %d row %d: %w", slot, row, err)
			}
			witness[slot*r+row] = commitment
		}
	}

	log.Debugw("rscode expanded MDU", "k", k, "m", m, "rows", r, "witnesses", len(witness))
	return nil
}

// ReconstructMDUFromShards reconstructs the original K+M-shard encoding and
// reassembles it into an encoded MDU. shards has length K+M; a nil entry
// means that shard was not received. At least K entries must be non-nil;
// every non-nil entry must have length R*BlobSize.
func ReconstructMDUFromShards(shards [][]byte, k, m int) ([]byte, error) {
	if err := validateParams(k, m); err != nil {
		return nil, err
	}
	if len(shards) != k+m {
		return nil, ErrWrongShardCount
	}
	r := rowCount(k)

	present := 0
	out := make([][]byte, k+m)
	for s, shard := range shards {
		if shard == nil {
			continue
		}
		if len(shard) != r*packing.BlobSize {
			return nil, ErrWrongShardSize
		}
		present++
		out[s] = shard
	}
	if present < k {
		return nil, ErrTooFewShards
	}
	for s := range out {
		if out[s] == nil {
			out[s] = make([]byte, r*packing.BlobSize)
		}
	}

	enc, err := reedsolomon.New(k, m)
	if err != nil {
		return nil, fmt.Errorf("rscode: constructing RS(%d,%d) encoder: %w", k, m, err)
	}

	rowShards := make([][]byte, k+m)
	for row := 0; row < r; row++ {
		for s := range shards {
			if shards[s] == nil {
				rowShards[s] = nil
			} else {
				rowShards[s] = out[s][row*packing.BlobSize : (row+1)*packing.BlobSize]
			}
		}
		if err := enc.Reconstruct(rowShards); err != nil {
			return nil, fmt.Errorf("rscode: reconstructing row %d: %w", row, err)
		}
		for s := range shards {
			if shards[s] == nil {
				copy(out[s][row*packing.BlobSize:(row+1)*packing.BlobSize], rowShards[s])
			}
		}
	}

	encoded := make([]byte, packing.MDUSize)
	for row := 0; row < r; row++ {
		for s := 0; s < k; s++ {
			blobIdx := row*k + s
			copy(encoded[blobIdx*packing.BlobSize:(blobIdx+1)*packing.BlobSize], out[s][row*packing.BlobSize:(row+1)*packing.BlobSize])
		}
	}

	log.Debugw("rscode reconstructed MDU", "k", k, "m", m, "present_shards", present)
	return encoded, nil
}
