package shard

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/nilshard/nilcore/crypto/kzg"
	"github.com/nilshard/nilcore/crypto/merkle"
	"github.com/nilshard/nilcore/log"
)

// Proof is the three-hop proof chain for a single byte of the original
// payload: a manifest opening naming the target MDU's root, a Merkle
// inclusion proof naming the target blob's commitment, and a blob opening
// naming the target cell's value.
type Proof struct {
	MDUIndex  uint64
	BlobIndex int
	CellIndex uint64

	ManifestProof kzg.Proof
	ManifestY     fr.Element

	MerkleProof merkle.Proof

	BlobProof kzg.Proof
	BlobY     fr.Element
}

// Locate computes (mdu_idx, blob_idx, cell_idx) for a byte offset into the
// original payload, per §4.9.
func Locate(offset uint64) (mduIdx uint64, blobIdx int, cellIdx uint64) {
	mduIdx = offset / MDUPayloadBytes
	within := offset % MDUPayloadBytes
	blobIdx = int(within / BlobPayloadBytes)
	cellIdx = (within % BlobPayloadBytes) / packingScalarPayloadBytes
	return
}

// MDUPayloadBytes is the maximum raw payload bytes carried by one MDU.
const MDUPayloadBytes = BlobsPerMDU * BlobPayloadBytes

const packingScalarPayloadBytes = 31

// Prove assembles the three-hop proof for byte offset of the payload.
// ctx is shared by both the manifest and blob openings (they use the same
// domain size). mdu is the target MDU (its Merkle tree over 64 blob
// commitments), and targetBlob is the blob containing the queried byte.
func Prove(ctx *kzg.Context, manifestBlob *kzg.Blob, offset uint64, mdu *MDU, targetBlob *kzg.Blob) (*Proof, error) {
	mduIdx, blobIdx, cellIdx := Locate(offset)

	z1 := ctx.Domain.At(mduIdx)
	pi1, y1, err := ctx.Open(manifestBlob, z1)
	if err != nil {
		return nil, err
	}

	merkleProof, err := mdu.ProofFor(blobIdx)
	if err != nil {
		return nil, err
	}

	z3 := ctx.Domain.At(cellIdx)
	pi3, y3, err := ctx.Open(targetBlob, z3)
	if err != nil {
		return nil, err
	}

	log.Debugw("shard three-hop proof built", "offset", offset, "mdu_idx", mduIdx, "blob_idx", blobIdx, "cell_idx", cellIdx)
	return &Proof{
		MDUIndex:      mduIdx,
		BlobIndex:     blobIdx,
		CellIndex:     cellIdx,
		ManifestProof: pi1,
		ManifestY:     y1,
		MerkleProof:   merkleProof,
		BlobProof:     pi3,
		BlobY:         y3,
	}, nil
}

// HopFailure identifies which of the three hops rejected a proof.
type HopFailure int

const (
	// HopNone means every hop verified.
	HopNone HopFailure = iota
	// HopManifest means the manifest KZG opening failed.
	HopManifest
	// HopMerkle means the MDU Merkle inclusion check failed.
	HopMerkle
	// HopBlob means the blob KZG opening failed.
	HopBlob
)

// Verify checks the three-hop chain against the manifest commitment, the
// (unreduced) MDU root bytes, the MDU's total leaf count, and the target
// blob commitment. It short-circuits on the first failing hop.
func Verify(ctx *kzg.Context, manifestCommitment kzg.Commitment, mduRoot [32]byte, mduLeafCount int, blobCommitment kzg.Commitment, proof *Proof) (bool, HopFailure, error) {
	z1 := ctx.Domain.At(proof.MDUIndex)
	reducedRoot := kzg.ScalarFromWideBytes(mduRoot[:])
	if !reducedRoot.Equal(&proof.ManifestY) {
		return false, HopManifest, nil
	}
	ok, err := ctx.Verify(manifestCommitment, z1, proof.ManifestY, proof.ManifestProof)
	if err != nil {
		return false, HopManifest, err
	}
	if !ok {
		return false, HopManifest, nil
	}

	leafHash := merkle.LeafHash(blobCommitment[:])
	if !merkle.Verify(merkle.Hash(mduRoot), proof.BlobIndex, leafHash, mduLeafCount, proof.MerkleProof) {
		return false, HopMerkle, nil
	}

	z3 := ctx.Domain.At(proof.CellIndex)
	ok, err = ctx.Verify(blobCommitment, z3, proof.BlobY, proof.BlobProof)
	if err != nil {
		return false, HopBlob, err
	}
	if !ok {
		return false, HopBlob, nil
	}

	return true, HopNone, nil
}
