// Package shard assembles and verifies the top-level manifest and the
// three-hop proof chain (manifest KZG opening -> MDU Merkle inclusion ->
// blob KZG opening) that ties a single payload byte back to a 48-byte
// manifest root.
package shard

import (
	"github.com/nilshard/nilcore/crypto/kzg"
	"github.com/nilshard/nilcore/crypto/merkle"
	"github.com/nilshard/nilcore/crypto/packing"
	"github.com/nilshard/nilcore/log"
)

// BlobsPerMDU is the number of blobs (and Merkle leaves) per MDU.
const BlobsPerMDU = packing.BlobsPerMDU

// BlobPayloadBytes is the number of raw payload bytes a single blob's cells
// carry (ScalarsPerBlob * ScalarPayloadBytes).
const BlobPayloadBytes = packing.ScalarsPerBlob * packing.ScalarPayloadBytes

// BuildManifest reduces each of roots (at most kzg.ScalarsPerBlob of them)
// into the scalar field and writes the canonical 32-byte form into
// successive manifest blob cells; unused cells stay zero. It returns the
// manifest blob and its KZG commitment (the manifest root).
func BuildManifest(ctx *kzg.Context, roots [][32]byte) (kzg.Commitment, kzg.Blob, error) {
	if len(roots) > kzg.ScalarsPerBlob {
		return kzg.Commitment{}, kzg.Blob{}, ErrTooManyRoots
	}

	var blob kzg.Blob
	for i, root := range roots {
		reduced := kzg.ScalarFromWideBytes(root[:])
		cell := kzg.ScalarToBytes(&reduced)
		copy(blob[i*packing.ScalarBytes:(i+1)*packing.ScalarBytes], cell[:])
	}

	commitment, err := ctx.Commit(&blob)
	if err != nil {
		return kzg.Commitment{}, kzg.Blob{}, err
	}

	log.Debugw("shard manifest built", "root_count", len(roots))
	return commitment, blob, nil
}

// MDU ties together the 64 blob commitments of a Mega-Data-Unit and their
// Blake2s-256 Merkle tree, as built by §4.8.
type MDU struct {
	Commitments [BlobsPerMDU]kzg.Commitment
	tree        *merkle.Tree
}

// NewMDU builds the Merkle tree over commitments, which must be exactly
// BlobsPerMDU entries in blob order.
func NewMDU(commitments []kzg.Commitment) (*MDU, error) {
	if len(commitments) != BlobsPerMDU {
		return nil, ErrWrongCommitmentCount
	}
	leaves := make([][]byte, BlobsPerMDU)
	m := &MDU{}
	for i, c := range commitments {
		m.Commitments[i] = c
		leaves[i] = c[:]
	}
	tree, err := merkle.NewFromCommitments(leaves)
	if err != nil {
		return nil, err
	}
	m.tree = tree
	return m, nil
}

// Root returns the MDU's Merkle root over its 64 blob commitments.
func (m *MDU) Root() merkle.Hash { return m.tree.Root() }

// ProofFor returns the inclusion proof for the blob at index.
func (m *MDU) ProofFor(index int) (merkle.Proof, error) {
	return m.tree.ProofFor(index)
}
