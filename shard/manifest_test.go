package shard

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nilshard/nilcore/crypto/kzg"
	"github.com/nilshard/nilcore/crypto/merkle"
)

func TestBuildManifestSingleRootOpensAtIndexZero(t *testing.T) {
	c := qt.New(t)
	ctx, err := kzg.BuildInsecureTestContext(kzg.BasisLagrange)
	c.Assert(err, qt.IsNil)

	var root [32]byte
	for i := range root {
		root[i] = 0x42
	}

	commitment, blob, err := BuildManifest(ctx, [][32]byte{root})
	c.Assert(err, qt.IsNil)

	z := ctx.Domain.At(0)
	proof, y, err := ctx.Open(&blob, z)
	c.Assert(err, qt.IsNil)

	reduced := kzg.ScalarFromWideBytes(root[:])
	c.Assert(y.Equal(&reduced), qt.IsTrue)

	ok, err := ctx.Verify(commitment, z, y, proof)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
}

func TestBuildManifestRejectsTooManyRoots(t *testing.T) {
	c := qt.New(t)
	ctx, err := kzg.BuildInsecureTestContext(kzg.BasisLagrange)
	c.Assert(err, qt.IsNil)

	roots := make([][32]byte, kzg.ScalarsPerBlob+1)
	_, _, err = BuildManifest(ctx, roots)
	c.Assert(err, qt.Equals, ErrTooManyRoots)
}

func TestBuildManifestUnusedCellsStayZero(t *testing.T) {
	c := qt.New(t)
	ctx, err := kzg.BuildInsecureTestContext(kzg.BasisLagrange)
	c.Assert(err, qt.IsNil)

	var root [32]byte
	root[31] = 1
	_, blob, err := BuildManifest(ctx, [][32]byte{root})
	c.Assert(err, qt.IsNil)

	for i := 32; i < len(blob); i++ {
		c.Assert(blob[i], qt.Equals, byte(0), qt.Commentf("byte %d", i))
	}
}

func buildUniformMDU(c *qt.C, ctx *kzg.Context, fill byte) (*MDU, []kzg.Blob) {
	commitments := make([]kzg.Commitment, BlobsPerMDU)
	blobs := make([]kzg.Blob, BlobsPerMDU)
	for i := range commitments {
		for j := range blobs[i] {
			blobs[i][j] = fill
		}
		commitment, err := ctx.Commit(&blobs[i])
		c.Assert(err, qt.IsNil)
		commitments[i] = commitment
	}
	mdu, err := NewMDU(commitments)
	c.Assert(err, qt.IsNil)
	return mdu, blobs
}

func TestNewMDURejectsWrongCommitmentCount(t *testing.T) {
	c := qt.New(t)
	_, err := NewMDU(make([]kzg.Commitment, BlobsPerMDU-1))
	c.Assert(err, qt.Equals, ErrWrongCommitmentCount)
}

func TestMDUProofForRoundTrips(t *testing.T) {
	c := qt.New(t)
	ctx, err := kzg.BuildInsecureTestContext(kzg.BasisLagrange)
	c.Assert(err, qt.IsNil)

	mdu, _ := buildUniformMDU(c, ctx, 0x07)
	for i := 0; i < BlobsPerMDU; i++ {
		proof, err := mdu.ProofFor(i)
		c.Assert(err, qt.IsNil)
		leaf := mdu.Commitments[i]
		leafHash := merkle.LeafHash(leaf[:])
		ok := merkle.Verify(mdu.Root(), i, leafHash, BlobsPerMDU, proof)
		c.Assert(ok, qt.IsTrue, qt.Commentf("index %d", i))
	}
}
