package shard

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	qt "github.com/frankban/quicktest"

	"github.com/nilshard/nilcore/crypto/kzg"
	"github.com/nilshard/nilcore/crypto/merkle"
)

// testShard is a small end-to-end fixture: one manifest over two MDUs, each
// MDU's blobs filled with a distinct byte so offsets map to predictable
// cells.
type testShard struct {
	ctx                *kzg.Context
	manifestCommitment kzg.Commitment
	manifestBlob       kzg.Blob
	mdus               []*MDU
	blobs              [][]kzg.Blob // blobs[mduIdx][blobIdx]
}

func buildTestShard(c *qt.C) *testShard {
	ctx, err := kzg.BuildInsecureTestContext(kzg.BasisLagrange)
	c.Assert(err, qt.IsNil)

	const numMDUs = 2
	mdus := make([]*MDU, numMDUs)
	blobs := make([][]kzg.Blob, numMDUs)
	roots := make([][32]byte, numMDUs)

	for m := 0; m < numMDUs; m++ {
		mdu, mduBlobs := buildUniformMDU(c, ctx, byte(0x10+m))
		mdus[m] = mdu
		blobs[m] = mduBlobs
		root := mdu.Root()
		roots[m] = [32]byte(root)
	}

	commitment, manifestBlob, err := BuildManifest(ctx, roots)
	c.Assert(err, qt.IsNil)

	return &testShard{
		ctx:                ctx,
		manifestCommitment: commitment,
		manifestBlob:       manifestBlob,
		mdus:               mdus,
		blobs:              blobs,
	}
}

func TestLocateMapsOffsetToIndices(t *testing.T) {
	c := qt.New(t)

	mduIdx, blobIdx, cellIdx := Locate(0)
	c.Assert(mduIdx, qt.Equals, uint64(0))
	c.Assert(blobIdx, qt.Equals, 0)
	c.Assert(cellIdx, qt.Equals, uint64(0))

	// One byte past the last cell of blob 0 lands in blob 1, cell 0.
	mduIdx, blobIdx, cellIdx = Locate(BlobPayloadBytes)
	c.Assert(mduIdx, qt.Equals, uint64(0))
	c.Assert(blobIdx, qt.Equals, 1)
	c.Assert(cellIdx, qt.Equals, uint64(0))

	// One byte past the last cell of the last blob of MDU 0 lands in MDU 1.
	mduIdx, blobIdx, cellIdx = Locate(MDUPayloadBytes)
	c.Assert(mduIdx, qt.Equals, uint64(1))
	c.Assert(blobIdx, qt.Equals, 0)
	c.Assert(cellIdx, qt.Equals, uint64(0))

	// Offset 31 bytes into blob 0 (one full cell) lands in cell 1.
	mduIdx, blobIdx, cellIdx = Locate(31)
	c.Assert(mduIdx, qt.Equals, uint64(0))
	c.Assert(blobIdx, qt.Equals, 0)
	c.Assert(cellIdx, qt.Equals, uint64(1))
}

func TestProveVerifyRoundTrip(t *testing.T) {
	c := qt.New(t)
	ts := buildTestShard(c)

	offsets := []uint64{
		0,
		31,
		BlobPayloadBytes - 1,
		BlobPayloadBytes,
		BlobPayloadBytes*2 + 500,
		MDUPayloadBytes,
		MDUPayloadBytes + BlobPayloadBytes*7,
	}

	for _, offset := range offsets {
		mduIdx, blobIdx, _ := Locate(offset)
		targetBlob := ts.blobs[mduIdx][blobIdx]

		proof, err := Prove(ts.ctx, &ts.manifestBlob, offset, ts.mdus[mduIdx], &targetBlob)
		c.Assert(err, qt.IsNil, qt.Commentf("offset=%d", offset))

		blobCommitment := ts.mdus[mduIdx].Commitments[blobIdx]
		mduRoot := [32]byte(ts.mdus[mduIdx].Root())

		ok, hop, err := Verify(ts.ctx, ts.manifestCommitment, mduRoot, BlobsPerMDU, blobCommitment, proof)
		c.Assert(err, qt.IsNil, qt.Commentf("offset=%d", offset))
		c.Assert(hop, qt.Equals, HopNone, qt.Commentf("offset=%d", offset))
		c.Assert(ok, qt.IsTrue, qt.Commentf("offset=%d", offset))
	}
}

func TestVerifyRejectsWrongMDURoot(t *testing.T) {
	c := qt.New(t)
	ts := buildTestShard(c)

	targetBlob := ts.blobs[0][0]
	proof, err := Prove(ts.ctx, &ts.manifestBlob, 0, ts.mdus[0], &targetBlob)
	c.Assert(err, qt.IsNil)

	var wrongRoot [32]byte // the all-zero root does not match MDU 0's true root
	ok, hop, err := Verify(ts.ctx, ts.manifestCommitment, wrongRoot, BlobsPerMDU, ts.mdus[0].Commitments[0], proof)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(hop, qt.Equals, HopManifest)
}

func TestVerifyRejectsWrongBlobCommitment(t *testing.T) {
	c := qt.New(t)
	ts := buildTestShard(c)

	targetBlob := ts.blobs[0][0]
	proof, err := Prove(ts.ctx, &ts.manifestBlob, 0, ts.mdus[0], &targetBlob)
	c.Assert(err, qt.IsNil)

	mduRoot := [32]byte(ts.mdus[0].Root())
	// Every blob of one MDU holds the same bytes, so take a commitment from
	// MDU 1, whose blobs differ from MDU 0's.
	wrongCommitment := ts.mdus[1].Commitments[0]
	ok, hop, err := Verify(ts.ctx, ts.manifestCommitment, mduRoot, BlobsPerMDU, wrongCommitment, proof)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(hop, qt.Equals, HopMerkle)
}

func TestVerifyRejectsTamperedManifestOpeningValue(t *testing.T) {
	c := qt.New(t)
	ts := buildTestShard(c)

	targetBlob := ts.blobs[0][0]
	proof, err := Prove(ts.ctx, &ts.manifestBlob, 0, ts.mdus[0], &targetBlob)
	c.Assert(err, qt.IsNil)

	tampered := *proof
	tampered.ManifestY.Add(&tampered.ManifestY, oneElement())

	mduRoot := [32]byte(ts.mdus[0].Root())
	ok, hop, err := Verify(ts.ctx, ts.manifestCommitment, mduRoot, BlobsPerMDU, ts.mdus[0].Commitments[0], &tampered)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(hop, qt.Equals, HopManifest)
}

func TestVerifyRejectsTamperedBlobOpeningValue(t *testing.T) {
	c := qt.New(t)
	ts := buildTestShard(c)

	targetBlob := ts.blobs[0][0]
	proof, err := Prove(ts.ctx, &ts.manifestBlob, 0, ts.mdus[0], &targetBlob)
	c.Assert(err, qt.IsNil)

	tampered := *proof
	tampered.BlobY.Add(&tampered.BlobY, oneElement())

	mduRoot := [32]byte(ts.mdus[0].Root())
	ok, hop, err := Verify(ts.ctx, ts.manifestCommitment, mduRoot, BlobsPerMDU, ts.mdus[0].Commitments[0], &tampered)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(hop, qt.Equals, HopBlob)
}

func TestVerifyRejectsTamperedMerkleSibling(t *testing.T) {
	c := qt.New(t)
	ts := buildTestShard(c)

	targetBlob := ts.blobs[0][3]
	proof, err := Prove(ts.ctx, &ts.manifestBlob, BlobPayloadBytes*3, ts.mdus[0], &targetBlob)
	c.Assert(err, qt.IsNil)
	c.Assert(len(proof.MerkleProof.Siblings) > 0, qt.IsTrue)

	tampered := *proof
	tampered.MerkleProof.Siblings = append([]merkle.Hash(nil), proof.MerkleProof.Siblings...)
	tampered.MerkleProof.Siblings[0][0] ^= 0xFF

	mduRoot := [32]byte(ts.mdus[0].Root())
	ok, hop, err := Verify(ts.ctx, ts.manifestCommitment, mduRoot, BlobsPerMDU, ts.mdus[0].Commitments[3], &tampered)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(hop, qt.Equals, HopMerkle)
}

func oneElement() *fr.Element {
	var one fr.Element
	one.SetOne()
	return &one
}
