// Package merkle implements the Blake2s-256 Merkle tree over KZG
// commitments described for MDU roots: pairwise left||right concatenation,
// an unpaired trailing node propagating unchanged to the next level
// (rs-merkle compatible), and single-leaf inclusion proofs.
package merkle

import (
	"errors"

	"golang.org/x/crypto/blake2s"
)

// Size is the byte length of a tree node (Blake2s-256 output).
const Size = 32

// Hash is a single Merkle tree node.
type Hash [Size]byte

// ErrNoLeaves signals an attempt to build a tree from an empty leaf set.
var ErrNoLeaves = errors.New("merkle: tree needs at least one leaf")

// ErrIndexOutOfRange signals a proof request for a leaf index that does not
// exist in the tree.
var ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")

// LeafHash hashes a raw leaf value (a 48-byte KZG commitment) into a tree
// leaf node.
func LeafHash(commitment []byte) Hash {
	return Hash(blake2s.Sum256(commitment))
}

func combine(left, right Hash) Hash {
	var buf [2 * Size]byte
	copy(buf[:Size], left[:])
	copy(buf[Size:], right[:])
	return Hash(blake2s.Sum256(buf[:]))
}

// Tree is a built Merkle tree over a fixed ordered set of leaves.
type Tree struct {
	levels [][]Hash // levels[0] = leaves, levels[len-1] = {root}
}

// New builds a tree from leaf hashes, already computed via LeafHash.
func New(leaves []Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrNoLeaves
	}
	levels := make([][]Hash, 0, 1)
	cur := make([]Hash, len(leaves))
	copy(cur, leaves)
	levels = append(levels, cur)
	for len(cur) > 1 {
		next := make([]Hash, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			if i+1 < len(cur) {
				next = append(next, combine(cur[i], cur[i+1]))
			} else {
				next = append(next, cur[i])
			}
		}
		levels = append(levels, next)
		cur = next
	}
	return &Tree{levels: levels}, nil
}

// NewFromCommitments hashes each commitment into a leaf and builds the tree.
func NewFromCommitments(commitments [][]byte) (*Tree, error) {
	leaves := make([]Hash, len(commitments))
	for i, c := range commitments {
		leaves[i] = LeafHash(c)
	}
	return New(leaves)
}

// Root returns the tree's root hash.
func (t *Tree) Root() Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// LeafCount returns the number of leaves the tree was built from.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// Proof is an inclusion proof for a single leaf: the sibling hashes from
// leaf toward root, in that order, omitting levels where the leaf's node
// was an unpaired propagation.
type Proof struct {
	Siblings []Hash
}

// ProofFor returns the inclusion proof for leaf index.
func (t *Tree) ProofFor(index int) (Proof, error) {
	if index < 0 || index >= t.LeafCount() {
		return Proof{}, ErrIndexOutOfRange
	}
	var siblings []Hash
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		cur := t.levels[level]
		pairStart := idx - idx%2
		if pairStart+1 < len(cur) {
			if idx%2 == 0 {
				siblings = append(siblings, cur[idx+1])
			} else {
				siblings = append(siblings, cur[idx-1])
			}
		}
		// else: idx is the trailing unpaired node, no sibling at this level.
		idx /= 2
	}
	return Proof{Siblings: siblings}, nil
}

// Verify checks that leaf leafHash at position index, under a tree of
// leafCount total leaves, is included under root.
func Verify(root Hash, index int, leafHash Hash, leafCount int, proof Proof) bool {
	if index < 0 || index >= leafCount {
		return false
	}
	hash := leafHash
	idx := index
	remaining := leafCount
	siblings := proof.Siblings
	for remaining > 1 {
		unpaired := idx == remaining-1 && remaining%2 == 1
		if !unpaired {
			if len(siblings) == 0 {
				return false
			}
			sib := siblings[0]
			siblings = siblings[1:]
			if idx%2 == 0 {
				hash = combine(hash, sib)
			} else {
				hash = combine(sib, hash)
			}
		}
		idx /= 2
		remaining = (remaining + 1) / 2
	}
	if len(siblings) != 0 {
		return false
	}
	return hash == root
}
