package shard

import "errors"

var (
	// ErrTooManyRoots signals more MDU roots than the manifest blob's 4096
	// cell capacity.
	ErrTooManyRoots = errors.New("shard: manifest supports at most 4096 MDU roots")
	// ErrMDUIndexOutOfRange signals an mdu_idx beyond the manifest's domain.
	ErrMDUIndexOutOfRange = errors.New("shard: MDU index out of manifest range")
	// ErrBlobIndexOutOfRange signals a blob_idx beyond an MDU's 64 blobs.
	ErrBlobIndexOutOfRange = errors.New("shard: blob index out of MDU range")
	// ErrWrongCommitmentCount signals an MDU commitment list that isn't
	// exactly 64 entries.
	ErrWrongCommitmentCount = errors.New("shard: MDU must have exactly 64 blob commitments")
)
