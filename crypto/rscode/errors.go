package rscode

import "errors"

var (
	// ErrInvalidMDUSize signals an input buffer that is not exactly
	// packing.MDUSize bytes.
	ErrInvalidMDUSize = errors.New("rscode: input must be exactly MDUSize bytes")
	// ErrInvalidParams signals (K, M) values outside the supported range.
	ErrInvalidParams = errors.New("rscode: K and M must satisfy K>=1, M>=1, K+M<=256, K|64")
	// ErrTooFewShards signals a reconstruction attempt with fewer than K
	// present shards.
	ErrTooFewShards = errors.New("rscode: fewer than K shards present, cannot reconstruct")
	// ErrWrongShardCount signals a shard slice whose length does not equal
	// K+M.
	ErrWrongShardCount = errors.New("rscode: shard slice length must equal K+M")
	// ErrWrongShardSize signals a present shard buffer whose length does not
	// equal R*packing.BlobSize.
	ErrWrongShardSize = errors.New("rscode: shard buffer has the wrong length")
)
