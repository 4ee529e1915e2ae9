package blockdev

import (
	"errors"
	"math"

	"github.com/nilshard/nilcore/log"
)

const (
	// MDUSize is the byte size of a Mega-Data-Unit (8 MiB).
	MDUSize = 8 * 1024 * 1024
	// BlobSize is the byte size of a single blob (128 KiB).
	BlobSize = 128 * 1024

	// RootTableStart is the byte offset of the MDU root table.
	RootTableStart = 0
	// RootTableEnd is the exclusive byte offset ending the root table.
	RootTableEnd = 16 * BlobSize
	// FileTableStart is the byte offset of the file table.
	FileTableStart = 16 * BlobSize
	// FileTableEnd is the exclusive byte offset ending the file table.
	FileTableEnd = 64 * BlobSize

	// RootSize is the byte size of one Merkle root entry in the root table.
	RootSize = 32

	// commitmentBytesPerMDU is the size of one MDU's worth of blob
	// commitments once they are themselves packed into witness MDUs:
	// 64 blobs * 48 bytes per compressed G1 commitment.
	commitmentBytesPerMDU = 64 * 48
)

var (
	// ErrWrongSize signals a block that isn't exactly MDUSize bytes.
	ErrWrongSize = errors.New("blockdev: block must be exactly MDUSize bytes")
	// ErrBadMagic signals a file table header with the wrong magic.
	ErrBadMagic = errors.New("blockdev: invalid file table magic")
	// ErrRootOutOfRange signals a root index beyond the root table's capacity.
	ErrRootOutOfRange = errors.New("blockdev: root index out of bounds")
	// ErrFileTableFull signals a file table with no room left for another record.
	ErrFileTableFull = errors.New("blockdev: file table is full")
	// ErrRecordOutOfRange signals a file record index beyond RecordCount.
	ErrRecordOutOfRange = errors.New("blockdev: file record index out of bounds")
)

// Block0 is MDU #0 of a shard: the root table over every other MDU's
// Merkle root, followed by the flat file table indexing user files stored
// in the shard's data MDUs.
type Block0 struct {
	buffer      []byte
	header      FileTableHeader
	witnessMDUs uint64
	maxUserMDUs uint64
}

// witnessMDUCount returns W, the number of MDUs needed to hold the KZG
// witness commitments for up to maxUserMDUs user MDUs: ceil(maxUserMDUs *
// 64 blobs/MDU * 48 bytes/commitment / MDUSize).
func witnessMDUCount(maxUserMDUs uint64) uint64 {
	total := float64(maxUserMDUs) * float64(commitmentBytesPerMDU)
	return uint64(math.Ceil(total / float64(MDUSize)))
}

// New builds an empty Block0 sized for up to maxUserMDUs user MDUs.
func New(maxUserMDUs uint64) *Block0 {
	b := &Block0{
		buffer:      make([]byte, MDUSize),
		header:      NewFileTableHeader(),
		witnessMDUs: witnessMDUCount(maxUserMDUs),
		maxUserMDUs: maxUserMDUs,
	}
	b.flushHeader()
	return b
}

// Load parses an existing MDUSize-byte block into a Block0.
func Load(data []byte, maxUserMDUs uint64) (*Block0, error) {
	if len(data) != MDUSize {
		return nil, ErrWrongSize
	}
	header, err := FileTableHeaderFromBytes(data[FileTableStart : FileTableStart+FileTableHeaderSize])
	if err != nil {
		return nil, err
	}
	if header.Magic != MagicNILF {
		return nil, ErrBadMagic
	}

	buffer := make([]byte, MDUSize)
	copy(buffer, data)

	return &Block0{
		buffer:      buffer,
		header:      header,
		witnessMDUs: witnessMDUCount(maxUserMDUs),
		maxUserMDUs: maxUserMDUs,
	}, nil
}

// WitnessMDUCount returns W, the number of MDUs needed to hold the witness
// commitments of MaxUserMDUs user MDUs. Block0 only reports this count; it
// does not reserve or place those MDUs.
func (b *Block0) WitnessMDUCount() uint64 { return b.witnessMDUs }

// RecordCount returns the number of entries (live and tombstoned) in the
// file table.
func (b *Block0) RecordCount() uint32 { return b.header.RecordCount }

// MaxUserMDUs returns the capacity this block was sized for.
func (b *Block0) MaxUserMDUs() uint64 { return b.maxUserMDUs }

func (b *Block0) flushHeader() {
	bytes := b.header.Bytes()
	copy(b.buffer[FileTableStart:FileTableStart+FileTableHeaderSize], bytes[:])
}

// Bytes flushes the header and returns the block's full MDUSize-byte
// representation.
func (b *Block0) Bytes() []byte {
	b.flushHeader()
	return b.buffer
}

// GetRoot returns the Merkle root stored at root table index.
func (b *Block0) GetRoot(index uint64) ([32]byte, error) {
	offset := RootTableStart + int(index)*RootSize
	if offset+RootSize > RootTableEnd {
		return [32]byte{}, ErrRootOutOfRange
	}
	var root [32]byte
	copy(root[:], b.buffer[offset:offset+RootSize])
	return root, nil
}

// SetRoot writes root into root table index.
func (b *Block0) SetRoot(index uint64, root [32]byte) error {
	offset := RootTableStart + int(index)*RootSize
	if offset+RootSize > RootTableEnd {
		return ErrRootOutOfRange
	}
	copy(b.buffer[offset:offset+RootSize], root[:])
	return nil
}

func fileRecordOffset(index uint32) int {
	return FileTableStart + FileTableHeaderSize + int(index)*FileRecordSize
}

// GetFileRecord returns the record at file table index.
func (b *Block0) GetFileRecord(index uint32) (FileRecord, error) {
	if index >= b.header.RecordCount {
		return FileRecord{}, ErrRecordOutOfRange
	}
	offset := fileRecordOffset(index)
	return FileRecordFromBytes(b.buffer[offset : offset+FileRecordSize])
}

// AppendFileRecord appends rec as a new entry at the end of the file table.
func (b *Block0) AppendFileRecord(rec FileRecord) error {
	index := b.header.RecordCount
	offset := fileRecordOffset(index)
	if offset+FileRecordSize > FileTableEnd {
		return ErrFileTableFull
	}
	bytes := rec.Bytes()
	copy(b.buffer[offset:offset+FileRecordSize], bytes[:])
	b.header.RecordCount++
	b.flushHeader()
	return nil
}

// UpdateFileRecord overwrites the existing entry at index with rec.
func (b *Block0) UpdateFileRecord(index uint32, rec FileRecord) error {
	if index >= b.header.RecordCount {
		return ErrRecordOutOfRange
	}
	offset := fileRecordOffset(index)
	bytes := rec.Bytes()
	copy(b.buffer[offset:offset+FileRecordSize], bytes[:])
	return nil
}

// FindFreeSlotAndInsert places rec into the file table, reusing a
// tombstoned slot whose reclaimed extent is large enough to hold it.
// Reusing a slot preserves that slot's original StartOffset (the extent
// doesn't move) and, if the tombstone was larger than required, appends a
// new, smaller tombstone for the leftover space. If no tombstone fits,
// rec is appended as a new entry. It returns the index rec was written to.
func (b *Block0) FindFreeSlotAndInsert(rec FileRecord) (uint32, error) {
	required := rec.Length()

	for i := uint32(0); i < b.header.RecordCount; i++ {
		existing, err := b.GetFileRecord(i)
		if err != nil {
			return 0, err
		}
		if !existing.IsTombstone() {
			continue
		}
		tombLen := existing.Length()
		if tombLen < required {
			continue
		}

		rec.StartOffset = existing.StartOffset
		if err := b.UpdateFileRecord(i, rec); err != nil {
			return 0, err
		}

		if leftover := tombLen - required; leftover > 0 {
			tomb := FileRecord{
				StartOffset:    existing.StartOffset + required,
				LengthAndFlags: PackLengthAndFlags(leftover, 0),
			}
			if err := b.AppendFileRecord(tomb); err != nil {
				return 0, err
			}
		}
		log.Debugw("blockdev reused tombstoned slot", "index", i, "required", required, "tombstone_len", tombLen)
		return i, nil
	}

	if err := b.AppendFileRecord(rec); err != nil {
		return 0, err
	}
	return b.header.RecordCount - 1, nil
}
