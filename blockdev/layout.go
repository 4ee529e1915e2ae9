// Package blockdev builds and parses the reserved MDU #0 of a shard: a
// fixed-layout 8MiB block holding the MDU root table and the flat file
// table that indexes user files packed into the shard's remaining MDUs.
package blockdev

import (
	"encoding/binary"
	"fmt"
)

// MagicNILF identifies a valid file table header.
var MagicNILF = [4]byte{0x4E, 0x49, 0x4C, 0x46} // "NILF"

const (
	// FlagEncrypted marks a file record whose contents are encrypted.
	FlagEncrypted = 0x80
	// FlagHidden marks a file record that should not be listed by default.
	FlagHidden = 0x40
	// FlagCompressionMask isolates the compression sub-field of a flag byte.
	FlagCompressionMask = 0x0F

	// FlagCompressionNone means the record's bytes are stored as-is.
	FlagCompressionNone = 0x00
	// FlagCompressionGzip means the record's bytes are gzip-compressed.
	FlagCompressionGzip = 0x01
	// FlagCompressionZstd means the record's bytes are zstd-compressed.
	FlagCompressionZstd = 0x02
	// FlagCompressionBrotli means the record's bytes are brotli-compressed.
	FlagCompressionBrotli = 0x03
)

// FileTableHeaderSize is the on-disk size of FileTableHeader.
const FileTableHeaderSize = 128

// FileTableHeader is the 128-byte header that opens the file table region.
type FileTableHeader struct {
	Magic       [4]byte
	Version     uint8
	pad1        uint8
	RecordSize  uint16
	RecordCount uint32
	Reserved    [116]byte
}

// NewFileTableHeader returns the default header for a fresh block: magic
// set, version 1, RecordSize fixed at FileRecordSize, zero records.
func NewFileTableHeader() FileTableHeader {
	return FileTableHeader{
		Magic:      MagicNILF,
		Version:    1,
		RecordSize: FileRecordSize,
	}
}

// Bytes serializes the header to its 128-byte little-endian encoding.
func (h *FileTableHeader) Bytes() [FileTableHeaderSize]byte {
	var out [FileTableHeaderSize]byte
	copy(out[0:4], h.Magic[:])
	out[4] = h.Version
	out[5] = h.pad1
	binary.LittleEndian.PutUint16(out[6:8], h.RecordSize)
	binary.LittleEndian.PutUint32(out[8:12], h.RecordCount)
	copy(out[12:128], h.Reserved[:])
	return out
}

// FileTableHeaderFromBytes parses a 128-byte header.
func FileTableHeaderFromBytes(b []byte) (FileTableHeader, error) {
	if len(b) != FileTableHeaderSize {
		return FileTableHeader{}, fmt.Errorf("blockdev: header must be %d bytes, got %d", FileTableHeaderSize, len(b))
	}
	var h FileTableHeader
	copy(h.Magic[:], b[0:4])
	h.Version = b[4]
	h.pad1 = b[5]
	h.RecordSize = binary.LittleEndian.Uint16(b[6:8])
	h.RecordCount = binary.LittleEndian.Uint32(b[8:12])
	copy(h.Reserved[:], b[12:128])
	return h, nil
}

// FileRecordSize is the on-disk size of FileRecord.
const FileRecordSize = 64

// filePathSize is the size of FileRecord's fixed path field.
const filePathSize = 40

// FileRecord is one 64-byte entry in the file table: an extent of the
// shard's data region, carrying its own length, flags, timestamp and path.
// A record whose Path's first byte is 0 is a tombstone: its LengthAndFlags
// field still carries the reclaimable extent's length.
type FileRecord struct {
	StartOffset    uint64
	LengthAndFlags uint64
	Timestamp      uint64
	Path           [filePathSize]byte
}

// PackLengthAndFlags packs a 56-bit length and an 8-bit flag byte into the
// single 64-bit field FileRecord stores on disk.
func PackLengthAndFlags(length uint64, flags uint8) uint64 {
	clean := length & 0x00FFFFFFFFFFFFFF
	return uint64(flags)<<56 | clean
}

// UnpackLengthAndFlags splits a packed LengthAndFlags field back into its
// length and flags components.
func UnpackLengthAndFlags(val uint64) (length uint64, flags uint8) {
	length = val & 0x00FFFFFFFFFFFFFF
	flags = uint8(val >> 56)
	return
}

// Length is a convenience accessor for the record's unpacked length.
func (r FileRecord) Length() uint64 {
	length, _ := UnpackLengthAndFlags(r.LengthAndFlags)
	return length
}

// Flags is a convenience accessor for the record's unpacked flag byte.
func (r FileRecord) Flags() uint8 {
	_, flags := UnpackLengthAndFlags(r.LengthAndFlags)
	return flags
}

// SetFlags rewrites the record's flag byte, keeping its length unchanged.
// The core never interprets these bits; they are reserved for a future
// encryption/compression layer above it.
func (r *FileRecord) SetFlags(flags uint8) {
	length, _ := UnpackLengthAndFlags(r.LengthAndFlags)
	r.LengthAndFlags = PackLengthAndFlags(length, flags)
}

// IsTombstone reports whether the record marks reclaimable, unnamed space.
func (r FileRecord) IsTombstone() bool { return r.Path[0] == 0 }

// Bytes serializes the record to its 64-byte little-endian encoding.
func (r FileRecord) Bytes() [FileRecordSize]byte {
	var out [FileRecordSize]byte
	binary.LittleEndian.PutUint64(out[0:8], r.StartOffset)
	binary.LittleEndian.PutUint64(out[8:16], r.LengthAndFlags)
	binary.LittleEndian.PutUint64(out[16:24], r.Timestamp)
	copy(out[24:64], r.Path[:])
	return out
}

// FileRecordFromBytes parses a 64-byte file record.
func FileRecordFromBytes(b []byte) (FileRecord, error) {
	if len(b) != FileRecordSize {
		return FileRecord{}, fmt.Errorf("blockdev: file record must be %d bytes, got %d", FileRecordSize, len(b))
	}
	var r FileRecord
	r.StartOffset = binary.LittleEndian.Uint64(b[0:8])
	r.LengthAndFlags = binary.LittleEndian.Uint64(b[8:16])
	r.Timestamp = binary.LittleEndian.Uint64(b[16:24])
	copy(r.Path[:], b[24:64])
	return r, nil
}
