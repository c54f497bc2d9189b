package hash

import (
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"strconv"
	"strings"
)

const prefix = "crc32c:"

// ErrMalformedChecksum is returned by Parse for strings not produced by Format.
var ErrMalformedChecksum = errors.New("malformed checksum")

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new streaming CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Format renders sum as "crc32c:xxxxxxxx".
func Format(sum uint32) string {
	return fmt.Sprintf("%s%08x", prefix, sum)
}

// Parse is the inverse of Format.
func Parse(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, prefix)
	if !ok || len(hex) != 8 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedChecksum, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedChecksum, s)
	}
	return uint32(v), nil
}
