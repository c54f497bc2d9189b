// Package hash provides the checksums recorded for generated artifacts.
//
// Artifacts are checksummed with CRC32-Castagnoli (CRC32C), which Go's
// hash/crc32 accelerates in hardware on x86 (SSE4.2) and ARM. Checksums are
// rendered as "crc32c:" followed by eight lowercase hex digits.
//
//	sum := hash.CRC32C(src)
//	tag := hash.Format(sum) // "crc32c:1a2b3c4d"
package hash
