// Package crclib provides the table-driven CRC routines used by the
// AUTOSAR E2E communication protection profiles: CRC-8 (SAE J1850),
// CRC-8 H2F, CRC-16 CCITT-FALSE, CRC-16 ARC, CRC-32 (Ethernet),
// CRC-32 P4 and CRC-64.
//
// Every routine supports segmented computation. The first segment is
// processed with firstCall set to true; each further segment passes the
// previous return value as startValue with firstCall set to false:
//
//	crc := crclib.CalculateCRC32(part1, crclib.CRC32InitialValue, true)
//	crc = crclib.CalculateCRC32(part2, crc, false)
//
// Return values are always finalised, so they can be compared against
// transmitted checksums directly at any point in the chain.
//
// The lookup tables are generated once at startup and verified against
// the published check values; an inconsistent build panics immediately
// rather than producing wrong checksums at runtime.
package crclib
