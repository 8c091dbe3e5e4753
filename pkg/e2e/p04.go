package e2e

import (
	"encoding/binary"
	"fmt"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

// Profile 4 header, 12 bytes at the configured offset, all fields big
// endian: length (2), counter (2), DataID (4), CRC-32 P4 (4).
const (
	p04LengthPos  = 0
	p04CounterPos = 2
	p04DataIDPos  = 4
	p04CRCPos     = 8
	p04HeaderLen  = 12
)

// computeP04CRC covers everything before the CRC field and, if the
// protected region extends past the header, everything after it.
func computeP04CRC(data []byte, length, offset int) uint32 {
	crc := crclib.CalculateCRC32P4(data[:offset+p04CRCPos], crclib.CRC32P4InitialValue, true)
	if offset+p04HeaderLen < length {
		crc = crclib.CalculateCRC32P4(data[offset+p04HeaderLen:length], crc, false)
	}
	return crc
}

func validateP04(data []byte, length, offset int) error {
	if len(data) < p04HeaderLen {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrBufferTooShort, p04HeaderLen, len(data))
	}
	if length < p04HeaderLen || length > len(data) {
		return fmt.Errorf("%w: need %d <= length <= len(data), got %d", ErrInvalidLength, p04HeaderLen, length)
	}
	if offset > len(data)-p04HeaderLen {
		return fmt.Errorf("%w: header does not fit at offset %d", ErrInvalidOffset, offset)
	}
	return nil
}

// P04Protect stamps data in place according to E2E Profile 4: it writes
// the length, advances the 16-bit counter, writes the DataID and stores
// the CRC over the protected region. Supported options: WithOffset,
// WithIncrementCounter.
func P04Protect(data []byte, length int, dataID uint32, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}
	if err := validateP04(data, length, cfg.offset); err != nil {
		return err
	}
	offset := cfg.offset

	binary.BigEndian.PutUint16(data[offset+p04LengthPos:], uint16(length))

	if cfg.incrementCounter {
		counter := binary.BigEndian.Uint16(data[offset+p04CounterPos:])
		counter++
		binary.BigEndian.PutUint16(data[offset+p04CounterPos:], counter)
	}

	binary.BigEndian.PutUint32(data[offset+p04DataIDPos:], dataID)

	crc := computeP04CRC(data, length, offset)
	binary.BigEndian.PutUint32(data[offset+p04CRCPos:], crc)
	return nil
}

// P04Check reports whether the stored length, DataID and CRC of data all
// match the expected values. The counter is never modified. Supported
// options: WithOffset.
func P04Check(data []byte, length int, dataID uint32, opts ...Option) (bool, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return false, err
	}
	if err := validateP04(data, length, cfg.offset); err != nil {
		return false, err
	}
	offset := cfg.offset

	lengthActual := int(binary.BigEndian.Uint16(data[offset+p04LengthPos:]))
	dataIDActual := binary.BigEndian.Uint32(data[offset+p04DataIDPos:])
	crcActual := binary.BigEndian.Uint32(data[offset+p04CRCPos:])

	crc := computeP04CRC(data, length, offset)

	return lengthActual == length && dataIDActual == dataID && crcActual == crc, nil
}
