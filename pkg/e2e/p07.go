package e2e

import (
	"encoding/binary"
	"fmt"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

// Profile 7 header, 20 bytes at the configured offset, all fields big
// endian: CRC-64 (8), length (4), counter (4), DataID (4).
const (
	p07CRCPos     = 0
	p07CRCLen     = 8
	p07LengthPos  = 8
	p07CounterPos = 12
	p07DataIDPos  = 16
	p07HeaderLen  = 20
)

// computeP07CRC covers the whole protected region except the 8 CRC
// bytes; length, counter and DataID fields are all inside the domain.
func computeP07CRC(data []byte, length, offset int) uint64 {
	crc := crclib.CalculateCRC64(data[:offset], crclib.CRC64InitialValue, true)
	if offset+p07CRCLen < length {
		crc = crclib.CalculateCRC64(data[offset+p07CRCLen:length], crc, false)
	}
	return crc
}

func validateP07(data []byte, length, offset int) error {
	if len(data) < p07HeaderLen {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrBufferTooShort, p07HeaderLen, len(data))
	}
	if length < p07HeaderLen || length > len(data) {
		return fmt.Errorf("%w: need %d <= length <= len(data), got %d", ErrInvalidLength, p07HeaderLen, length)
	}
	if offset > len(data)-p07HeaderLen {
		return fmt.Errorf("%w: header does not fit at offset %d", ErrInvalidOffset, offset)
	}
	return nil
}

// P07Protect stamps data in place according to E2E Profile 7: it writes
// the length, advances the 32-bit counter, writes the DataID and stores
// the CRC-64 big endian. Supported options: WithOffset,
// WithIncrementCounter.
func P07Protect(data []byte, length int, dataID uint32, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}
	if err := validateP07(data, length, cfg.offset); err != nil {
		return err
	}
	offset := cfg.offset

	binary.BigEndian.PutUint32(data[offset+p07LengthPos:], uint32(length))

	if cfg.incrementCounter {
		counter := binary.BigEndian.Uint32(data[offset+p07CounterPos:])
		counter++
		binary.BigEndian.PutUint32(data[offset+p07CounterPos:], counter)
	}

	binary.BigEndian.PutUint32(data[offset+p07DataIDPos:], dataID)

	crc := computeP07CRC(data, length, offset)
	binary.BigEndian.PutUint64(data[offset+p07CRCPos:], crc)
	return nil
}

// P07Check reports whether the stored length, DataID and CRC of data all
// match the expected values. The counter is never modified. Supported
// options: WithOffset.
func P07Check(data []byte, length int, dataID uint32, opts ...Option) (bool, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return false, err
	}
	if err := validateP07(data, length, cfg.offset); err != nil {
		return false, err
	}
	offset := cfg.offset

	lengthActual := int(binary.BigEndian.Uint32(data[offset+p07LengthPos:]))
	dataIDActual := binary.BigEndian.Uint32(data[offset+p07DataIDPos:])
	crcActual := binary.BigEndian.Uint64(data[offset+p07CRCPos:])

	crc := computeP07CRC(data, length, offset)

	return lengthActual == length && dataIDActual == dataID && crcActual == crc, nil
}
