package e2e

import (
	"encoding/binary"
	"fmt"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

// Profile 5 header, 3 bytes at the configured offset: CRC-16 (2 bytes,
// little endian) followed by a one-byte alive counter. The DataID is
// supplied out of band and mixed into the CRC after the payload.
const (
	p05CRCPos     = 0
	p05CounterPos = 2
	p05HeaderLen  = 3
)

// computeP05CRC skips the two CRC bytes and appends the DataID low byte,
// then the high byte, as single-byte continuations.
func computeP05CRC(data []byte, length int, dataID uint16, offset int) uint16 {
	var crc uint16
	if offset > 0 {
		crc = crclib.CalculateCRC16(data[:offset], crclib.CRC16InitialValue, true)
		crc = crclib.CalculateCRC16(data[offset+p05CounterPos:length+p05CounterPos], crc, false)
	} else {
		crc = crclib.CalculateCRC16(data[p05CounterPos:length+p05CounterPos], crclib.CRC16InitialValue, true)
	}
	crc = crclib.CalculateCRC16([]byte{byte(dataID)}, crc, false)
	crc = crclib.CalculateCRC16([]byte{byte(dataID >> 8)}, crc, false)
	return crc
}

func validateP05(data []byte, length, offset int) error {
	if len(data) <= p05HeaderLen {
		return fmt.Errorf("%w: need more than %d bytes, got %d", ErrBufferTooShort, p05HeaderLen, len(data))
	}
	if length < 1 || length > len(data)-2 {
		return fmt.Errorf("%w: need 1 <= length <= len(data)-2, got %d", ErrInvalidLength, length)
	}
	// The second CRC segment spans length-offset bytes, so the header may
	// not sit beyond the protected region.
	if offset > len(data)-p05HeaderLen || offset > length {
		return fmt.Errorf("%w: header does not fit at offset %d", ErrInvalidOffset, offset)
	}
	return nil
}

// P05Protect stamps data in place according to E2E Profile 5: it
// advances the one-byte counter (natural wrap) and stores the CRC little
// endian. Supported options: WithOffset, WithIncrementCounter.
func P05Protect(data []byte, length int, dataID uint16, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}
	if err := validateP05(data, length, cfg.offset); err != nil {
		return err
	}
	offset := cfg.offset

	if cfg.incrementCounter {
		data[offset+p05CounterPos]++
	}

	crc := computeP05CRC(data, length, dataID, offset)
	binary.LittleEndian.PutUint16(data[offset+p05CRCPos:], crc)
	return nil
}

// P05Check reports whether the stored CRC of data matches the value
// recomputed with the supplied DataID. The counter is never modified.
// Supported options: WithOffset.
func P05Check(data []byte, length int, dataID uint16, opts ...Option) (bool, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return false, err
	}
	if err := validateP05(data, length, cfg.offset); err != nil {
		return false, err
	}
	offset := cfg.offset

	crc := computeP05CRC(data, length, dataID, offset)
	crcActual := binary.LittleEndian.Uint16(data[offset+p05CRCPos:])

	return crc == crcActual, nil
}
