package e2e

import (
	"encoding/binary"
	"fmt"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

// Profile 6 header, 5 bytes at the configured offset: CRC-16 (2 bytes,
// big endian), length (2 bytes, big endian), one-byte alive counter.
// The DataID is supplied out of band and mixed into the CRC after the
// payload, high byte first.
const (
	p06CRCPos     = 0
	p06LengthPos  = 2
	p06CounterPos = 4
	p06HeaderLen  = 5
)

func computeP06CRC(data []byte, length int, dataID uint16, offset int) uint16 {
	var crc uint16
	if offset > 0 {
		crc = crclib.CalculateCRC16(data[:offset], crclib.CRC16InitialValue, true)
		crc = crclib.CalculateCRC16(data[offset+p06LengthPos:length], crc, false)
	} else {
		crc = crclib.CalculateCRC16(data[p06LengthPos:length], crclib.CRC16InitialValue, true)
	}
	crc = crclib.CalculateCRC16([]byte{byte(dataID >> 8)}, crc, false)
	crc = crclib.CalculateCRC16([]byte{byte(dataID)}, crc, false)
	return crc
}

func validateP06(data []byte, length, offset int) error {
	if len(data) < p06HeaderLen {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrBufferTooShort, p06HeaderLen, len(data))
	}
	if length < p06HeaderLen || length > len(data) {
		return fmt.Errorf("%w: need %d <= length <= len(data), got %d", ErrInvalidLength, p06HeaderLen, length)
	}
	// The CRC domain resumes at offset+2 and runs to length, so the
	// header may not sit beyond the protected region.
	if offset > len(data)-p06HeaderLen || offset+p06LengthPos > length {
		return fmt.Errorf("%w: header does not fit at offset %d", ErrInvalidOffset, offset)
	}
	return nil
}

// P06Protect stamps data in place according to E2E Profile 6: it writes
// the length, advances the one-byte counter (natural wrap) and stores
// the CRC big endian. Supported options: WithOffset,
// WithIncrementCounter.
func P06Protect(data []byte, length int, dataID uint16, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}
	if err := validateP06(data, length, cfg.offset); err != nil {
		return err
	}
	offset := cfg.offset

	binary.BigEndian.PutUint16(data[offset+p06LengthPos:], uint16(length))

	if cfg.incrementCounter {
		data[offset+p06CounterPos]++
	}

	crc := computeP06CRC(data, length, dataID, offset)
	binary.BigEndian.PutUint16(data[offset+p06CRCPos:], crc)
	return nil
}

// P06Check reports whether the stored length and CRC of data match the
// expected values. The counter is never modified. Supported options:
// WithOffset.
func P06Check(data []byte, length int, dataID uint16, opts ...Option) (bool, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return false, err
	}
	if err := validateP06(data, length, cfg.offset); err != nil {
		return false, err
	}
	offset := cfg.offset

	lengthActual := int(binary.BigEndian.Uint16(data[offset+p06LengthPos:]))
	crcActual := binary.BigEndian.Uint16(data[offset+p06CRCPos:])

	crc := computeP06CRC(data, length, dataID, offset)

	return lengthActual == length && crcActual == crc, nil
}
