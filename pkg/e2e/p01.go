package e2e

import (
	"fmt"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

// Profile 1 frame layout: CRC-8 in byte 0, alive counter in the low
// nibble of byte 1, explicit DataID nibble (NIBBLE mode only) in the
// high nibble of byte 1.
const (
	p01CRCPos     = 0
	p01CounterPos = 1
	p01MaxCounter = 14
)

// computeP01CRC feeds the DataID seed bytes, then the frame bytes after
// the CRC byte, through chained CRC-8 segments. The seed segments start
// from a zeroed register (start value equal to the XOR value), and the
// transmitted CRC is the raw register, so the finalised result is
// un-finalised once more before it is returned.
func computeP01CRC(data []byte, length int, dataID uint16, mode DataIDMode, counter uint8) uint8 {
	lo := []byte{byte(dataID)}
	hi := []byte{byte(dataID >> 8)}

	var crc uint8
	switch mode {
	case DataIDBoth:
		crc = crclib.CalculateCRC8(lo, crclib.CRC8XorValue, false)
		crc = crclib.CalculateCRC8(hi, crc, false)
	case DataIDAlt:
		if counter%2 == 0 {
			crc = crclib.CalculateCRC8(lo, crclib.CRC8XorValue, false)
		} else {
			crc = crclib.CalculateCRC8(hi, crclib.CRC8XorValue, false)
		}
	case DataIDLow:
		crc = crclib.CalculateCRC8(lo, crclib.CRC8XorValue, false)
	case DataIDNibble:
		crc = crclib.CalculateCRC8(lo, crclib.CRC8XorValue, false)
		crc = crclib.CalculateCRC8([]byte{0x00}, crc, false)
	}

	crc = crclib.CalculateCRC8(data[p01CRCPos+1:p01CRCPos+1+length], crc, false)

	return crc ^ crclib.CRC8XorValue
}

// P01Protect stamps data in place according to E2E Profile 1. The frame
// starts with the CRC byte; length is the number of bytes after it that
// participate in the CRC. Supported options: WithDataIDMode,
// WithIncrementCounter.
func P01Protect(data []byte, length int, dataID uint16, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}
	if len(data) <= 2 {
		return fmt.Errorf("%w: need more than 2 bytes, got %d", ErrBufferTooShort, len(data))
	}
	if length < 1 || length > len(data)-1 {
		return fmt.Errorf("%w: need 1 <= length <= len(data)-1, got %d", ErrInvalidLength, length)
	}

	counter := data[p01CounterPos] & 0x0F
	if cfg.incrementCounter {
		counter = (counter + 1) % 15 // alive counter stays in 0-14
		data[p01CounterPos] = data[p01CounterPos]&0xF0 | counter
	}

	if cfg.dataIDMode == DataIDNibble {
		// Low nibble of the DataID high byte, shifted into the high
		// nibble of byte 1.
		data[p01CounterPos] = data[p01CounterPos]&0x0F | byte(dataID>>4)&0xF0
	}

	data[p01CRCPos] = computeP01CRC(data, length, dataID, cfg.dataIDMode, counter)
	return nil
}

// P01Check reports whether data carries a valid Profile 1 protection:
// the counter must be in range, the DataID nibble (NIBBLE mode) must
// match, and the stored CRC must equal the recomputed one. The counter
// is never modified. Supported options: WithDataIDMode.
func P01Check(data []byte, length int, dataID uint16, opts ...Option) (bool, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return false, err
	}
	if len(data) < 2 {
		return false, fmt.Errorf("%w: need at least 2 bytes, got %d", ErrBufferTooShort, len(data))
	}
	if length < 1 || length > len(data)-1 {
		return false, fmt.Errorf("%w: need 1 <= length <= len(data)-1, got %d", ErrInvalidLength, length)
	}

	counter := data[p01CounterPos] & 0x0F
	if counter > p01MaxCounter {
		return false, nil
	}

	if cfg.dataIDMode == DataIDNibble {
		if data[p01CounterPos]>>4 != byte(dataID>>8)&0x0F {
			return false, nil
		}
	}

	return data[p01CRCPos] == computeP01CRC(data, length, dataID, cfg.dataIDMode, counter), nil
}
