package e2e

import (
	"fmt"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

// Profile 2 frame layout: CRC-8 H2F in byte 0, alive counter in the low
// nibble of byte 1. The DataID is not transmitted; the counter selects
// one byte out of a 16-byte list shared between the peers, and that byte
// is appended to the CRC domain.
const (
	p02CRCPos       = 0
	p02CounterPos   = 1
	p02DataIDLength = 16
)

func computeP02CRC(data []byte, length int, dataIDList []byte, counter uint8) uint8 {
	crc := crclib.CalculateCRC8H2F(data[p02CounterPos:p02CounterPos+length], crclib.CRC8H2FInitialValue, true)
	return crclib.CalculateCRC8H2F(dataIDList[counter:counter+1], crc, false)
}

func validateP02(data []byte, length int, dataIDList []byte, minLen int) error {
	if len(data) < minLen {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrBufferTooShort, minLen, len(data))
	}
	if length < 1 || length > len(data)-1 {
		return fmt.Errorf("%w: need 1 <= length <= len(data)-1, got %d", ErrInvalidLength, length)
	}
	if len(dataIDList) != p02DataIDLength {
		return fmt.Errorf("%w: got %d", ErrInvalidDataIDList, len(dataIDList))
	}
	return nil
}

// P02Protect stamps data in place according to E2E Profile 2. The frame
// starts with the CRC byte; length is the number of bytes after it that
// participate in the CRC. dataIDList must contain exactly 16 bytes.
// Supported options: WithIncrementCounter.
func P02Protect(data []byte, length int, dataIDList []byte, opts ...Option) error {
	cfg, err := applyOptions(opts)
	if err != nil {
		return err
	}
	if err := validateP02(data, length, dataIDList, 3); err != nil {
		return err
	}

	counter := data[p02CounterPos] & 0x0F
	if cfg.incrementCounter {
		counter = (counter + 1) % 16
		data[p02CounterPos] = data[p02CounterPos]&0xF0 | counter
	}

	data[p02CRCPos] = computeP02CRC(data, length, dataIDList, counter)
	return nil
}

// P02Check reports whether the stored CRC of data matches the value
// recomputed with the counter-selected DataID byte. The counter is never
// modified.
func P02Check(data []byte, length int, dataIDList []byte) (bool, error) {
	if err := validateP02(data, length, dataIDList, 2); err != nil {
		return false, err
	}

	counter := data[p02CounterPos] & 0x0F
	return data[p02CRCPos] == computeP02CRC(data, length, dataIDList, counter), nil
}
