package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zariiii9003/autosar-e2e/pkg/crclib"
)

func TestP01ProtectCheckRoundTrip(t *testing.T) {
	modes := []DataIDMode{DataIDBoth, DataIDAlt, DataIDLow, DataIDNibble}
	for _, mode := range modes {
		for length := 1; length <= 7; length++ {
			data := []byte{0x00, 0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}

			err := P01Protect(data, length, 0x1234, WithDataIDMode(mode))
			require.NoError(t, err)

			ok, err := P01Check(data, length, 0x1234, WithDataIDMode(mode))
			require.NoError(t, err)
			assert.Truef(t, ok, "mode %d length %d", mode, length)
		}
	}
}

func TestP01ProtectWritesCRCAndCounter(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x02, 0x03}

	err := P01Protect(data, 4, 0x0102)
	require.NoError(t, err)

	// Counter went 0 -> 1, payload untouched.
	assert.Equal(t, uint8(0x01), data[1]&0x0F)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, data[2:])

	// Reproduce the CRC with the public CRC-8 chaining: DataID low byte,
	// high byte, then the frame after the CRC byte, raw register form.
	crc := crclib.CalculateCRC8([]byte{0x02}, crclib.CRC8XorValue, false)
	crc = crclib.CalculateCRC8([]byte{0x01}, crc, false)
	crc = crclib.CalculateCRC8(data[1:5], crc, false)
	assert.Equal(t, crc^crclib.CRC8XorValue, data[0])
}

func TestP01CounterIncrementAndWrap(t *testing.T) {
	data := []byte{0x00, 0x00, 0xAA, 0xBB}

	for i := 1; i <= 30; i++ {
		err := P01Protect(data, 3, 0xBEEF)
		require.NoError(t, err)
		assert.Equal(t, uint8(i%15), data[1]&0x0F)
	}
}

func TestP01CounterWrapSkipsFifteen(t *testing.T) {
	// From 14 the counter wraps straight to 0; 15 is never produced.
	data := []byte{0x00, 0x0E, 0xAA}

	err := P01Protect(data, 2, 0x0001)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), data[1]&0x0F)
}

func TestP01ProtectPreservesHighNibble(t *testing.T) {
	data := []byte{0x00, 0xA0, 0x55, 0x66}

	err := P01Protect(data, 3, 0x0001)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xA0), data[1]&0xF0)
}

func TestP01NoIncrementIsIdempotent(t *testing.T) {
	data := []byte{0x00, 0x05, 0x11, 0x22}

	err := P01Protect(data, 3, 0x4321, WithIncrementCounter(false))
	require.NoError(t, err)
	snapshot := append([]byte{}, data...)

	err = P01Protect(data, 3, 0x4321, WithIncrementCounter(false))
	require.NoError(t, err)
	assert.Equal(t, snapshot, data)
}

func TestP01NibbleModeWritesDataIDNibble(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x02, 0x03}

	err := P01Protect(data, 4, 0x3ABC, WithDataIDMode(DataIDNibble))
	require.NoError(t, err)

	// The low nibble of the DataID high byte (0x3A -> 0xA) lands in the
	// high nibble of byte 1.
	assert.Equal(t, uint8(0xA0), data[1]&0xF0)

	ok, err := P01Check(data, 4, 0x3ABC, WithDataIDMode(DataIDNibble))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestP01NibbleModeRejectsWrongNibble(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x02, 0x03}

	err := P01Protect(data, 4, 0x3ABC, WithDataIDMode(DataIDNibble))
	require.NoError(t, err)

	data[1] = data[1]&0x0F | 0x40

	ok, err := P01Check(data, 4, 0x3ABC, WithDataIDMode(DataIDNibble))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestP01AltModeDependsOnCounterParity(t *testing.T) {
	// Same payload protected at even and odd counter values must differ
	// for a DataID whose bytes differ.
	even := []byte{0x00, 0x01, 0x77} // counter 1 -> 2 (even)
	odd := []byte{0x00, 0x02, 0x77}  // counter 2 -> 3 (odd)

	require.NoError(t, P01Protect(even, 2, 0x12AB, WithDataIDMode(DataIDAlt)))
	require.NoError(t, P01Protect(odd, 2, 0x12AB, WithDataIDMode(DataIDAlt)))

	// Reproduce both seeds explicitly.
	crcEven := crclib.CalculateCRC8([]byte{0xAB}, crclib.CRC8XorValue, false)
	crcEven = crclib.CalculateCRC8(even[1:3], crcEven, false)
	assert.Equal(t, crcEven^crclib.CRC8XorValue, even[0])

	crcOdd := crclib.CalculateCRC8([]byte{0x12}, crclib.CRC8XorValue, false)
	crcOdd = crclib.CalculateCRC8(odd[1:3], crcOdd, false)
	assert.Equal(t, crcOdd^crclib.CRC8XorValue, odd[0])
}

func TestP01CheckRejectsCounterFifteen(t *testing.T) {
	data := []byte{0x00, 0x00, 0xAA}
	require.NoError(t, P01Protect(data, 2, 0x0102))

	data[1] = data[1]&0xF0 | 0x0F

	ok, err := P01Check(data, 2, 0x0102)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestP01CheckRejectsBitFlips(t *testing.T) {
	data := []byte{0x00, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}
	require.NoError(t, P01Protect(data, 5, 0xCAFE))

	for i := 0; i < 6; i++ {
		for bit := uint(0); bit < 8; bit++ {
			mutated := append([]byte{}, data...)
			mutated[i] ^= 1 << bit

			ok, err := P01Check(mutated, 5, 0xCAFE)
			require.NoError(t, err)
			assert.Falsef(t, ok, "flip byte %d bit %d went undetected", i, bit)
		}
	}
}

func TestP01ValidationErrors(t *testing.T) {
	short := []byte{0x00, 0x01}
	err := P01Protect(short, 1, 0x0001)
	assert.ErrorIs(t, err, ErrBufferTooShort)

	data := []byte{0x00, 0x00, 0x01, 0x02}
	assert.ErrorIs(t, P01Protect(data, 0, 0x0001), ErrInvalidLength)
	assert.ErrorIs(t, P01Protect(data, 4, 0x0001), ErrInvalidLength)

	_, err = P01Check([]byte{0x00}, 1, 0x0001)
	assert.ErrorIs(t, err, ErrBufferTooShort)

	_, err = P01Check(data, 0, 0x0001)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestP01ProtectFailureLeavesBufferUntouched(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78}
	snapshot := append([]byte{}, data...)

	err := P01Protect(data, 9, 0x0001)
	require.Error(t, err)
	assert.Equal(t, snapshot, data)
}
