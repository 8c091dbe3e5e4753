package e2e

import (
	"errors"
	"fmt"
)

// DataIDMode selects how Profile 1 folds the 16-bit DataID into the CRC.
type DataIDMode uint8

const (
	// DataIDBoth feeds the low byte, then the high byte of the DataID.
	DataIDBoth DataIDMode = iota
	// DataIDAlt feeds the low byte on even counters and the high byte on
	// odd counters.
	DataIDAlt
	// DataIDLow feeds only the low byte.
	DataIDLow
	// DataIDNibble feeds the low byte followed by 0x00 and transmits the
	// low nibble of the high byte explicitly in the frame.
	DataIDNibble
)

var (
	ErrBufferTooShort    = errors.New("buffer too short")
	ErrInvalidLength     = errors.New("invalid length")
	ErrInvalidOffset     = errors.New("invalid offset")
	ErrInvalidDataIDList = errors.New("data ID list must be exactly 16 bytes")
	ErrInvalidDataIDMode = errors.New("invalid data ID mode")
)

// Option configures a protect or check call.
type Option func(*config) error

// config holds the per-call configuration shared by all profiles. Each
// profile only consults the fields that exist in its header layout.
type config struct {
	offset           int
	incrementCounter bool
	dataIDMode       DataIDMode
}

func defaultConfig() *config {
	return &config{
		offset:           0,
		incrementCounter: true,
		dataIDMode:       DataIDBoth,
	}
}

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return cfg, nil
}

// WithOffset sets the byte position of the E2E header inside the frame.
// It applies to Profiles 4, 5, 6 and 7; Profiles 1 and 2 have a fixed
// header position. Default is 0.
func WithOffset(offset int) Option {
	return func(c *config) error {
		if offset < 0 {
			return errors.New("offset must not be negative")
		}
		c.offset = offset
		return nil
	}
}

// WithDataIDMode sets the Profile 1 DataID inclusion mode.
// Default is DataIDBoth.
func WithDataIDMode(mode DataIDMode) Option {
	return func(c *config) error {
		if mode > DataIDNibble {
			return ErrInvalidDataIDMode
		}
		c.dataIDMode = mode
		return nil
	}
}

// WithIncrementCounter controls whether protect advances the alive
// counter before the CRC is computed. Default is true. Check calls never
// touch the counter, regardless of this option.
func WithIncrementCounter(increment bool) Option {
	return func(c *config) error {
		c.incrementCounter = increment
		return nil
	}
}
