// Package e2e implements the AUTOSAR End-to-End communication
// protection Profiles 1, 2, 4, 5, 6 and 7.
//
// Each profile pairs a protect operation, which stamps a counter, an
// identifier signature and a CRC into a caller-owned frame in place,
// with a check operation that verifies the same fields on reception:
//
//	frame := make([]byte, 16)
//	copy(frame[12:], payload)
//	if err := e2e.P04Protect(frame, 16, 0x0A0B0C0D); err != nil {
//	    log.Fatal(err)
//	}
//	// ... transmit ...
//	ok, err := e2e.P04Check(frame, 16, 0x0A0B0C0D)
//
// Protect calls accept functional options for the header offset, the
// Profile 1 DataID mode and counter handling:
//
//	e2e.P07Protect(frame, length, dataID,
//	    e2e.WithOffset(8),
//	    e2e.WithIncrementCounter(false),
//	)
//
// A failed verification is the normal negative outcome of a check and is
// reported as a false return value; errors are reserved for structurally
// invalid arguments. Protect never mutates the frame when it returns an
// error.
//
// The package holds no state of its own. Alive counters live inside the
// frame, so concurrent calls on distinct buffers are safe; calls on a
// shared buffer must be serialised by the caller.
package e2e
