// Package safecast implements functions to safely cast on-chain integers to
// native types without silent truncation.
package safecast

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/spf13/cast"
)

const (
	errUint64RangeExceeded = "value %s exceeds uint64 range"
)

// Uint64ToUint8 safely converts a uint64 to uint8 using cast and checks for overflow
func Uint64ToUint8(value uint64) (uint8, error) {
	if value > math.MaxUint8 {
		return 0, fmt.Errorf("value %d exceeds uint8 range", value)
	}

	return cast.ToUint8E(value)
}

// Uint64ToUint16 safely converts a uint64 to uint16 using cast and checks for overflow
func Uint64ToUint16(value uint64) (uint16, error) {
	if value > math.MaxUint16 {
		return 0, fmt.Errorf("value %d exceeds uint16 range", value)
	}

	return cast.ToUint16E(value)
}

// Uint64ToInt64 safely converts a uint64 to int64 using cast and checks for overflow
func Uint64ToInt64(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("value %d exceeds int64 range", value)
	}

	return cast.ToInt64E(value)
}

// BigToUint64 converts a non-negative big integer that fits in 64 bits.
func BigToUint64(value *big.Int) (uint64, error) {
	if value == nil {
		return 0, errors.New("value is nil")
	}
	if value.Sign() < 0 {
		return 0, fmt.Errorf("value %s is negative, cannot convert to uint64", value)
	}
	if !value.IsUint64() {
		return 0, fmt.Errorf(errUint64RangeExceeded, value)
	}

	return value.Uint64(), nil
}

// BigToInt64 converts a big integer that fits in a signed 64 bit integer.
func BigToInt64(value *big.Int) (int64, error) {
	if value == nil {
		return 0, errors.New("value is nil")
	}
	if !value.IsInt64() {
		return 0, fmt.Errorf("value %s exceeds int64 range", value)
	}

	return value.Int64(), nil
}
