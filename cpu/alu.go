package cpu

import (
	"math"
)

// BYTE_LN is ln(255), rounded; exp*ln(base) above it overflows a byte.
const BYTE_LN = 5.54

// truncate converts a float to a byte through a 32-bit integer, keeping
// the low byte. NaN and values outside of int32 convert to zero.
func truncate(val float64) byte {
	if math.IsNaN(val) || val >= math.MaxInt32+1 || val <= math.MinInt32-1 {
		return 0
	}
	return byte(int32(val))
}

// divide rounds half away from zero. A zero divisor gives math.MinInt64.
func divide(x, y byte) int64 {
	quotient := math.Round(float64(x) / float64(y))
	if math.IsInf(quotient, 0) || math.IsNaN(quotient) {
		return math.MinInt64
	}
	return int64(quotient)
}

func pow(base, exp byte) float64 {
	return math.Pow(float64(base), float64(exp))
}

func powerOverflows(base, exp byte) bool {
	return float64(exp)*math.Log(float64(base)) > BYTE_LN
}

// fastSqrt approximates the square root as the reciprocal of the fast
// inverse square root, with a single Newton step.
func fastSqrt(x byte) byte {
	half := float32(x) * 0.5
	y := float32(x)
	i := math.Float32bits(y)
	i = 0x5f3759df - (i >> 1)
	y = math.Float32frombits(i)
	y = y * (1.5 - half*y*y)

	return byte(math.Round(float64(1 / y)))
}

func exactSqrt(x byte) float64 {
	return math.Round(math.Sqrt(float64(x)))
}
