package types

import "math"

const (
	floatCmpEpsilon = 1e-12

	Pi    = float32(math.Pi)
	TwoPi = float32(2 * math.Pi)
)

var (
	PosInf = float32(math.Inf(1))
	NegInf = float32(math.Inf(-1))
)

func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	} else if v > max {
		return max
	}
	return v
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func Pow(v, exp float32) float32 {
	return float32(math.Pow(float64(v), float64(exp)))
}

func Sin(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

func Cos(v float32) float32 {
	return float32(math.Cos(float64(v)))
}

func Acos(v float32) float32 {
	return float32(math.Acos(float64(v)))
}

func Tan(v float32) float32 {
	return float32(math.Tan(float64(v)))
}

// Convert degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg * Pi / 180.0
}
